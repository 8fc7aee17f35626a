// Package scaffold materializes the blue/green demo project: container build
// file, the two HTTP server sources, a CI pipeline, the Rollout and Service
// manifests, and the cluster helper scripts.
package scaffold

import (
	"fmt"
	"io/fs"
	"regexp"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
)

// Params drives template rendering. The zero value is not usable; start
// from DefaultParams.
type Params struct {
	AppName   string
	Namespace string
	Image     string
	Tag       string
	Port      int
	Replicas  int
}

// DefaultParams returns the parameter set that reproduces the stock demo
// project.
func DefaultParams() Params {
	return Params{
		AppName:   "demo-app",
		Namespace: "default",
		Image:     "ghcr.io/deploylab/demo-app",
		Tag:       "blue",
		Port:      8080,
		Replicas:  2,
	}
}

var dnsLabelRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

func (p *Params) Validate() error {
	if !dnsLabelRe.MatchString(p.AppName) || len(p.AppName) > 63 {
		return fmt.Errorf("%w: app name %q must be a DNS label", apperrors.ErrInvalid, p.AppName)
	}
	if !dnsLabelRe.MatchString(p.Namespace) || len(p.Namespace) > 63 {
		return fmt.Errorf("%w: namespace %q must be a DNS label", apperrors.ErrInvalid, p.Namespace)
	}
	if p.Image == "" {
		return fmt.Errorf("%w: image cannot be empty", apperrors.ErrInvalid)
	}
	if p.Tag == "" {
		return fmt.Errorf("%w: tag cannot be empty", apperrors.ErrInvalid)
	}
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", apperrors.ErrInvalid, p.Port)
	}
	if p.Replicas < 1 {
		return fmt.Errorf("%w: replicas must be at least 1", apperrors.ErrInvalid)
	}
	return nil
}

// File is one generated project file. Path is relative to the target
// directory.
type File struct {
	Path string
	Mode fs.FileMode
}

// Files is the fixed set the generator emits, in write order.
var Files = []File{
	{Path: "Dockerfile", Mode: 0o644},
	{Path: "app/blue/main.go", Mode: 0o644},
	{Path: "app/green/main.go", Mode: 0o644},
	{Path: ".github/workflows/build.yaml", Mode: 0o644},
	{Path: "manifests/rollout.yaml", Mode: 0o644},
	{Path: "manifests/services.yaml", Mode: 0o644},
	{Path: "scripts/cluster-up.sh", Mode: 0o755},
	{Path: "scripts/inspect.sh", Mode: 0o755},
}
