package cluster

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/go-logr/logr"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
)

// CommandRunner abstracts the external CLI invocations so bootstrap logic
// can be tested without a kubectl binary.
type CommandRunner interface {
	// Run executes a command to completion
	Run(ctx context.Context, name string, args ...string) error

	// Start launches a long-lived command; the returned wait blocks until
	// it exits
	Start(ctx context.Context, name string, args ...string) (wait func() error, err error)
}

type execRunner struct {
	logger logr.Logger
}

// NewRunner returns a CommandRunner backed by os/exec, with the child's
// output passed through to this process.
func NewRunner(logger logr.Logger) CommandRunner {
	return &execRunner{logger: logger}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) error {
	r.logger.Info("Running command", "cmd", name, "args", args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s %v: %w", apperrors.ErrExternal, name, args, err)
	}
	return nil
}

func (r *execRunner) Start(ctx context.Context, name string, args ...string) (func() error, error) {
	r.logger.Info("Starting command", "cmd", name, "args", args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s %v: %w", apperrors.ErrExternal, name, args, err)
	}

	return func() error {
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("%w: %s %v: %w", apperrors.ErrExternal, name, args, err)
		}
		return nil
	}, nil
}
