// Package errors defines the sentinel errors shared across the toolkit.
package errors

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalid     = errors.New("invalid")
	ErrInvalidYAML = errors.New("invalid yaml")
	ErrStorage     = errors.New("storage error")
	ErrKubernetes  = errors.New("kubernetes error")
	ErrScaffold    = errors.New("scaffold error")
	ErrExternal    = errors.New("external command error")
	ErrRollout     = errors.New("rollout error")
)
