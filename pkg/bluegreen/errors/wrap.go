package errors

import "fmt"

// WrapKubernetes wraps an error with Kubernetes context
func WrapKubernetes(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrKubernetes, context, err)
}

// WrapStorage wraps an error with storage context
func WrapStorage(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, context, err)
}

// WrapScaffold wraps an error with scaffold context
func WrapScaffold(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrScaffold, context, err)
}

// WrapInvalidYAML wraps an error with invalid YAML context
func WrapInvalidYAML(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidYAML, context, err)
}

// WrapRollout wraps an error with rollout context
func WrapRollout(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrRollout, context, err)
}
