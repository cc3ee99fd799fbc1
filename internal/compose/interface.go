package compose

import (
	"context"
	"errors"
)

// UpConfig holds what is needed to bring a component's service up.
type UpConfig struct {
	// DescriptorPath is the compose file describing the service.
	DescriptorPath string

	// Env is added on top of the launcher's own environment. Entries here win
	// over inherited variables of the same name.
	Env map[string]string
}

// Validate checks that the configuration is usable.
func (c UpConfig) Validate() error {
	if c.DescriptorPath == "" {
		return errors.New("descriptor path is required")
	}
	return nil
}

// Runner hands a component over to the container orchestrator.
type Runner interface {
	// Up builds and runs the service described by config and blocks until
	// the orchestrator exits.
	Up(ctx context.Context, config UpConfig) error
}
