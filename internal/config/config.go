package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings controls the launcher itself. Every field can be set from the
// environment; CLI flags override it.
type Settings struct {
	// BaseDir is the root of the deployment tree (ports.json, docker/, email-service/).
	BaseDir string `env:"LAUNCHER_BASE_DIR" envDefault:"."`

	// ComposeCommand is the orchestrator command, e.g. "docker-compose" or "docker compose".
	ComposeCommand string `env:"LAUNCHER_COMPOSE_COMMAND" envDefault:"docker-compose"`

	LogLevel string `env:"LAUNCHER_LOG_LEVEL" envDefault:"info"`

	// StopTimeout is how long the orchestrator may take to exit after an interrupt.
	StopTimeout time.Duration `env:"LAUNCHER_STOP_TIMEOUT" envDefault:"10s"`
}

// Load reads Settings from the process environment.
func Load() (*Settings, error) {
	settings, err := env.ParseAs[Settings]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse launcher settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// LoadFrom reads Settings from the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (*Settings, error) {
	settings, err := env.ParseAsWithOptions[Settings](env.Options{Environment: environ})
	if err != nil {
		return nil, fmt.Errorf("failed to parse launcher settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.BaseDir) == "" {
		return errors.New("LAUNCHER_BASE_DIR must not be empty")
	}
	if strings.TrimSpace(s.ComposeCommand) == "" {
		return errors.New("LAUNCHER_COMPOSE_COMMAND must not be empty")
	}
	if s.StopTimeout < 0 {
		return fmt.Errorf("LAUNCHER_STOP_TIMEOUT must not be negative, got %v", s.StopTimeout)
	}
	return nil
}
