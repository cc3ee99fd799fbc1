// Package bootstrap prepares a component's launch environment: it makes sure
// the component's config file and the shared ports registry exist, resolves
// the component's port and produces the variables the compose descriptor
// expects.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/email-service/launcher/internal/component"
	"github.com/email-service/launcher/internal/constants"
	"github.com/email-service/launcher/internal/jsonfile"
)

// Layout locates the deployment tree on the host.
type Layout struct {
	BaseDir string
}

// ConfigPath returns the host path of kind's config file.
func (l Layout) ConfigPath(kind component.Kind) string {
	return filepath.Join(l.BaseDir, kind.Spec().ConfigPath)
}

// ComposePath returns the host path of kind's compose descriptor.
func (l Layout) ComposePath(kind component.Kind) string {
	return filepath.Join(l.BaseDir, kind.Spec().ComposePath)
}

// PortsPath returns the host path of the shared ports registry.
func (l Layout) PortsPath() string {
	return filepath.Join(l.BaseDir, constants.PortsFile)
}

// Result is everything a launch needs once bootstrap succeeded.
type Result struct {
	Component     component.Kind
	ConfigPath    string
	ComposePath   string
	Port          int
	Env           Environment
	ConfigCreated bool
	PortsCreated  bool
}

// Bootstrapper runs the bootstrap steps against one Layout.
type Bootstrapper struct {
	layout Layout
	logger *slog.Logger
}

// New creates a Bootstrapper. A nil logger falls back to slog.Default().
func New(layout Layout, logger *slog.Logger) *Bootstrapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bootstrapper{layout: layout, logger: logger}
}

// Layout returns the layout the bootstrapper works on.
func (b *Bootstrapper) Layout() Layout {
	return b.layout
}

// EnsureConfig writes kind's default config if no file exists at its path.
// An existing file is left untouched whatever it contains. It reports
// whether it created the file.
func (b *Bootstrapper) EnsureConfig(kind component.Kind) (bool, error) {
	path := b.layout.ConfigPath(kind)

	exists, err := jsonfile.Exists(path)
	if err != nil {
		return false, err
	}
	if exists {
		b.logger.Debug("Using existing config", "component", kind, "path", path)
		return false, nil
	}

	b.logger.Info(fmt.Sprintf("Generating a config for a %s...", kind), "path", path)
	doc, err := DefaultConfig(kind)
	if err != nil {
		return false, err
	}
	if err := jsonfile.Create(path, doc); err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to generate %s config: %w", kind, err)
	}
	return true, nil
}

// Run performs the full bootstrap for kind. The returned environment holds
// the in-container config path and the resolved port. Nothing is written
// to the process environment.
func (b *Bootstrapper) Run(kind component.Kind) (*Result, error) {
	env := Environment{}
	env.Set(kind.ConfigPathDockerVar(), kind.Spec().DockerConfigPath)

	configCreated, err := b.EnsureConfig(kind)
	if err != nil {
		return nil, err
	}

	portsCreated, err := b.EnsurePorts()
	if err != nil {
		return nil, err
	}
	port, err := b.LookupPort(kind)
	if err != nil {
		return nil, err
	}

	env.Set(kind.PortVar(), strconv.Itoa(port))

	b.logger.Debug("Bootstrap complete", "component", kind, "port", port)

	return &Result{
		Component:     kind,
		ConfigPath:    b.layout.ConfigPath(kind),
		ComposePath:   b.layout.ComposePath(kind),
		Port:          port,
		Env:           env,
		ConfigCreated: configCreated,
		PortsCreated:  portsCreated,
	}, nil
}
