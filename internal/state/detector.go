package state

import (
	"os"
	"os/exec"
	"strings"

	"github.com/email-service/launcher/internal/bootstrap"
	"github.com/email-service/launcher/internal/component"
	"github.com/email-service/launcher/internal/compose"
)

// LaunchState describes what a launch of one component would find on disk.
type LaunchState struct {
	Component component.Kind

	ConfigPath   string
	ConfigExists bool

	PortsPath   string
	PortsExists bool
	Port        int
	PortErr     error

	ComposePath      string
	ComposeExists    bool
	Services         []string
	ComposeErr       error
	ComposeCommand   string
	ComposeInstalled bool
}

// Ready reports whether a launch could go straight to the orchestrator
// without generating anything or failing.
func (s *LaunchState) Ready() bool {
	return s.ConfigExists && s.PortsExists && s.PortErr == nil &&
		s.ComposeExists && s.ComposeErr == nil && len(s.Services) > 0 && s.ComposeInstalled
}

// Detector inspects the deployment tree without changing it.
type Detector struct {
	bootstrapper   *bootstrap.Bootstrapper
	composeCommand string
}

// NewDetector creates a new state detector.
func NewDetector(b *bootstrap.Bootstrapper, composeCommand string) *Detector {
	return &Detector{
		bootstrapper:   b,
		composeCommand: composeCommand,
	}
}

// Detect checks all aspects of kind's launch state.
func (d *Detector) Detect(kind component.Kind) *LaunchState {
	layout := d.bootstrapper.Layout()
	state := &LaunchState{
		Component:      kind,
		ConfigPath:     layout.ConfigPath(kind),
		PortsPath:      layout.PortsPath(),
		ComposePath:    layout.ComposePath(kind),
		ComposeCommand: d.composeCommand,
	}

	state.ConfigExists = fileExists(state.ConfigPath)

	// The registry is only read here; a missing one is generated at launch.
	state.PortsExists = fileExists(state.PortsPath)
	if state.PortsExists {
		state.Port, state.PortErr = d.bootstrapper.LookupPort(kind)
	}

	state.ComposeExists = fileExists(state.ComposePath)
	if state.ComposeExists {
		descriptor, err := compose.ReadDescriptor(state.ComposePath)
		if err != nil {
			state.ComposeErr = err
		} else {
			state.Services = descriptor.ServiceNames()
		}
	}

	state.ComposeInstalled = d.checkComposeInstalled()

	return state
}

// checkComposeInstalled checks the orchestrator binary is on PATH.
func (d *Detector) checkComposeInstalled() bool {
	fields := strings.Fields(d.composeCommand)
	if len(fields) == 0 {
		return false
	}
	_, err := exec.LookPath(fields[0])
	return err == nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
