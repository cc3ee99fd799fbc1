package bootstrap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/email-service/launcher/internal/component"
	"github.com/email-service/launcher/internal/constants"
	"github.com/email-service/launcher/internal/jsonfile"
)

var (
	// ErrPortMissing means the registry has no entry for the component.
	ErrPortMissing = errors.New("no entry in ports registry")

	// ErrPortOutOfRange means the entry is an integer outside 1-65535.
	ErrPortOutOfRange = errors.New("port out of range")
)

// InvalidPortError is returned when the ports registry cannot yield a usable
// port for a component, whether because the file is not valid JSON, the key
// is missing, or the value is not a port number.
type InvalidPortError struct {
	Component component.Kind
	Err       error
}

func (e *InvalidPortError) Error() string {
	return fmt.Sprintf("Invalid %s port.", e.Component)
}

func (e *InvalidPortError) Unwrap() error {
	return e.Err
}

// EnsurePorts writes the default registry for every component if the shared
// ports file does not exist yet. It reports whether it created the file.
func (b *Bootstrapper) EnsurePorts() (bool, error) {
	path := b.layout.PortsPath()

	exists, err := jsonfile.Exists(path)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	b.logger.Info("Generating a file with ports...", "path", path)
	if err := jsonfile.Create(path, defaultRegistry()); err != nil {
		if errors.Is(err, os.ErrExist) {
			b.logger.Debug("Ports file appeared while generating, keeping it", "path", path)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// LookupPort reads the registry and returns the port for kind.
// Content problems are reported as *InvalidPortError; a file that cannot be
// read at all is returned as a plain wrapped error.
func (b *Bootstrapper) LookupPort(kind component.Kind) (int, error) {
	path := b.layout.PortsPath()

	var registry map[string]json.RawMessage
	if err := jsonfile.Read(path, &registry); err != nil {
		var decErr *jsonfile.DecodeError
		if errors.As(err, &decErr) {
			return 0, &InvalidPortError{Component: kind, Err: err}
		}
		return 0, err
	}

	raw, ok := registry[kind.String()]
	if !ok {
		return 0, &InvalidPortError{Component: kind, Err: ErrPortMissing}
	}

	var port int
	if err := json.Unmarshal(raw, &port); err != nil {
		return 0, &InvalidPortError{Component: kind, Err: fmt.Errorf("value %s is not an integer: %w", raw, err)}
	}
	if port < constants.MinPort || port > constants.MaxPort {
		return 0, &InvalidPortError{Component: kind, Err: fmt.Errorf("%w: %d", ErrPortOutOfRange, port)}
	}

	return port, nil
}
