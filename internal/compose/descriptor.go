package compose

import (
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Descriptor is the subset of a compose file the launcher looks at.
type Descriptor struct {
	Services map[string]yaml.Node `yaml:"services"`
}

// ReadDescriptor parses the compose file at path.
func ReadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compose descriptor: %w", err)
	}

	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse compose descriptor %s: %w", path, err)
	}
	return &d, nil
}

// ServiceNames returns the declared services, sorted.
func (d *Descriptor) ServiceNames() []string {
	names := lo.Keys(d.Services)
	sort.Strings(names)
	return names
}
