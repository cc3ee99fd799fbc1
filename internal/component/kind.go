package component

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/email-service/launcher/internal/constants"
)

// Kind is one of the deployable components the launcher knows how to start.
type Kind string

const (
	Node   Kind = "node"
	Client Kind = "client"
)

// Spec describes where a component's artifacts live.
// Local paths are relative to the launcher base directory.
type Spec struct {
	Kind Kind

	// ConfigPath is the component's JSON config on the host.
	ConfigPath string

	// DockerConfigPath is where the compose descriptor mounts ConfigPath.
	DockerConfigPath string

	// ComposePath is the compose descriptor that builds and runs the component.
	ComposePath string
}

var specs = map[Kind]Spec{
	Node: {
		Kind:             Node,
		ConfigPath:       filepath.Join(constants.ServiceDir, string(Node), constants.ConfigFileName),
		DockerConfigPath: constants.NodeConfigPathDocker,
		ComposePath:      filepath.Join(constants.DockerDir, string(Node)+constants.ComposeExt),
	},
	Client: {
		Kind:             Client,
		ConfigPath:       filepath.Join(constants.ServiceDir, string(Client), constants.ConfigFileName),
		DockerConfigPath: constants.ClientConfigPathDocker,
		ComposePath:      filepath.Join(constants.DockerDir, string(Client)+constants.ComposeExt),
	},
}

// All returns every supported kind in a stable order.
func All() []Kind {
	return []Kind{Node, Client}
}

// Names returns the string form of every supported kind.
func Names() []string {
	return lo.Map(All(), func(k Kind, _ int) string {
		return k.String()
	})
}

// Parse converts a CLI argument into a Kind.
func Parse(name string) (Kind, error) {
	kind := Kind(name)
	if !lo.Contains(All(), kind) {
		return "", fmt.Errorf("unsupported component %q (expected one of: %s)", name, strings.Join(Names(), ", "))
	}
	return kind, nil
}

func (k Kind) String() string {
	return string(k)
}

// EnvPrefix returns the prefix used for the component's environment variables.
func (k Kind) EnvPrefix() string {
	return strings.ToUpper(string(k))
}

// ConfigPathDockerVar is the name of the variable carrying the in-container config path.
func (k Kind) ConfigPathDockerVar() string {
	return k.EnvPrefix() + constants.EnvConfigPathDockerSuffix
}

// PortVar is the name of the variable carrying the resolved port.
func (k Kind) PortVar() string {
	return k.EnvPrefix() + constants.EnvPortSuffix
}

// Spec returns the artifact locations for k. It panics on a kind that did not
// come from Parse or All.
func (k Kind) Spec() Spec {
	spec, ok := specs[k]
	if !ok {
		panic(fmt.Sprintf("component: no spec for kind %q", string(k)))
	}
	return spec
}
