package constants

import "os"

// Deployment layout, relative to the launcher base directory.
const (
	// PortsFile is the shared registry mapping component names to ports.
	PortsFile = "ports.json"

	// ServiceDir holds one subdirectory per component with its config.json.
	ServiceDir = "email-service"

	// DockerDir holds one compose descriptor per component.
	DockerDir = "docker"

	// ConfigFileName is the config file name inside each component directory.
	ConfigFileName = "config.json"

	// ComposeExt is the extension of compose descriptors under DockerDir.
	ComposeExt = ".yml"
)

// In-container locations the compose descriptors mount the configs at.
const (
	NodeConfigPathDocker   = "/usr/src/node/config.json"
	ClientConfigPathDocker = "/usr/src/client/config.json"
)

// Default ports written to a fresh registry.
const (
	DefaultNodePort   = 8000
	DefaultClientPort = 8888
)

// Environment variable suffixes, prefixed with the upper-cased component name.
const (
	EnvConfigPathDockerSuffix = "_CONFIG_PATH_DOCKER"
	EnvPortSuffix             = "_PORT"
)

// Client secret parameters.
const (
	// SecretKeyBytes is the number of random bytes behind secret_key.
	SecretKeyBytes = 32

	// MinSecretKeyLength is the minimum hex length the client accepts.
	MinSecretKeyLength = 64
)

// Valid TCP port range.
const (
	MinPort = 1
	MaxPort = 65535
)

// JSONIndent is the indentation used for every generated file.
const JSONIndent = "    "

// File permissions
const (
	// FilePermissions is the mode for generated files. Containers read the
	// mounted configs as their own user, so they stay world-readable.
	FilePermissions os.FileMode = 0644
)
