package bootstrap

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/email-service/launcher/internal/component"
	"github.com/email-service/launcher/internal/constants"
)

// NodeConfig is the node's config.json. Operators fill in the password and
// the peer list after generation.
type NodeConfig struct {
	Password   *string         `json:"password"`
	OtherNodes json.RawMessage `json:"other_nodes"`
}

// ClientConfig is the client's config.json.
type ClientConfig struct {
	DarkTheme bool    `json:"dark_theme"`
	Proxy     *string `json:"proxy"`
	SecretKey string  `json:"secret_key"`
}

// defaultPorts keeps the generated registry in node, client order.
type defaultPorts struct {
	Node   int `json:"node"`
	Client int `json:"client"`
}

// DefaultNodeConfig returns a node config with every field unset.
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{}
}

// DefaultClientConfig returns a client config carrying a freshly generated secret.
func DefaultClientConfig() (ClientConfig, error) {
	key, err := NewSecretKey()
	if err != nil {
		return ClientConfig{}, err
	}
	return ClientConfig{SecretKey: key}, nil
}

// NewSecretKey returns constants.SecretKeyBytes random bytes, hex encoded.
func NewSecretKey() (string, error) {
	buf := make([]byte, constants.SecretKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// DefaultConfig builds the default document for kind.
func DefaultConfig(kind component.Kind) (any, error) {
	switch kind {
	case component.Node:
		return DefaultNodeConfig(), nil
	case component.Client:
		return DefaultClientConfig()
	default:
		return nil, fmt.Errorf("no default config for component %q", kind)
	}
}

func defaultRegistry() defaultPorts {
	return defaultPorts{
		Node:   constants.DefaultNodePort,
		Client: constants.DefaultClientPort,
	}
}
