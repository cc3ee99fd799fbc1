package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	settings, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ".", settings.BaseDir)
	assert.Equal(t, "docker-compose", settings.ComposeCommand)
	assert.Equal(t, "info", settings.LogLevel)
	assert.Equal(t, 10*time.Second, settings.StopTimeout)
}

func TestLoadFrom_Overrides(t *testing.T) {
	settings, err := LoadFrom(map[string]string{
		"LAUNCHER_BASE_DIR":        "/srv/email",
		"LAUNCHER_COMPOSE_COMMAND": "docker compose",
		"LAUNCHER_LOG_LEVEL":       "debug",
		"LAUNCHER_STOP_TIMEOUT":    "30s",
	})
	require.NoError(t, err)

	assert.Equal(t, "/srv/email", settings.BaseDir)
	assert.Equal(t, "docker compose", settings.ComposeCommand)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, 30*time.Second, settings.StopTimeout)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{name: "unparsable timeout", environ: map[string]string{"LAUNCHER_STOP_TIMEOUT": "soon"}},
		{name: "negative timeout", environ: map[string]string{"LAUNCHER_STOP_TIMEOUT": "-1s"}},
		{name: "blank compose command", environ: map[string]string{"LAUNCHER_COMPOSE_COMMAND": "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			assert.Error(t, err)
		})
	}
}
