package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/email-service/launcher/internal/compose"
	"github.com/email-service/launcher/internal/config"
)

// recordingRunner stands in for the orchestrator and remembers every call.
type recordingRunner struct {
	calls []compose.UpConfig
	err   error
}

func (r *recordingRunner) Up(_ context.Context, cfg compose.UpConfig) error {
	r.calls = append(r.calls, cfg)
	return r.err
}

func (r *recordingRunner) factory() runnerFactory {
	return func(*config.Settings, *slog.Logger) (compose.Runner, error) {
		return r, nil
	}
}

// newDeploymentTree creates the directory layout the launcher expects.
func newDeploymentTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, sub := range []string{"email-service/node", "email-service/client", "docker"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0755))
	}
	return dir
}

func launch(t *testing.T, runner *recordingRunner, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut, runner.factory())
	return code, out.String(), errOut.String()
}

func TestRun_PortPropagation(t *testing.T) {
	dir := newDeploymentTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ports.json"), []byte(`{"node": 9001, "client": 8888}`), 0644))
	runner := &recordingRunner{}

	code, _, stderr := launch(t, runner, "--base-dir", dir, "node")
	require.Equal(t, 0, code, stderr)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, filepath.Join(dir, "docker", "node.yml"), call.DescriptorPath)
	assert.Equal(t, "9001", call.Env["NODE_PORT"])
	assert.Equal(t, "/usr/src/node/config.json", call.Env["NODE_CONFIG_PATH_DOCKER"])
	assert.Len(t, call.Env, 2)
}

func TestRun_GeneratesMissingFiles(t *testing.T) {
	dir := newDeploymentTree(t)
	runner := &recordingRunner{}

	code, _, stderr := launch(t, runner, "--base-dir", dir, "client")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "Generating a config for a client...")
	assert.Contains(t, stderr, "Generating a file with ports...")

	data, err := os.ReadFile(filepath.Join(dir, "ports.json"))
	require.NoError(t, err)
	var ports map[string]int
	require.NoError(t, json.Unmarshal(data, &ports))
	assert.Equal(t, map[string]int{"node": 8000, "client": 8888}, ports)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "8888", runner.calls[0].Env["CLIENT_PORT"])
}

func TestRun_InvalidPortNeverLaunches(t *testing.T) {
	dir := newDeploymentTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ports.json"), []byte(`{"node": "oops"}`), 0644))
	runner := &recordingRunner{}

	code, _, stderr := launch(t, runner, "--base-dir", dir, "client")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Invalid client port.")
	assert.Empty(t, runner.calls, "orchestrator must not be invoked")
	assert.NotContains(t, stderr, "Usage:")
}

func TestRun_UnsupportedComponent(t *testing.T) {
	dir := t.TempDir()
	runner := &recordingRunner{}

	code, _, stderr := launch(t, runner, "--base-dir", dir, "server")

	assert.NotEqual(t, 0, code)
	assert.Contains(t, stderr, `invalid argument "server"`)
	assert.Empty(t, runner.calls)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no files may be created for an unsupported component")
}

func TestRun_MissingComponent(t *testing.T) {
	runner := &recordingRunner{}

	code, _, _ := launch(t, runner, "--base-dir", t.TempDir())

	assert.NotEqual(t, 0, code)
	assert.Empty(t, runner.calls)
}

func TestRun_IdempotentConfig(t *testing.T) {
	dir := newDeploymentTree(t)
	runner := &recordingRunner{}
	configPath := filepath.Join(dir, "email-service", "client", "config.json")

	code, _, stderr := launch(t, runner, "--base-dir", dir, "client")
	require.Equal(t, 0, code, stderr)
	first, err := os.ReadFile(configPath)
	require.NoError(t, err)

	code, _, stderr = launch(t, runner, "--base-dir", dir, "client")
	require.Equal(t, 0, code, stderr)
	second, err := os.ReadFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotContains(t, stderr, "Generating a config")
	assert.Contains(t, stderr, "config_state=existing")
	assert.Contains(t, stderr, "ports_generated=false")
}

func TestRun_LogsLaunchSummary(t *testing.T) {
	dir := newDeploymentTree(t)
	runner := &recordingRunner{}

	code, _, stderr := launch(t, runner, "--base-dir", dir, "node")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stderr, "Launching component")
	assert.Contains(t, stderr, "component=node")
	assert.Contains(t, stderr, "port=8000")
	assert.Contains(t, stderr, "config_state=generated")
	assert.Contains(t, stderr, "ports_generated=true")
}

func TestRun_MissingServiceDirectoryIsFatal(t *testing.T) {
	dir := t.TempDir()
	runner := &recordingRunner{}

	code, _, stderr := launch(t, runner, "--base-dir", dir, "node")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to generate node config")
	assert.Empty(t, runner.calls)
}

func TestRun_DryRun(t *testing.T) {
	dir := newDeploymentTree(t)
	runner := &recordingRunner{}

	code, stdout, stderr := launch(t, runner, "--base-dir", dir, "--dry-run", "node")
	require.Equal(t, 0, code, stderr)

	assert.Empty(t, runner.calls)
	assert.Contains(t, stdout, "NODE_CONFIG_PATH_DOCKER=/usr/src/node/config.json\n")
	assert.Contains(t, stdout, "NODE_PORT=8000\n")
	assert.Contains(t, stdout, "COMMAND=docker-compose -f "+filepath.Join(dir, "docker", "node.yml")+" up --build\n")
}

func TestRun_OrchestratorExitCodePassesThrough(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	exitErr := exec.Command("sh", "-c", "exit 7").Run()
	require.Error(t, exitErr)

	dir := newDeploymentTree(t)
	runner := &recordingRunner{err: exitErr}

	code, _, _ := launch(t, runner, "--base-dir", dir, "node")
	assert.Equal(t, 7, code)
}

func TestRun_Status(t *testing.T) {
	dir := newDeploymentTree(t)
	runner := &recordingRunner{}

	code, stdout, stderr := launch(t, runner, "--base-dir", dir, "status", "client")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "Component client")
	assert.Contains(t, stdout, "(will be generated)")
	assert.Contains(t, stdout, "(not found)")
	assert.Empty(t, runner.calls)

	_, err := os.Stat(filepath.Join(dir, "ports.json"))
	assert.True(t, os.IsNotExist(err), "status must not generate files")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := launch(t, &recordingRunner{}, "version")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "launcher version "+version)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}
