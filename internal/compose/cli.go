package compose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// DefaultCommand is the orchestrator binary used when none is configured.
const DefaultCommand = "docker-compose"

// DefaultStopTimeout bounds how long the orchestrator gets to shut down
// after an interrupt before it is killed.
const DefaultStopTimeout = 10 * time.Second

// CLI implements Runner by running the compose command line tool.
type CLI struct {
	command     []string
	stopTimeout time.Duration
	logger      *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewCLI creates a Runner for command, which may contain arguments
// (e.g. "docker compose").
func NewCLI(command string, stopTimeout time.Duration, logger *slog.Logger) (*CLI, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("compose command is empty")
	}
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CLI{
		command:     fields,
		stopTimeout: stopTimeout,
		logger:      logger,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}, nil
}

// CommandLine returns the full argv Up would run for config.
func (c *CLI) CommandLine(config UpConfig) []string {
	return CommandLine(c.command, config)
}

// CommandLine returns the argv that brings up config using command.
func CommandLine(command []string, config UpConfig) []string {
	args := append([]string{}, command...)
	return append(args, "-f", config.DescriptorPath, "up", "--build")
}

// Up runs "<command> -f <descriptor> up --build" with the merged
// environment and inherited stdio. It blocks until the orchestrator exits.
// A non-zero exit is returned as an error wrapping *exec.ExitError.
func (c *CLI) Up(ctx context.Context, config UpConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid compose config: %w", err)
	}

	if _, err := os.Stat(config.DescriptorPath); err != nil {
		return fmt.Errorf("compose descriptor: %w", err)
	}
	c.logDescriptor(config.DescriptorPath)

	binary, err := exec.LookPath(c.command[0])
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", c.command[0], err)
	}

	argv := c.CommandLine(config)
	cmd := exec.CommandContext(ctx, binary, argv[1:]...)
	cmd.Env = mergeEnv(os.Environ(), config.Env)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	cmd.Cancel = func() error {
		c.logger.Info("Interrupted, stopping orchestrator...", "grace", c.stopTimeout)
		return interrupt(cmd.Process)
	}
	cmd.WaitDelay = c.stopTimeout

	c.logger.Info("Starting orchestrator", "command", strings.Join(argv, " "))

	err = cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		// Cancelled, but the orchestrator shut down cleanly.
		c.logger.Debug("Orchestrator exited cleanly after interrupt", "reason", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s exited: %w", c.command[0], err)
	}
	return nil
}

// logDescriptor reports the services the descriptor declares. The file is
// handed to the orchestrator as-is whatever this finds.
func (c *CLI) logDescriptor(path string) {
	descriptor, err := ReadDescriptor(path)
	if err != nil {
		c.logger.Warn("Could not inspect compose descriptor", "path", path, "error", err)
		return
	}
	services := descriptor.ServiceNames()
	if len(services) == 0 {
		c.logger.Warn("Compose descriptor declares no top-level services", "path", path)
		return
	}
	c.logger.Debug("Compose descriptor", "path", path, "services", services)
}

// mergeEnv returns base with every variable in extra set, replacing any
// inherited value of the same name.
func mergeEnv(base []string, extra map[string]string) []string {
	merged := lo.Reject(base, func(kv string, _ int) bool {
		key, _, _ := strings.Cut(kv, "=")
		_, overridden := extra[key]
		return overridden
	})

	return append(merged, envPairs(extra)...)
}

// envPairs renders env as KEY=VALUE strings sorted by key.
func envPairs(env map[string]string) []string {
	pairs := lo.MapToSlice(env, func(k, v string) string {
		return k + "=" + v
	})
	sort.Strings(pairs)
	return pairs
}
