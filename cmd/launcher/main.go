package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/email-service/launcher/internal/bootstrap"
	"github.com/email-service/launcher/internal/component"
	"github.com/email-service/launcher/internal/compose"
	"github.com/email-service/launcher/internal/config"
	"github.com/email-service/launcher/internal/logging"
	"github.com/email-service/launcher/internal/state"
)

var version = "0.1.0"

// runnerFactory builds the orchestrator runner once settings are known.
type runnerFactory func(settings *config.Settings, logger *slog.Logger) (compose.Runner, error)

func newComposeRunner(settings *config.Settings, logger *slog.Logger) (compose.Runner, error) {
	cli, err := compose.NewCLI(settings.ComposeCommand, settings.StopTimeout, logger)
	if err != nil {
		return nil, err
	}
	return cli, nil
}

// app carries what the commands share once the root command has parsed
// flags and settings.
type app struct {
	stdout    io.Writer
	stderr    io.Writer
	newRunner runnerFactory

	baseDir  string
	dryRun   bool
	settings *config.Settings
	logger   *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, newComposeRunner)
	stop()
	os.Exit(code)
}

// run executes the launcher and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, newRunner runnerFactory) int {
	a := &app{stdout: stdout, stderr: stderr, newRunner: newRunner}

	rootCmd := a.newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
	}
	return exitCode(err)
}

// exitCode maps a command error to a process exit code. The orchestrator's
// own exit status passes through unchanged.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}

func componentArgs() cobra.PositionalArgs {
	return cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)
}

func (a *app) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launcher {" + strings.Join(component.Names(), "|") + "}",
		Short: "Bootstrap configuration and launch an email-service component",
		Long: `Generates the component's config.json and the shared ports.json when they
are missing, then runs the component's compose descriptor with
<COMPONENT>_CONFIG_PATH_DOCKER and <COMPONENT>_PORT set.

Existing config files are never modified. Settings can be provided via
LAUNCHER_BASE_DIR, LAUNCHER_COMPOSE_COMMAND, LAUNCHER_LOG_LEVEL and
LAUNCHER_STOP_TIMEOUT, or a .env file in the working directory.`,
		ValidArgs:         component.Names(),
		Args:              componentArgs(),
		SilenceErrors:     true,
		PersistentPreRunE: a.loadSettings,
		RunE:              a.runLaunch,
	}

	cmd.PersistentFlags().StringVar(&a.baseDir, "base-dir", "", "Deployment tree root (overrides LAUNCHER_BASE_DIR)")
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "Print the resolved environment and command instead of launching")

	cmd.AddCommand(
		a.newStatusCmd(),
		a.newVersionCmd(),
	)

	return cmd
}

func (a *app) loadSettings(cmd *cobra.Command, args []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("base-dir") {
		settings.BaseDir = a.baseDir
	}

	a.settings = settings
	a.logger = logging.New(a.stderr, settings.LogLevel)
	return nil
}

func (a *app) runLaunch(cmd *cobra.Command, args []string) error {
	// Arguments are valid from here on; failures are not usage errors.
	cmd.SilenceUsage = true

	kind, err := component.Parse(args[0])
	if err != nil {
		return err
	}

	b := bootstrap.New(bootstrap.Layout{BaseDir: a.settings.BaseDir}, a.logger)
	result, err := b.Run(kind)
	if err != nil {
		return err
	}

	configState := "existing"
	if result.ConfigCreated {
		configState = "generated"
	}
	a.logger.Info("Launching component",
		"component", result.Component.String(),
		"port", result.Port,
		"config", result.ConfigPath,
		"config_state", configState,
		"ports_generated", result.PortsCreated,
	)

	var runner compose.Runner
	if a.dryRun {
		runner = compose.NewDryRun(a.stdout, a.settings.ComposeCommand)
	} else {
		runner, err = a.newRunner(a.settings, a.logger)
		if err != nil {
			return err
		}
	}

	return runner.Up(cmd.Context(), compose.UpConfig{
		DescriptorPath: result.ComposePath,
		Env:            result.Env,
	})
}

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "status {" + strings.Join(component.Names(), "|") + "}",
		Short:     "Show what launching a component would find, without changing anything",
		ValidArgs: component.Names(),
		Args:      componentArgs(),
		RunE:      a.runStatus,
	}
}

func (a *app) runStatus(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	kind, err := component.Parse(args[0])
	if err != nil {
		return err
	}

	b := bootstrap.New(bootstrap.Layout{BaseDir: a.settings.BaseDir}, a.logger)
	s := state.NewDetector(b, a.settings.ComposeCommand).Detect(kind)

	out := a.stdout
	fmt.Fprintf(out, "Component %s\n", kind)
	fmt.Fprintln(out, "=================")
	fmt.Fprintln(out)

	if s.ConfigExists {
		fmt.Fprintf(out, "Config:     %s (exists)\n", s.ConfigPath)
	} else {
		fmt.Fprintf(out, "Config:     %s (will be generated)\n", s.ConfigPath)
	}

	switch {
	case !s.PortsExists:
		fmt.Fprintf(out, "Ports:      %s (will be generated)\n", s.PortsPath)
	case s.PortErr != nil:
		fmt.Fprintf(out, "Ports:      %s (%v)\n", s.PortsPath, s.PortErr)
	default:
		fmt.Fprintf(out, "Ports:      %s (%s=%d)\n", s.PortsPath, kind.PortVar(), s.Port)
	}

	switch {
	case !s.ComposeExists:
		fmt.Fprintf(out, "Compose:    %s (not found)\n", s.ComposePath)
	case s.ComposeErr != nil:
		fmt.Fprintf(out, "Compose:    %s (%v)\n", s.ComposePath, s.ComposeErr)
	default:
		fmt.Fprintf(out, "Compose:    %s (services: %s)\n", s.ComposePath, strings.Join(s.Services, ", "))
	}

	if s.ComposeInstalled {
		fmt.Fprintf(out, "Command:    %s\n", s.ComposeCommand)
	} else {
		fmt.Fprintf(out, "Command:    %s (not found in PATH)\n", s.ComposeCommand)
	}

	if !s.Ready() {
		fmt.Fprintf(out, "\nRun 'launcher %s' to generate missing files and start it.\n", kind)
	}

	return nil
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "launcher version %s\n", version)
			fmt.Fprintf(a.stdout, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
