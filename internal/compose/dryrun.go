package compose

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// DryRun is a Runner that prints what would be run instead of running it.
type DryRun struct {
	out     io.Writer
	command []string
}

// NewDryRun creates a DryRun writing to out.
func NewDryRun(out io.Writer, command string) *DryRun {
	return &DryRun{out: out, command: strings.Fields(command)}
}

// Up prints the extra environment as KEY=VALUE lines followed by the
// orchestrator command line.
func (d *DryRun) Up(_ context.Context, config UpConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid compose config: %w", err)
	}

	for _, kv := range envPairs(config.Env) {
		fmt.Fprintln(d.out, kv)
	}
	fmt.Fprintf(d.out, "COMMAND=%s\n", strings.Join(CommandLine(d.command, config), " "))
	return nil
}
