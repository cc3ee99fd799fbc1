//go:build !windows

package compose

import (
	"os"
	"syscall"
)

// interrupt asks the orchestrator to stop the way a terminal Ctrl+C would,
// so it can take its containers down cleanly.
func interrupt(p *os.Process) error {
	return p.Signal(syscall.SIGINT)
}
