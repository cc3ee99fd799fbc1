//go:build windows

package compose

import "os"

// interrupt stops the orchestrator. Windows has no SIGINT delivery to a
// child process, so it is killed outright.
func interrupt(p *os.Process) error {
	return p.Kill()
}
