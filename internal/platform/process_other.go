//go:build !windows

package platform

import (
	"os"
	"os/exec"
	"syscall"
)

func hideConsoleWindow(cmd *exec.Cmd) {}

func interruptProcess(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}
