//go:build windows

package platform

import (
	"os"
	"os/exec"
	"syscall"
)

// createNoWindow keeps console children from flashing a terminal window
const createNoWindow = 0x08000000

func hideConsoleWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: createNoWindow,
	}
}

// interruptProcess has no gentler option than TerminateProcess on Windows
func interruptProcess(p *os.Process) error {
	return p.Kill()
}
