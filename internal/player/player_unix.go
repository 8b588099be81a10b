//go:build !windows

package player

import (
	"os/exec"
	"runtime"
	"syscall"
)

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

func browserCommand() (string, []string) {
	if runtime.GOOS == "darwin" {
		return "open", nil
	}
	return "xdg-open", nil
}
