//go:build windows

package player

import (
	"os/exec"

	"github.com/alvarorichard/animesama-cli/internal/util"
)

func setProcessGroup(cmd *exec.Cmd) {
	util.Debugf("Setting process group for command: %s", cmd.String())
}

func browserCommand() (string, []string) {
	return "rundll32", []string{"url.dll,FileProtocolHandler"}
}
