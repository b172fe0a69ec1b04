//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// SetProcessGroup places the command in a new process group so that
// KillProcessGroup reaches the compiler and any helpers it spawns.
// Must be called before cmd.Start.
func SetProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; callers also kill the direct child via cmd.Process.Kill.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
