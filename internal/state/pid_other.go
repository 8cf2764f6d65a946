//go:build !windows

package state

import (
	"os"
	"syscall"
)

// pidAlive reports whether a process with the given PID exists, via
// the null signal. EPERM means the process is there but not ours.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || err == syscall.EPERM
}
