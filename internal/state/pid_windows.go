//go:build windows

package state

import "golang.org/x/sys/windows"

// pidAlive reports whether a process with the given PID exists. A
// successful OpenProcess proves existence; ERROR_ACCESS_DENIED also
// proves it (the process is there, we just can't touch it).
func pidAlive(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err == nil {
		windows.CloseHandle(h)
		return true
	}
	return err == windows.ERROR_ACCESS_DENIED
}
