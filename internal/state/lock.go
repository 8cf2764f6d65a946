package state

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Lock is the ownership record: a file holding the PID of the process
// currently responsible for restoring display state. It is advisory —
// it detects a crashed prior owner, it does not exclude a concurrent
// one.
type Lock struct {
	path string
}

func NewLock(path string) *Lock {
	return &Lock{path: path}
}

// Acquire writes our PID into the lockfile, overwriting whatever was
// there.
func (l *Lock) Acquire() {
	pid := os.Getpid()
	if err := os.WriteFile(l.path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		log.Printf("lock: could not create lockfile: %v", err)
		return
	}
	log.Printf("lock: created lockfile with PID %d", pid)
}

// Release deletes the lockfile. A missing file is a no-op.
func (l *Lock) Release() {
	err := os.Remove(l.path)
	if err == nil {
		log.Printf("lock: removed lockfile")
	} else if !os.IsNotExist(err) {
		log.Printf("lock: could not remove lockfile: %v", err)
	}
}

// Stale reports whether the lockfile names an owner that is no longer
// running, i.e. the previous instance crashed without cleaning up.
// An unreadable or unparsable lockfile counts as stale. A lockfile
// naming a different live process does not — that instance may still
// be restoring state on its own exit.
func (l *Lock) Stale() bool {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("lock: lockfile unreadable: %v", err)
			return true
		}
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		log.Printf("lock: lockfile corrupt: %q", data)
		return true
	}
	if pid == os.Getpid() {
		return false
	}
	if pidAlive(pid) {
		log.Printf("lock: another instance (PID %d) may still be running", pid)
		return false
	}
	log.Printf("lock: found stale lockfile from crashed PID %d", pid)
	return true
}
