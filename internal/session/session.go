// Package session owns the in-memory state of one dimming session and
// the crash-safety protocol around it: recover from a dead prior
// owner on startup, externalize our own ownership while running, and
// restore the display exactly once no matter which path tears us down.
package session

import (
	"log"
	"sync"

	"github.com/alex-vit/duskbright/internal/display"
	"github.com/alex-vit/duskbright/internal/ramp"
	"github.com/alex-vit/duskbright/internal/state"
)

// Session holds the captured original ramp and the runtime dimming
// state for one process lifetime. All mutation goes through its
// methods; a signal may invoke Cleanup concurrently with a brightness
// change, so the fields are mutex-guarded and cleanup is one-shot.
type Session struct {
	dev   display.Device
	store *state.Store
	lock  *state.Lock

	mu       sync.Mutex
	original ramp.Ramp
	modified bool
	current  int
	floor    int

	cleanup sync.Once
}

func New(dev display.Device, store *state.Store, lock *state.Lock) *Session {
	return &Session{
		dev:   dev,
		store: store,
		lock:  lock,
		// Until a change is applied the display is at its own level;
		// report it as 100.
		current: 100,
		floor:   10,
	}
}

// SetFloor raises the minimum accepted percentage. The floor never
// goes below 10: the OS rejects such ramps anyway and a 0% ramp is a
// black screen with no visible way back.
func (s *Session) SetFloor(pct int) {
	if pct < 10 {
		pct = 10
	}
	if pct > 100 {
		pct = 100
	}
	s.mu.Lock()
	s.floor = pct
	s.mu.Unlock()
}

// Start runs crash recovery, then captures the current (clean) ramp as
// the original, persists it for the next crash, and takes ownership.
// Must be called once before any brightness change.
func (s *Session) Start() {
	Recover(s.dev, s.store, s.lock)

	orig, err := s.dev.ReadRamp()
	if err != nil {
		// Without a readable original the best restore target we can
		// offer is the identity ramp.
		log.Printf("session: could not read current gamma ramp: %v, using identity", err)
		orig = ramp.Identity()
	}
	s.mu.Lock()
	s.original = orig
	s.mu.Unlock()

	s.store.Save(orig)
	s.lock.Acquire()
}

// SetBrightness applies the given percentage via a scaled gamma ramp.
// The percentage is clamped to [floor, 100]. Returns false when the
// OS rejects the ramp; session state is untouched in that case and
// Current() still reports the last level that actually took.
func (s *Session) SetBrightness(pct int) bool {
	s.mu.Lock()
	floor := s.floor
	s.mu.Unlock()

	if pct < floor {
		pct = floor
	}
	if pct > 100 {
		pct = 100
	}
	r := ramp.Build(float64(pct) / 100)
	if !s.dev.ApplyRamp(r) {
		s.mu.Lock()
		last := s.current
		s.mu.Unlock()
		log.Printf("session: ramp for %d%% rejected by OS sanity check, staying at %d%%", pct, last)
		return false
	}
	s.mu.Lock()
	s.modified = true
	s.current = pct
	s.mu.Unlock()
	log.Printf("session: brightness set to %d%%", pct)
	return true
}

// RestoreOriginal re-applies the ramp captured at startup and, on
// success, marks the session unmodified.
func (s *Session) RestoreOriginal() bool {
	s.mu.Lock()
	orig := s.original
	s.mu.Unlock()

	if !s.dev.ApplyRamp(orig) {
		log.Printf("session: failed to restore original gamma ramp")
		return false
	}
	s.mu.Lock()
	s.modified = false
	s.current = 100
	s.mu.Unlock()
	log.Printf("session: restored original gamma ramp")
	return true
}

// Current returns the last successfully applied percentage (100
// before any change).
func (s *Session) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Cleanup restores the display if we changed it, releases the
// lockfile and removes the backup. Safe to call from any number of
// termination paths; only the first call does work.
func (s *Session) Cleanup() {
	s.cleanup.Do(func() {
		log.Printf("session: running cleanup")
		s.mu.Lock()
		modified := s.modified
		orig := s.original
		s.mu.Unlock()
		if modified {
			if s.dev.ApplyRamp(orig) {
				log.Printf("session: restored original gamma ramp")
			} else {
				log.Printf("session: failed to restore original gamma ramp on exit")
			}
		}
		s.lock.Release()
		s.store.Remove()
		log.Printf("session: cleanup complete")
	})
}

// Recover repairs display state left behind by a crashed prior owner.
// If the lockfile is not stale it does nothing. Otherwise it applies
// the persisted backup, falling back to the identity ramp when the
// backup is missing or the OS rejects it, and always clears both the
// lockfile and the backup so stale artifacts never accumulate.
// Reports whether a recovery was performed.
func Recover(dev display.Device, store *state.Store, lock *state.Lock) bool {
	if !lock.Stale() {
		return false
	}
	log.Printf("session: detected previous crash, restoring saved gamma ramp")
	if saved, ok := store.Load(); ok {
		if dev.ApplyRamp(saved) {
			log.Printf("session: restored gamma ramp from crash backup")
		} else {
			log.Printf("session: saved ramp rejected, falling back to identity ramp")
			applyIdentity(dev)
		}
	} else {
		log.Printf("session: no usable ramp backup, restoring identity ramp")
		applyIdentity(dev)
	}
	lock.Release()
	store.Remove()
	return true
}

// ManualRestore is the --restore path: repair the display from the
// backup (or identity) and clear the safety files, without running a
// session. Same repair semantics as Recover but unconditional.
func ManualRestore(dev display.Device, store *state.Store, lock *state.Lock) bool {
	ok := false
	if saved, loaded := store.Load(); loaded {
		ok = dev.ApplyRamp(saved)
		if ok {
			log.Printf("session: restored gamma ramp from backup file")
		} else {
			log.Printf("session: backup ramp rejected, applying identity ramp")
			ok = applyIdentity(dev)
		}
	} else {
		log.Printf("session: no backup file, applying identity ramp")
		ok = applyIdentity(dev)
	}
	lock.Release()
	store.Remove()
	return ok
}

func applyIdentity(dev display.Device) bool {
	if dev.ApplyRamp(ramp.Identity()) {
		log.Printf("session: restored identity gamma ramp")
		return true
	}
	log.Printf("session: failed to restore identity gamma ramp")
	return false
}
