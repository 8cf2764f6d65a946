package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-vit/duskbright/internal/ramp"
	"github.com/alex-vit/duskbright/internal/state"
)

// fakeDevice stands in for the GDI boundary: it records every applied
// ramp and can reject the next N applies the way the OS sanity check
// would.
type fakeDevice struct {
	current    ramp.Ramp
	readErr    error
	rejectNext int
	applied    []ramp.Ramp
}

func (d *fakeDevice) ReadRamp() (ramp.Ramp, error) {
	if d.readErr != nil {
		return ramp.Ramp{}, d.readErr
	}
	return d.current, nil
}

func (d *fakeDevice) ApplyRamp(r ramp.Ramp) bool {
	if d.rejectNext > 0 {
		d.rejectNext--
		return false
	}
	d.applied = append(d.applied, r)
	d.current = r
	return true
}

type fixture struct {
	dev   *fakeDevice
	store *state.Store
	lock  *state.Lock

	lockPath   string
	backupPath string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dev:        &fakeDevice{current: ramp.Build(0.8)},
		lockPath:   filepath.Join(dir, "duskbright.lock"),
		backupPath: filepath.Join(dir, "ramp_backup.json"),
	}
	f.store = state.NewStore(f.backupPath)
	f.lock = state.NewLock(f.lockPath)
	return f
}

func (f *fixture) writeStaleLock(t *testing.T) {
	t.Helper()
	// A PID far beyond any real pid space.
	require.NoError(t, os.WriteFile(f.lockPath, []byte(strconv.Itoa(1<<30)), 0o644))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestSetBrightness(t *testing.T) {
	f := newFixture(t)
	s := New(f.dev, f.store, f.lock)
	s.Start()

	require.True(t, s.SetBrightness(50))
	assert.Equal(t, 50, s.Current())
	assert.Equal(t, ramp.Build(0.5), f.dev.current)

	// Rejection leaves session state untouched.
	f.dev.rejectNext = 1
	assert.False(t, s.SetBrightness(20))
	assert.Equal(t, 50, s.Current(), "last known good level survives a rejection")
	assert.Equal(t, ramp.Build(0.5), f.dev.current, "display unchanged on rejection")
}

func TestSetBrightnessClamps(t *testing.T) {
	f := newFixture(t)
	s := New(f.dev, f.store, f.lock)
	s.Start()

	require.True(t, s.SetBrightness(3))
	assert.Equal(t, 10, s.Current(), "percentage clamps up to the floor")

	require.True(t, s.SetBrightness(250))
	assert.Equal(t, 100, s.Current(), "percentage clamps down to 100")
}

func TestSetBrightnessCustomFloor(t *testing.T) {
	f := newFixture(t)
	s := New(f.dev, f.store, f.lock)
	s.SetFloor(30)
	s.Start()

	require.True(t, s.SetBrightness(15))
	assert.Equal(t, 30, s.Current())
}

func TestRestoreOriginal(t *testing.T) {
	f := newFixture(t)
	orig := f.dev.current
	s := New(f.dev, f.store, f.lock)
	s.Start()

	require.True(t, s.SetBrightness(40))
	require.True(t, s.RestoreOriginal())
	assert.Equal(t, orig, f.dev.current)
	assert.Equal(t, 100, s.Current())
}

func TestStartCapturesAndExternalizes(t *testing.T) {
	f := newFixture(t)
	orig := f.dev.current
	s := New(f.dev, f.store, f.lock)
	s.Start()

	saved, ok := f.store.Load()
	require.True(t, ok, "Start persists the original ramp")
	assert.Equal(t, orig, saved)

	assert.False(t, f.lock.Stale(), "Start acquires the lock for this process")
	assert.True(t, exists(f.lockPath))
}

func TestStartWithUnreadableDisplay(t *testing.T) {
	f := newFixture(t)
	f.dev.readErr = fmt.Errorf("device query rejected")
	s := New(f.dev, f.store, f.lock)
	s.Start()

	saved, ok := f.store.Load()
	require.True(t, ok)
	assert.Equal(t, ramp.Identity(), saved, "identity stands in for an unreadable original")
}

func TestCleanupRunsOnce(t *testing.T) {
	f := newFixture(t)
	s := New(f.dev, f.store, f.lock)
	s.Start()
	require.True(t, s.SetBrightness(30))

	applies := len(f.dev.applied)
	s.Cleanup()
	s.Cleanup()
	s.Cleanup()

	assert.Equal(t, applies+1, len(f.dev.applied), "restore happens exactly once across repeated cleanups")
	assert.False(t, exists(f.lockPath), "lockfile removed")
	assert.False(t, exists(f.backupPath), "backup removed")
}

func TestCleanupWithoutModification(t *testing.T) {
	f := newFixture(t)
	s := New(f.dev, f.store, f.lock)
	s.Start()

	applies := len(f.dev.applied)
	s.Cleanup()

	assert.Equal(t, applies, len(f.dev.applied), "nothing to restore when never modified")
	assert.False(t, exists(f.lockPath))
	assert.False(t, exists(f.backupPath))
}

func TestRecoverNotStale(t *testing.T) {
	f := newFixture(t)
	assert.False(t, Recover(f.dev, f.store, f.lock))
	assert.Empty(t, f.dev.applied, "no repair without a stale lock")
}

func TestRecoverWithBackup(t *testing.T) {
	f := newFixture(t)
	backup := ramp.Build(0.7)
	require.True(t, f.store.Save(backup))
	f.writeStaleLock(t)

	require.True(t, Recover(f.dev, f.store, f.lock))
	assert.Equal(t, backup, f.dev.current, "backup ramp applied")
	assert.False(t, exists(f.lockPath), "stale lockfile cleared")
	assert.False(t, exists(f.backupPath), "backup cleared")
}

func TestRecoverWithoutBackup(t *testing.T) {
	f := newFixture(t)
	f.writeStaleLock(t)

	require.True(t, Recover(f.dev, f.store, f.lock))
	assert.Equal(t, ramp.Identity(), f.dev.current, "identity ramp is the fallback")
	assert.False(t, exists(f.lockPath))
}

func TestRecoverBackupRejected(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.store.Save(ramp.Build(0.7)))
	f.writeStaleLock(t)
	f.dev.rejectNext = 1

	require.True(t, Recover(f.dev, f.store, f.lock))
	assert.Equal(t, ramp.Identity(), f.dev.current, "identity fallback after a rejected backup")
	assert.False(t, exists(f.lockPath))
	assert.False(t, exists(f.backupPath))
}

func TestRecoverCorruptBackup(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.backupPath, []byte(`{"Red":[1,2]}`), 0o644))
	f.writeStaleLock(t)

	require.True(t, Recover(f.dev, f.store, f.lock))
	assert.Equal(t, ramp.Identity(), f.dev.current, "corrupt backup treated as absent")
	assert.False(t, exists(f.backupPath))
}

func TestManualRestoreWithBackup(t *testing.T) {
	f := newFixture(t)
	backup := ramp.Build(0.65)
	require.True(t, f.store.Save(backup))
	f.lock.Acquire()

	assert.True(t, ManualRestore(f.dev, f.store, f.lock))
	assert.Equal(t, backup, f.dev.current)
	assert.False(t, exists(f.lockPath))
	assert.False(t, exists(f.backupPath))
}

func TestManualRestoreWithoutBackup(t *testing.T) {
	f := newFixture(t)

	assert.True(t, ManualRestore(f.dev, f.store, f.lock))
	assert.Equal(t, ramp.Identity(), f.dev.current)
}

func TestCrashThenRecoverEndToEnd(t *testing.T) {
	dir := t.TempDir()
	dev := &fakeDevice{current: ramp.Build(0.9)}
	orig := dev.current

	// First instance dims the display and "crashes": no Cleanup, but
	// its lockfile names a dead process.
	store1 := state.NewStore(filepath.Join(dir, "ramp_backup.json"))
	lock1 := state.NewLock(filepath.Join(dir, "duskbright.lock"))
	s1 := New(dev, store1, lock1)
	s1.Start()
	require.True(t, s1.SetBrightness(25))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "duskbright.lock"),
		[]byte(strconv.Itoa(1<<30)), 0o644))

	// Second instance starts and repairs the display before touching it.
	store2 := state.NewStore(filepath.Join(dir, "ramp_backup.json"))
	lock2 := state.NewLock(filepath.Join(dir, "duskbright.lock"))
	s2 := New(dev, store2, lock2)
	s2.Start()

	assert.Equal(t, orig, dev.current, "second startup restored the crashed session's original ramp")
	s2.Cleanup()
}
