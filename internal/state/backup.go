// Package state externalizes the session's ownership of the display:
// a durable backup of the original gamma ramp and a PID lockfile that
// lets the next instance detect an unclean shutdown.
package state

import (
	"encoding/json"
	"log"
	"os"

	"github.com/alex-vit/duskbright/internal/ramp"
)

// rampFile is the on-disk backup layout: three named channels of
// exactly 256 values each.
type rampFile struct {
	Red   []uint16 `json:"Red"`
	Green []uint16 `json:"Green"`
	Blue  []uint16 `json:"Blue"`
}

// Store persists the original ramp backup at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the backup atomically (temp file + rename) so a crash
// mid-write never leaves a half-written file. Failure is logged and
// reported, never fatal.
func (s *Store) Save(r ramp.Ramp) bool {
	f := rampFile{
		Red:   append([]uint16(nil), r[0][:]...),
		Green: append([]uint16(nil), r[1][:]...),
		Blue:  append([]uint16(nil), r[2][:]...),
	}
	data, err := json.Marshal(f)
	if err != nil {
		log.Printf("backup: marshal error: %v", err)
		return false
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("backup: write error: %v", err)
		return false
	}
	if err := os.Rename(tmp, s.path); err != nil {
		log.Printf("backup: rename error: %v", err)
		os.Remove(tmp)
		return false
	}
	log.Printf("backup: saved original gamma ramp to %s", s.path)
	return true
}

// Load reads the backup back. Any structural violation (missing file,
// missing channel, wrong channel length, unparsable content) reads as
// absent; a corrupt backup is never applied.
func (s *Store) Load() (ramp.Ramp, bool) {
	var r ramp.Ramp
	data, err := os.ReadFile(s.path)
	if err != nil {
		return r, false
	}
	var f rampFile
	if err := json.Unmarshal(data, &f); err != nil {
		log.Printf("backup: corrupt file: %v", err)
		return r, false
	}
	for _, ch := range [][]uint16{f.Red, f.Green, f.Blue} {
		if len(ch) != 256 {
			log.Printf("backup: corrupt file: channel has %d entries, want 256", len(ch))
			return r, false
		}
	}
	copy(r[0][:], f.Red)
	copy(r[1][:], f.Green)
	copy(r[2][:], f.Blue)
	return r, true
}

// Remove deletes the backup. A missing file is a no-op.
func (s *Store) Remove() {
	err := os.Remove(s.path)
	if err == nil {
		log.Printf("backup: removed %s", s.path)
	} else if !os.IsNotExist(err) {
		log.Printf("backup: could not remove %s: %v", s.path, err)
	}
}
