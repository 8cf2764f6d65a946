//go:build !windows

package display

import (
	"fmt"

	"github.com/alex-vit/duskbright/internal/ramp"
)

// GDI is only functional on Windows. This stub fails reads and rejects
// applies so portable callers degrade the same way they would on a
// device query failure.
type GDI struct{}

func NewGDI() GDI { return GDI{} }

func (GDI) ReadRamp() (ramp.Ramp, error) {
	return ramp.Ramp{}, fmt.Errorf("gamma ramp control requires windows")
}

func (GDI) ApplyRamp(ramp.Ramp) bool { return false }
