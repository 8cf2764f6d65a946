// Package display is the boundary to the OS display subsystem. The
// live gamma ramp is a single systemwide resource; this package only
// reads and replaces it, it owns nothing.
package display

import "github.com/alex-vit/duskbright/internal/ramp"

// Device reads and applies gamma ramps on the primary display.
//
// ApplyRamp returns false when the OS rejects the ramp. Windows (since
// Vista) enforces a sanity check that refuses ramps deviating too far
// from identity; in practice this clamps the effective minimum to
// roughly 50%. Rejection leaves the display unchanged and is a normal
// outcome, not an error.
type Device interface {
	ReadRamp() (ramp.Ramp, error)
	ApplyRamp(ramp.Ramp) bool
}
