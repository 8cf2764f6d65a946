// Package ramp models the display driver's gamma lookup table: three
// 256-entry uint16 channels applied to every rendered pixel. Ramps are
// built whole and never mutated in place.
package ramp

// Ramp is a 3×256 array of uint16 values (R, G, B channels), matching
// the layout GetDeviceGammaRamp/SetDeviceGammaRamp operate on.
type Ramp [3][256]uint16

// Build constructs a brightness-scaled ramp. factor is clamped to
// [0.0, 1.0]; each entry is min(65535, i*256*factor), identical across
// all three channels so dimming never shifts color. The result is
// monotonically non-decreasing in i, and Build(1.0) is the identity
// ramp.
func Build(factor float64) Ramp {
	if factor < 0 {
		factor = 0
	} else if factor > 1 {
		factor = 1
	}
	var r Ramp
	for i := 0; i < 256; i++ {
		v := int(float64(i*256) * factor)
		if v > 65535 {
			v = 65535
		}
		r[0][i] = uint16(v)
		r[1][i] = uint16(v)
		r[2][i] = uint16(v)
	}
	return r
}

// Identity returns the default linear 1:1 ramp representing no
// adjustment.
func Identity() Ramp {
	return Build(1.0)
}
