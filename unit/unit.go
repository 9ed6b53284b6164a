// SPDX-License-Identifier: Unlicense OR MIT

// Package unit implements device independent units.
//
// Device independent pixel, or dp, is the unit for sizes independent
// of the underlying display device. Scaled pixels, or sp, is the unit
// for text sizes: an sp is like dp with the user's text scaling
// applied.
//
// Layout geometry is expressed in logical pixels; use a Metric to
// convert dp and sp values to them.
package unit

import "golang.org/x/image/math/fixed"

// Dp represents device independent pixels. 1 dp has the same apparent
// size across platforms and display resolutions.
type Dp float32

// Sp is like Dp but for font sizes.
type Sp float32

// Metric converts device independent units to logical pixels. The
// zero value converts one to one.
type Metric struct {
	// PxPerDp is the logical pixel size of one dp.
	PxPerDp float32
	// PxPerSp is the logical pixel size of one sp.
	PxPerSp float32
}

// Dp converts v to logical pixels.
func (m Metric) Dp(v Dp) float32 {
	return float32(v) * nonzero(m.PxPerDp)
}

// Sp converts v to logical pixels.
func (m Metric) Sp(v Sp) float32 {
	return float32(v) * nonzero(m.PxPerSp)
}

// SpToFixed converts v to fixed-point logical pixels for text
// shaping.
func (m Metric) SpToFixed(v Sp) fixed.Int26_6 {
	return floatToFixed(m.Sp(v))
}

func nonzero(scale float32) float32 {
	if scale == 0 {
		return 1
	}
	return scale
}

func floatToFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v*64 + .5)
}
