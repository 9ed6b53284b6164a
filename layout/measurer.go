// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"errors"
	"fmt"

	"github.com/sysint64/clew/f32"
)

// TextMeasurer supplies the intrinsic size of a registered text
// paragraph, in physical pixels.
type TextMeasurer interface {
	MeasureText(id TextID) (f32.Point, error)
}

// VectorMeasurer supplies the intrinsic size of a registered vector
// asset, in logical pixels.
type VectorMeasurer interface {
	MeasureVector(asset string) (f32.Point, error)
}

// Measurer supplies intrinsic sizes for children whose wrap size is
// not derived from constraints.
type Measurer interface {
	TextMeasurer
	VectorMeasurer
}

// MultiMeasurer combines independent text and vector measurers into
// one Measurer. A nil half rejects its measurements with
// ErrNoMeasurer.
type MultiMeasurer struct {
	Text   TextMeasurer
	Vector VectorMeasurer
}

func (m MultiMeasurer) MeasureText(id TextID) (f32.Point, error) {
	if m.Text == nil {
		return f32.Point{}, ErrNoMeasurer
	}
	return m.Text.MeasureText(id)
}

func (m MultiMeasurer) MeasureVector(asset string) (f32.Point, error) {
	if m.Vector == nil {
		return f32.Point{}, ErrNoMeasurer
	}
	return m.Vector.MeasureVector(asset)
}

// ErrNoMeasurer is returned when the command stream requires
// measurement but no measurer capable of it was supplied.
var ErrNoMeasurer = errors.New("layout: no measurer")

// UnknownTextError is returned when a text handle has not been
// registered with the measurer.
type UnknownTextError struct {
	ID TextID
}

func (e UnknownTextError) Error() string {
	return fmt.Sprintf("layout: unknown text %d", e.ID)
}

// UnknownAssetError is returned when a vector asset id has not been
// registered with the measurer.
type UnknownAssetError struct {
	Asset string
}

func (e UnknownAssetError) Error() string {
	return fmt.Sprintf("layout: unknown vector asset %q", e.Asset)
}
