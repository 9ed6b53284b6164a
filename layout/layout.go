// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"math"

	"github.com/sysint64/clew/f32"
)

// SizeMode selects how one axis of a widget is sized.
type SizeMode uint8

const (
	// ModeWrap sizes the axis to the widget's intrinsic size.
	ModeWrap SizeMode = iota
	// ModeFixed sizes the axis to an exact value in logical pixels.
	ModeFixed
	// ModeFill gives the axis a weighted share of the space left in
	// the parent container after fixed and wrap siblings are sized.
	ModeFill
)

// A SizeConstraint determines the size of one axis.
// The zero value is Wrap.
type SizeConstraint struct {
	Mode  SizeMode
	Value float32 // fixed size for ModeFixed, flex weight for ModeFill
}

// Fixed returns a constraint for an exact size.
func Fixed(v float32) SizeConstraint {
	return SizeConstraint{Mode: ModeFixed, Value: v}
}

// Wrap returns a constraint for the intrinsic size.
func Wrap() SizeConstraint {
	return SizeConstraint{Mode: ModeWrap}
}

// Fill returns a constraint taking a weighted share of leftover space.
func Fill(weight float32) SizeConstraint {
	return SizeConstraint{Mode: ModeFill, Value: weight}
}

// constrained reports whether the axis size does not depend on
// measurement.
func (c SizeConstraint) constrained() bool {
	return c.Mode != ModeWrap
}

// Size holds the sizing constraints for both axes.
type Size struct {
	Width, Height SizeConstraint
}

// FixedSize returns a Size with both axes fixed.
func FixedSize(width, height float32) Size {
	return Size{Width: Fixed(width), Height: Fixed(height)}
}

// WrapSize returns a Size with both axes wrapping their content.
func WrapSize() Size {
	return Size{Width: Wrap(), Height: Wrap()}
}

// FillSize returns a Size filling the parent on both axes with
// weight 1.
func FillSize() Size {
	return Size{Width: Fill(1), Height: Fill(1)}
}

// Square returns a Size with the same constraint on both axes.
func Square(c SizeConstraint) Size {
	return Size{Width: c, Height: c}
}

// Constraints clamp a widget's resolved size. A non-positive max on
// an axis means unbounded, so the zero value imposes no limits.
type Constraints struct {
	MinWidth, MinHeight float32
	MaxWidth, MaxHeight float32
}

var inf = float32(math.Inf(1))

func (c Constraints) maxW() float32 {
	if c.MaxWidth <= 0 {
		return inf
	}
	return c.MaxWidth
}

func (c Constraints) maxH() float32 {
	if c.MaxHeight <= 0 {
		return inf
	}
	return c.MaxHeight
}

func (c Constraints) clampWidth(w float32) float32 {
	if w < c.MinWidth {
		w = c.MinWidth
	}
	if max := c.maxW(); w > max {
		w = max
	}
	return w
}

func (c Constraints) clampHeight(h float32) float32 {
	if h < c.MinHeight {
		h = c.MinHeight
	}
	if max := c.maxH(); h > max {
		h = max
	}
	return h
}

func (c Constraints) clamp(size f32.Point) f32.Point {
	return f32.Point{
		X: c.clampWidth(size.X),
		Y: c.clampHeight(size.Y),
	}
}

// Inset is space around a widget's content: padding when applied
// inside its decoration, margin when applied outside.
type Inset struct {
	Top, Right, Bottom, Left float32
}

// UniformInset returns an Inset with a single value applied to all
// edges.
func UniformInset(v float32) Inset {
	return Inset{Top: v, Right: v, Bottom: v, Left: v}
}

// SymmetricInset returns an Inset with the same horizontal and the
// same vertical values on opposite edges.
func SymmetricInset(horizontal, vertical float32) Inset {
	return Inset{Top: vertical, Right: horizontal, Bottom: vertical, Left: horizontal}
}

// Horizontal returns the sum of the left and right insets.
func (in Inset) Horizontal() float32 {
	return in.Left + in.Right
}

// Vertical returns the sum of the top and bottom insets.
func (in Inset) Vertical() float32 {
	return in.Top + in.Bottom
}

// Add returns the edge-wise sum of in and other.
func (in Inset) Add(other Inset) Inset {
	return Inset{
		Top:    in.Top + other.Top,
		Right:  in.Right + other.Right,
		Bottom: in.Bottom + other.Bottom,
		Left:   in.Left + other.Left,
	}
}

// Direction is the reading direction of the interface.
type Direction uint8

const (
	LTR Direction = iota
	RTL
)

// AlignX positions a widget horizontally inside a boundary.
type AlignX uint8

const (
	// XStart is the reading-direction start edge: left under LTR,
	// right under RTL.
	XStart AlignX = iota
	// XEnd is the reading-direction end edge.
	XEnd
	XLeft
	XRight
	XCenter
)

// AlignY positions a widget vertically inside a boundary.
type AlignY uint8

const (
	YTop AlignY = iota
	YBottom
	YCenter
)

// position returns the x offset of a widget of the given size inside
// a boundary of the given width.
func (a AlignX) position(dir Direction, boundary, size float32) float32 {
	switch a {
	case XLeft:
		return 0
	case XRight:
		return boundary - size
	case XCenter:
		return (boundary - size) / 2
	case XStart:
		if dir == RTL {
			return boundary - size
		}
		return 0
	case XEnd:
		if dir == RTL {
			return 0
		}
		return boundary - size
	default:
		panic("unreachable")
	}
}

// position returns the y offset of a widget of the given size inside
// a boundary of the given height.
func (a AlignY) position(boundary, size float32) float32 {
	switch a {
	case YTop:
		return 0
	case YBottom:
		return boundary - size
	case YCenter:
		return (boundary - size) / 2
	default:
		panic("unreachable")
	}
}

// CrossAlignment positions stack children on the axis perpendicular
// to the stack direction.
type CrossAlignment uint8

const (
	CrossStart CrossAlignment = iota
	CrossEnd
	CrossCenter
	// CrossStretch expands children to the stack's cross-axis extent.
	CrossStretch
)

// BorderRadius holds per-corner radii for rounded clip shapes.
type BorderRadius struct {
	TopLeft, TopRight, BottomLeft, BottomRight float32
}

// UniformRadius returns a BorderRadius with all corners set to r.
func UniformRadius(r float32) BorderRadius {
	return BorderRadius{TopLeft: r, TopRight: r, BottomLeft: r, BottomRight: r}
}

// Shape enumerates clip shapes.
type Shape uint8

const (
	// ShapeNone disables clipping; it is the zero value.
	ShapeNone Shape = iota
	ShapeRect
	ShapeRoundedRect
	ShapeOval
)

// ClipShape describes the clip region declared on a container.
// The zero value means the container does not clip.
type ClipShape struct {
	Shape  Shape
	Radius BorderRadius // for ShapeRoundedRect
}

// ClipRect returns a rectangular clip.
func ClipRect() ClipShape {
	return ClipShape{Shape: ShapeRect}
}

// ClipRoundedRect returns a rounded rectangular clip.
func ClipRoundedRect(radius BorderRadius) ClipShape {
	return ClipShape{Shape: ShapeRoundedRect, Radius: radius}
}

// ClipOval returns an oval clip inscribed in the container's rect.
func ClipOval() ClipShape {
	return ClipShape{Shape: ShapeOval}
}

// View describes the surface a frame is laid out for. Size is in
// physical pixels; the implicit root container is sized to
// Size / ScaleFactor logical pixels.
type View struct {
	Size        f32.Point
	ScaleFactor float32
	Direction   Direction
}
