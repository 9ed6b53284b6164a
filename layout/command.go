// SPDX-License-Identifier: Unlicense OR MIT

package layout

import "github.com/sysint64/clew/f32"

// WidgetID identifies a widget across frames. IDs are assigned by the
// tree builder, typically from a call-site hash plus a loop seed.
type WidgetID struct {
	Base, Seed uint64
}

// WidgetType identifies the kind of a widget. The layout core treats
// it as opaque; the renderer uses it to pick a draw routine.
type WidgetType uint32

// WidgetRef points at one widget instance.
type WidgetRef struct {
	Type WidgetType
	ID   WidgetID
}

// TextID is a handle to a text paragraph registered with the text
// measurer.
type TextID uint64

// Op is the kind of a layout Command.
type Op uint8

const (
	// OpBeginContainer opens a container; it must be balanced by
	// OpEndContainer.
	OpBeginContainer Op = iota
	OpEndContainer
	// OpChild places a leaf widget.
	OpChild
	// OpSpacer reserves space like an invisible child.
	OpSpacer
	// OpBeginOffset translates every enclosed placement by a fixed
	// vector; it must be balanced by OpEndOffset.
	OpBeginOffset
	OpEndOffset
)

// ContainerKind selects the stacking semantics of a container.
type ContainerKind uint8

const (
	// KindNone is a plain wrapper: children overlap at the top-left.
	KindNone ContainerKind = iota
	// KindVStack arranges children top to bottom.
	KindVStack
	// KindHStack arranges children in reading order.
	KindHStack
	// KindZStack overlaps children with a common alignment.
	KindZStack
	// KindMeasure wraps like KindNone and additionally publishes its
	// resolved geometry in Frame.Measures.
	KindMeasure
)

// Container is the payload of an OpBeginContainer command.
type Container struct {
	Kind    ContainerKind
	Spacing float32 // logical pixels between stack children
	// RTLAware mirrors an HStack's child order and positions under
	// RTL, and makes CrossStart/CrossEnd in a VStack follow the
	// reading direction.
	RTLAware bool
	// Cross aligns stack children on the perpendicular axis.
	Cross CrossAlignment
	// AlignX and AlignY position KindZStack children.
	AlignX AlignX
	AlignY AlignY
	// MeasureID keys the Frame.Measures entry of a KindMeasure
	// container.
	MeasureID WidgetID
}

// VStack returns a vertical stack container.
func VStack(spacing float32) Container {
	return Container{Kind: KindVStack, Spacing: spacing}
}

// HStack returns a horizontal stack container.
func HStack(spacing float32) Container {
	return Container{Kind: KindHStack, Spacing: spacing}
}

// ZStack returns an overlapping container with the given child
// alignment.
func ZStack(alignX AlignX, alignY AlignY) Container {
	return Container{Kind: KindZStack, AlignX: alignX, AlignY: alignY}
}

// MeasureBox returns a wrapper container that publishes its resolved
// geometry under id.
func MeasureBox(id WidgetID) Container {
	return Container{Kind: KindMeasure, MeasureID: id}
}

// WrapFrom selects the source of a child's intrinsic size.
type WrapFrom uint8

const (
	// FromConstraints derives the wrap size from Constraints minimums.
	FromConstraints WrapFrom = iota
	// FromText measures a registered text paragraph.
	FromText
	// FromVector measures a registered vector asset.
	FromVector
)

// WrapSource tells the first pass how to obtain a child's intrinsic
// size when an axis is Wrap.
type WrapSource struct {
	From  WrapFrom
	Text  TextID // for FromText
	Asset string // for FromVector
}

// TextWrap returns a WrapSource measuring the given paragraph.
func TextWrap(id TextID) WrapSource {
	return WrapSource{From: FromText, Text: id}
}

// VectorWrap returns a WrapSource measuring the given vector asset.
func VectorWrap(asset string) WrapSource {
	return WrapSource{From: FromVector, Asset: asset}
}

// Command is one instruction of the layout tape. Only the fields
// relevant to Op are read; the rest are ignored.
type Command struct {
	Op Op

	// Container describes an OpBeginContainer.
	Container Container

	// Widget is the leaf widget of an OpChild.
	Widget WidgetRef
	// Backgrounds are emitted with the container's or child's rect
	// before it; Foregrounds after it (above children for a
	// container).
	Backgrounds []WidgetRef
	Foregrounds []WidgetRef

	Constraints Constraints
	Size        Size
	Padding     Inset
	Margin      Inset
	ZIndex      int32
	// Clip declares the clip region of an OpBeginContainer; the zero
	// value does not clip.
	Clip ClipShape
	// Wrap selects the intrinsic size source of an OpChild.
	Wrap WrapSource

	// Offset is the translation of an OpBeginOffset.
	Offset f32.Point
}
