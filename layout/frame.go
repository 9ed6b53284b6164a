// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"cmp"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/sysint64/clew/f32"
)

// WidgetPlacement is the resolved geometry of one widget.
type WidgetPlacement struct {
	Widget WidgetRef
	ZIndex int32
	// Boundary is the box the widget was positioned within, used for
	// hit-testing; Rect is the widget's own content box.
	Boundary f32.Rectangle
	Rect     f32.Rectangle
}

// ItemOp is the kind of a frame Item.
type ItemOp uint8

const (
	// ItemPlacement places a widget.
	ItemPlacement ItemOp = iota
	// ItemPushClip starts clipping subsequent items to a rect, in
	// physical pixels.
	ItemPushClip
	// ItemPopClip ends the innermost clip.
	ItemPopClip
)

// Item is one entry of the ordered frame output.
type Item struct {
	Op        ItemOp
	Placement WidgetPlacement // for ItemPlacement
	ClipRect  f32.Rectangle   // for ItemPushClip, physical pixels
	ClipShape ClipShape       // for ItemPushClip
}

// Measure is the geometry snapshot a KindMeasure container publishes:
// its resolved viewport position and size plus the wrap size of its
// content. Scroll widgets compare the two on the next frame.
type Measure struct {
	X, Y          float32
	Width, Height float32
	WrapWidth     float32
	WrapHeight    float32
}

// TextWidth reports the width, in physical pixels, that a text child
// was laid out to. The caller re-wraps the paragraph to this width
// before the second Layout call of a frame.
type TextWidth struct {
	ID    TextID
	Width float32
}

// Frame receives the output of one Layout call. Its storage is
// reused: slices are truncated and the map cleared, not reallocated.
type Frame struct {
	Items    []Item
	Measures map[WidgetID]Measure
	Texts    []TextWidth
}

func (f *Frame) reset() {
	f.Items = f.Items[:0]
	f.Texts = f.Texts[:0]
	if f.Measures != nil {
		maps.Clear(f.Measures)
	}
}

func (f *Frame) setMeasure(id WidgetID, m Measure) {
	if f.Measures == nil {
		f.Measures = make(map[WidgetID]Measure)
	}
	f.Measures[id] = m
}

// sortByZIndex stable-sorts placements by zindex. Clip markers are
// fences: placements are only reordered relative to other placements
// in the same contiguous run, so every PushClip/PopClip keeps its
// original scope.
func (f *Frame) sortByZIndex() {
	items := f.Items
	start := -1
	for i := range items {
		if items[i].Op == ItemPlacement {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			sortPlacements(items[start:i])
			start = -1
		}
	}
	if start >= 0 {
		sortPlacements(items[start:])
	}
}

func sortPlacements(run []Item) {
	slices.SortStableFunc(run, func(a, b Item) int {
		return cmp.Compare(a.Placement.ZIndex, b.Placement.ZIndex)
	})
}
