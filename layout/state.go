// SPDX-License-Identifier: Unlicense OR MIT

package layout

import "github.com/sysint64/clew/f32"

// axis is the arrangement axis of a container during the first pass.
type axis uint8

const (
	axisNone axis = iota
	axisHorizontal
	axisVertical
)

// container is the first-pass context of the container currently
// being filled.
type container struct {
	idx      int
	axis     axis
	spacing  float32
	rtlAware bool

	kind        Container
	constraints Constraints
	size        Size
	insets      Inset
}

// placeAxis is the arrangement mode of a container during the second
// pass. It distinguishes aligned overlap (ZStack) from plain overlap
// because only the former repositions children.
type placeAxis uint8

const (
	placeNone placeAxis = iota
	placeAlign
	placeHorizontal
	placeVertical
)

// placeContainer is the second-pass context of the container
// currently being placed into.
type placeContainer struct {
	idx      int
	axis     placeAxis
	spacing  float32
	rtlAware bool
	cross    CrossAlignment
	alignX   AlignX // for placeAlign
	alignY   AlignY

	padding  Inset
	margin   Inset
	zindex   int32
	clipping bool

	// Foregrounds captured at OpBeginContainer, emitted above the
	// children at the matching OpEndContainer.
	foregrounds []WidgetRef
	fgRect      f32.Rectangle
	fgVisible   bool
}

// alignForChild maps the container's arrangement to the alignment of
// one child inside its boundary.
func (p *placeContainer) alignForChild(dir Direction) (AlignX, AlignY) {
	switch p.axis {
	case placeAlign:
		return p.alignX, p.alignY
	case placeHorizontal:
		switch p.cross {
		case CrossEnd:
			return XStart, YBottom
		case CrossCenter:
			return XStart, YCenter
		default: // CrossStart, CrossStretch
			return XStart, YTop
		}
	case placeVertical:
		switch p.cross {
		case CrossEnd:
			if p.rtlAware {
				return XEnd, YTop
			}
			return XRight, YTop
		case CrossCenter:
			return XCenter, YTop
		case CrossStart:
			if p.rtlAware {
				return XStart, YTop
			}
			return XLeft, YTop
		default: // CrossStretch
			return XStart, YTop
		}
	default:
		return XStart, YTop
	}
}

// State is the reusable scratch arena of one UI surface. All slices
// grow on demand and are reset by cursor, never freed, so a warm
// State allocates nothing per frame. A State must not be shared
// between surfaces or used concurrently.
type State struct {
	cursor int

	// One slot per OpBeginContainer/OpChild/OpSpacer, in command
	// order; the second pass re-reads them by the same cursor.
	wrapSizes   []f32.Point
	flexSizes   []f32.Point
	actualSizes []f32.Point
	resizes     []f32.Point
	flexX       []float32
	flexY       []float32
	flexSumX    []float32
	flexSumY    []float32
	constraints []Constraints
	margins     []Inset

	positionCursor int
	positions      []f32.Point

	containerCursor int
	parent          container
	containers      []container

	placeCursor int
	place       placeContainer
	places      []placeContainer

	offsetCursor int
	offsets      []f32.Point
}

func (s *State) clear() {
	s.parent = container{}
	s.place = placeContainer{}
	s.cursor = 0
	s.positionCursor = 0
	s.containerCursor = 0
	s.placeCursor = 0
	s.offsetCursor = 0
}

func (s *State) currentIdx() int {
	return s.cursor - 1
}

// pushSlot opens the scratch slot for the next command, growing the
// parallel arrays only the first time a tree this deep is laid out.
func (s *State) pushSlot() {
	if len(s.wrapSizes) <= s.cursor {
		s.wrapSizes = append(s.wrapSizes, f32.Point{})
		s.flexSizes = append(s.flexSizes, f32.Point{})
		s.actualSizes = append(s.actualSizes, f32.Point{})
		s.resizes = append(s.resizes, f32.Point{})
		s.flexX = append(s.flexX, 0)
		s.flexY = append(s.flexY, 0)
		s.flexSumX = append(s.flexSumX, 0)
		s.flexSumY = append(s.flexSumY, 0)
		s.constraints = append(s.constraints, Constraints{})
		s.margins = append(s.margins, Inset{})
	} else {
		s.wrapSizes[s.cursor] = f32.Point{}
		s.flexSizes[s.cursor] = f32.Point{}
		s.actualSizes[s.cursor] = f32.Point{}
		s.resizes[s.cursor] = f32.Point{}
		s.flexX[s.cursor] = 0
		s.flexY[s.cursor] = 0
		s.flexSumX[s.cursor] = 0
		s.flexSumY[s.cursor] = 0
		s.constraints[s.cursor] = Constraints{}
		s.margins[s.cursor] = Inset{}
	}
	s.cursor++
}

func (s *State) setConstraints(c Constraints) {
	s.constraints[s.cursor-1] = c
}

func (s *State) setMargin(m Inset) {
	s.margins[s.cursor-1] = m
}

func (s *State) setWrapSize(v f32.Point) {
	s.wrapSizes[s.cursor-1] = v
}

func (s *State) setActualSize(v f32.Point) {
	s.actualSizes[s.cursor-1] = v
}

func (s *State) setResize(v f32.Point) {
	s.resizes[s.cursor-1] = v
}

func (s *State) setFlexX(v float32) {
	s.flexX[s.cursor-1] = v
}

func (s *State) setFlexY(v float32) {
	s.flexY[s.cursor-1] = v
}

func (s *State) pushPosition(p f32.Point) {
	if len(s.positions) <= s.positionCursor {
		s.positions = append(s.positions, p)
	} else {
		s.positions[s.positionCursor] = p
	}
	s.positionCursor++
}

func (s *State) popPosition() f32.Point {
	s.positionCursor--
	return s.positions[s.positionCursor]
}

// pushOffset pushes the translation of an OpBeginOffset, accumulated
// with the enclosing offsets so lookups are a single read.
func (s *State) pushOffset(offset f32.Point) {
	if s.offsetCursor > 0 {
		offset = offset.Add(s.currentOffset())
	}
	if len(s.offsets) <= s.offsetCursor {
		s.offsets = append(s.offsets, offset)
	} else {
		s.offsets[s.offsetCursor] = offset
	}
	s.offsetCursor++
}

func (s *State) popOffset() f32.Point {
	if s.offsetCursor == 0 {
		panic("layout: EndOffset without BeginOffset")
	}
	s.offsetCursor--
	return s.offsets[s.offsetCursor]
}

func (s *State) currentOffset() f32.Point {
	return s.offsets[s.offsetCursor-1]
}

func (s *State) pushContainer(c container) {
	if len(s.containers) <= s.containerCursor {
		s.containers = append(s.containers, c)
	} else {
		s.containers[s.containerCursor] = c
	}
	s.containerCursor++
}

func (s *State) popContainer() container {
	if s.containerCursor == 0 {
		panic("layout: EndContainer without BeginContainer")
	}
	s.containerCursor--
	return s.containers[s.containerCursor]
}

func (s *State) pushPlace(c placeContainer) {
	if len(s.places) <= s.placeCursor {
		s.places = append(s.places, c)
	} else {
		s.places[s.placeCursor] = c
	}
	s.placeCursor++
}

func (s *State) popPlace() placeContainer {
	if s.placeCursor == 0 {
		panic("layout: EndContainer without BeginContainer")
	}
	s.placeCursor--
	return s.places[s.placeCursor]
}

// addFlexSum records a child's flex weights into the parent's
// per-axis weight totals. Weights only accumulate on the parent's
// main axis; on any other axis a Fill child claims the whole leftover
// space, so the sum is pinned to one.
func (s *State) addFlexSum(size Size) {
	s.addFlexSumX(size.Width)
	s.addFlexSumY(size.Height)
}

func (s *State) addFlexSumX(width SizeConstraint) {
	if width.Mode != ModeFill {
		return
	}
	s.setFlexX(width.Value)
	if s.parent.axis == axisHorizontal {
		s.flexSumX[s.parent.idx] += width.Value
	} else {
		s.flexSumX[s.parent.idx] = 1
	}
}

func (s *State) addFlexSumY(height SizeConstraint) {
	if height.Mode != ModeFill {
		return
	}
	s.setFlexY(height.Value)
	if s.parent.axis == axisVertical {
		s.flexSumY[s.parent.idx] += height.Value
	} else {
		s.flexSumY[s.parent.idx] = 1
	}
}

// addContainerSize folds a finalized container into its parent
// exactly like a leaf, except the wrap size was already measured and
// insets already folded in.
func (s *State) addContainerSize(size Size, wrap f32.Point) f32.Point {
	return f32.Point{
		X: s.addWidth(size.Width, wrap.X, 0),
		Y: s.addHeight(size.Height, wrap.Y, 0),
	}
}

// addSize folds a leaf slot into the parent's accumulators and
// records the slot's wrap and actual sizes.
func (s *State) addSize(size Size, constraints Constraints, wrap f32.Point, insets Inset) f32.Point {
	wrap = constraints.clamp(wrap)

	sz := f32.Point{
		X: s.addWidth(size.Width, wrap.X, insets.Horizontal()),
		Y: s.addHeight(size.Height, wrap.Y, insets.Vertical()),
	}
	sz = constraints.clamp(sz)

	s.setWrapSize(wrap)
	s.setActualSize(sz)
	return sz
}

// addWidth accumulates one slot's width into the parent container.
// Widths sum (plus spacing) along a horizontal parent and take the
// max otherwise. A Fill width inflates the wrap size with its
// measured content but contributes only spacing to the flex size, so
// leftover space is computed against fixed content alone.
func (s *State) addWidth(width SizeConstraint, wrapWidth, insets float32) float32 {
	wrap := &s.wrapSizes[s.parent.idx]
	flex := &s.flexSizes[s.parent.idx]

	switch width.Mode {
	case ModeFixed:
		v := width.Value + insets
		if s.parent.axis == axisHorizontal {
			wrap.X += v + s.parent.spacing
			flex.X += v + s.parent.spacing
		} else {
			wrap.X = max32(wrap.X, v)
			flex.X = max32(flex.X, v)
		}
		return v
	case ModeFill:
		v := wrapWidth + insets
		if s.parent.axis == axisHorizontal {
			wrap.X += v + s.parent.spacing
			flex.X += s.parent.spacing
		} else {
			wrap.X = max32(wrap.X, v)
		}
		return v
	default: // ModeWrap
		v := wrapWidth + insets
		if s.parent.axis == axisHorizontal {
			wrap.X += v + s.parent.spacing
			flex.X += v + s.parent.spacing
		} else {
			wrap.X = max32(wrap.X, v)
			flex.X = max32(flex.X, v)
		}
		return v
	}
}

// addHeight is addWidth for the vertical axis.
func (s *State) addHeight(height SizeConstraint, wrapHeight, insets float32) float32 {
	wrap := &s.wrapSizes[s.parent.idx]
	flex := &s.flexSizes[s.parent.idx]

	switch height.Mode {
	case ModeFixed:
		v := height.Value + insets
		if s.parent.axis == axisVertical {
			wrap.Y += v + s.parent.spacing
			flex.Y += v + s.parent.spacing
		} else {
			wrap.Y = max32(wrap.Y, v)
			flex.Y = max32(flex.Y, v)
		}
		return v
	case ModeFill:
		v := wrapHeight + insets
		if s.parent.axis == axisVertical {
			wrap.Y += v + s.parent.spacing
			flex.Y += s.parent.spacing
		} else {
			wrap.Y = max32(wrap.Y, v)
		}
		return v
	default: // ModeWrap
		v := wrapHeight + insets
		if s.parent.axis == axisVertical {
			wrap.Y += v + s.parent.spacing
			flex.Y += v + s.parent.spacing
		} else {
			wrap.Y = max32(wrap.Y, v)
			flex.Y = max32(flex.Y, v)
		}
		return v
	}
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
