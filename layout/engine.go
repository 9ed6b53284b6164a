// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"fmt"

	"github.com/sysint64/clew/f32"
)

// Layout places the command stream into frame. state carries the
// scratch arenas between frames, view the surface geometry and
// reading direction, measurer the intrinsic sizes of text and vector
// children (it may be nil when no command needs measurement).
//
// Commands are processed in order by two passes over the same
// stream; see the package documentation. Floating point operations
// run in command order, so identical inputs produce bit-identical
// frames.
//
// A measurement failure aborts the frame with a recoverable error
// wrapping UnknownTextError or UnknownAssetError. Unbalanced
// Begin/End pairs are a defect in the tree builder and panic.
func Layout(state *State, view View, commands []Command, measurer Measurer, frame *Frame) error {
	state.clear()
	frame.reset()

	rootSize := view.Size.Div(view.ScaleFactor)

	if err := resolveSizes(state, view, rootSize, commands, measurer); err != nil {
		return err
	}
	resolvePlacements(state, view, rootSize, commands, frame)
	frame.sortByZIndex()
	return nil
}

// resolveSizes is the first pass: one forward walk computing each
// slot's wrap size and each container's flex totals bottom-up via the
// container stack.
func resolveSizes(st *State, view View, rootSize f32.Point, commands []Command, measurer Measurer) error {
	// The implicit root container occupies slot 0 and is sized to
	// the view.
	st.pushSlot()
	st.actualSizes[0] = rootSize

	for i := range commands {
		cmd := &commands[i]
		switch cmd.Op {
		case OpBeginContainer:
			st.pushContainer(st.parent)
			st.pushSlot()
			st.addFlexSum(cmd.Size)
			st.setConstraints(cmd.Constraints)
			st.setMargin(cmd.Margin)

			insets := cmd.Padding.Add(cmd.Margin)
			st.setResize(f32.Pt(-insets.Horizontal(), -insets.Vertical()))

			next := container{
				idx:         st.currentIdx(),
				kind:        cmd.Container,
				constraints: cmd.Constraints,
				size:        cmd.Size,
				insets:      insets,
			}
			switch cmd.Container.Kind {
			case KindVStack:
				next.axis = axisVertical
				next.spacing = cmd.Container.Spacing
			case KindHStack:
				next.axis = axisHorizontal
				next.spacing = cmd.Container.Spacing
				next.rtlAware = cmd.Container.RTLAware
			}
			st.parent = next

		case OpEndContainer:
			parent := st.parent
			wrap := &st.wrapSizes[parent.idx]

			// Every child appended one trailing spacing unit; drop it.
			switch parent.kind.Kind {
			case KindVStack:
				wrap.Y = max32(wrap.Y-parent.spacing, 0)
			case KindHStack:
				wrap.X = max32(wrap.X-parent.spacing, 0)
			}
			wrap.X = max32(wrap.X+parent.insets.Horizontal(), 0)
			wrap.Y = max32(wrap.Y+parent.insets.Vertical(), 0)

			wrapSize := *wrap
			st.parent = st.popContainer()

			resolved := st.addContainerSize(parent.size, wrapSize)
			st.actualSizes[parent.idx] = parent.constraints.clamp(resolved)

		case OpChild:
			st.pushSlot()
			st.setConstraints(cmd.Constraints)
			st.setMargin(cmd.Margin)
			st.addFlexSumX(cmd.Size.Width)
			st.addFlexSumY(cmd.Size.Height)

			wrap, err := measureWrap(cmd, view, measurer)
			if err != nil {
				return err
			}
			st.addSize(cmd.Size, cmd.Constraints, wrap, cmd.Padding.Add(cmd.Margin))

		case OpSpacer:
			st.pushSlot()
			st.setConstraints(cmd.Constraints)
			st.addFlexSum(cmd.Size)
			st.addSize(cmd.Size, cmd.Constraints, f32.Point{}, Inset{})

		case OpBeginOffset, OpEndOffset:
			// Offsets are pure translation; sizes ignore them.
		}
	}

	if st.containerCursor != 0 {
		panic("layout: BeginContainer without EndContainer")
	}

	// One slot of slack so the second pass can read one past the
	// last slot at trailing EndContainer commands.
	st.pushSlot()
	return nil
}

// measureWrap obtains a child's intrinsic size. Children constrained on
// both axes skip measurement entirely.
func measureWrap(cmd *Command, view View, measurer Measurer) (f32.Point, error) {
	if cmd.Size.Width.constrained() && cmd.Size.Height.constrained() {
		return f32.Pt(cmd.Constraints.MinWidth, cmd.Constraints.MinHeight), nil
	}
	switch cmd.Wrap.From {
	case FromText:
		if measurer == nil {
			return f32.Point{}, ErrNoMeasurer
		}
		sz, err := measurer.MeasureText(cmd.Wrap.Text)
		if err != nil {
			return f32.Point{}, fmt.Errorf("layout: measure text: %w", err)
		}
		return sz.Div(view.ScaleFactor), nil
	case FromVector:
		if measurer == nil {
			return f32.Point{}, ErrNoMeasurer
		}
		sz, err := measurer.MeasureVector(cmd.Wrap.Asset)
		if err != nil {
			return f32.Point{}, fmt.Errorf("layout: measure vector: %w", err)
		}
		return sz, nil
	default:
		return f32.Pt(cmd.Constraints.MinWidth, cmd.Constraints.MinHeight), nil
	}
}

// resolvePlacements is the second pass: re-walk the stream, resolve
// Fill sizes against the finalized container sizes and emit
// placements, clip markers and measure snapshots.
func resolvePlacements(st *State, view View, rootSize f32.Point, commands []Command, frame *Frame) {
	viewport := f32.RectAt(f32.Point{}, rootSize)
	dir := view.Direction

	currentIdx := 1 // slot 0 is the root container
	currentPosition := f32.Point{}

	st.pushPosition(currentPosition)
	st.place = placeContainer{}
	st.pushOffset(f32.Point{})

	for i := range commands {
		cmd := &commands[i]
		goNext := true

		containerIdx := st.place.idx
		offset := st.currentOffset()
		containerPosition := st.positions[st.positionCursor-1]
		containerSize := st.actualSizes[containerIdx]
		containerResized := containerSize.Add(st.resizes[containerIdx])

		// Resolve any pending Fill sizes lazily against the parent.
		if flexX := st.flexX[currentIdx]; flexX > 0 {
			cons := st.constraints[currentIdx]
			var size float32
			if st.place.axis == placeHorizontal {
				flexSum := max32(st.flexSumX[containerIdx], 1)
				available := max32(containerResized.X-st.flexSizes[containerIdx].X+st.place.spacing, 0)
				size = flexX * (available / flexSum)
			} else {
				size = containerResized.X
			}
			st.actualSizes[currentIdx].X = cons.clampWidth(size)
		}
		if flexY := st.flexY[currentIdx]; flexY > 0 {
			cons := st.constraints[currentIdx]
			var size float32
			if st.place.axis == placeVertical {
				flexSum := max32(st.flexSumY[containerIdx], 1)
				available := max32(containerResized.Y-st.flexSizes[containerIdx].Y+st.place.spacing, 0)
				size = flexY * (available / flexSum)
			} else {
				size = containerResized.Y
			}
			st.actualSizes[currentIdx].Y = cons.clampHeight(size)
		}

		widgetSize := st.actualSizes[currentIdx]

		// The boundary is the box a slot is aligned within: the
		// parent's padded content box, narrowed to the slot's own
		// main-axis extent inside stacks.
		var boundaryPos, boundarySize f32.Point
		switch st.place.axis {
		case placeHorizontal:
			boundaryPos = currentPosition
			boundarySize = f32.Pt(widgetSize.X, containerSize.Y-st.place.padding.Vertical())
		case placeVertical:
			boundaryPos = currentPosition
			boundarySize = f32.Pt(containerSize.X-st.place.padding.Horizontal(), widgetSize.Y)
		default: // placeNone, placeAlign
			boundaryPos = containerPosition
			boundarySize = f32.Pt(
				containerSize.X-st.place.padding.Horizontal(),
				containerSize.Y-st.place.padding.Vertical(),
			)
		}
		boundary := f32.RectAt(boundaryPos, boundarySize)

		position := currentPosition
		if st.place.axis == placeHorizontal && st.place.rtlAware && dir == RTL {
			// The cursor runs right to left; it points at a slot's
			// trailing edge.
			position.X -= widgetSize.X
			boundary = boundary.Sub(f32.Pt(widgetSize.X, 0))
		}

		switch st.place.axis {
		case placeHorizontal:
			if st.place.cross == CrossStretch {
				widgetSize.Y = max32(boundary.Dy(), st.actualSizes[currentIdx].Y)
			}
		case placeVertical:
			if st.place.cross == CrossStretch {
				widgetSize.X = max32(boundary.Dx(), st.actualSizes[currentIdx].X)
			}
		}

		switch cmd.Op {
		case OpBeginOffset:
			st.pushOffset(cmd.Offset)
			continue

		case OpEndOffset:
			if st.offsetCursor == 1 {
				panic("layout: EndOffset without BeginOffset")
			}
			st.popOffset()
			continue

		case OpBeginContainer:
			st.pushPosition(currentPosition)
			st.pushPlace(st.place)
			st.actualSizes[currentIdx] = widgetSize

			currentPosition = position.Add(f32.Pt(cmd.Margin.Left, cmd.Margin.Top))
			ax, ay := st.place.alignForChild(dir)
			currentPosition = currentPosition.Add(f32.Pt(
				ax.position(dir, boundary.Dx(), widgetSize.X),
				ay.position(boundary.Dy(), widgetSize.Y),
			))

			containerPos := currentPosition.Add(offset)
			insideSize := widgetSize.Sub(f32.Pt(cmd.Margin.Horizontal(), cmd.Margin.Vertical()))
			decorRect := f32.RectAt(containerPos, insideSize)
			visible := decorRect.Overlaps(viewport)

			if visible {
				for _, ref := range cmd.Backgrounds {
					frame.Items = append(frame.Items, Item{
						Op: ItemPlacement,
						Placement: WidgetPlacement{
							Widget: ref,
							ZIndex: cmd.ZIndex,
							Rect:   decorRect,
						},
					})
				}
			}
			if cmd.Clip.Shape != ShapeNone {
				frame.Items = append(frame.Items, Item{
					Op:        ItemPushClip,
					ClipRect:  decorRect.Mul(view.ScaleFactor),
					ClipShape: cmd.Clip,
				})
			}

			currentPosition = currentPosition.Add(f32.Pt(cmd.Padding.Left, cmd.Padding.Top))

			next := placeContainer{
				idx:         currentIdx,
				padding:     cmd.Padding,
				margin:      cmd.Margin,
				zindex:      cmd.ZIndex,
				clipping:    cmd.Clip.Shape != ShapeNone,
				foregrounds: cmd.Foregrounds,
				fgRect:      decorRect,
				fgVisible:   visible,
			}
			switch cmd.Container.Kind {
			case KindVStack:
				next.axis = placeVertical
				next.spacing = cmd.Container.Spacing
				next.rtlAware = cmd.Container.RTLAware
				next.cross = cmd.Container.Cross
			case KindHStack:
				if cmd.Container.RTLAware && dir == RTL {
					// Children flow from the right edge.
					currentPosition = position.Add(f32.Pt(widgetSize.X, 0))
				}
				next.axis = placeHorizontal
				next.spacing = cmd.Container.Spacing
				next.rtlAware = cmd.Container.RTLAware
				next.cross = cmd.Container.Cross
			case KindZStack:
				next.axis = placeAlign
				next.alignX = cmd.Container.AlignX
				next.alignY = cmd.Container.AlignY
			case KindMeasure:
				next.axis = placeNone
				frame.setMeasure(cmd.Container.MeasureID, Measure{
					X:          containerPos.X,
					Y:          containerPos.Y,
					Width:      insideSize.X,
					Height:     insideSize.Y,
					WrapWidth:  st.wrapSizes[currentIdx].X - cmd.Margin.Horizontal(),
					WrapHeight: st.wrapSizes[currentIdx].Y - cmd.Margin.Vertical(),
				})
			default: // KindNone
				next.axis = placeNone
			}
			st.place = next

			currentIdx++
			goNext = false

		case OpEndContainer:
			widgetSize = containerSize
			closing := st.place
			st.place = st.popPlace()
			currentPosition = st.popPosition()

			if closing.fgVisible {
				for _, ref := range closing.foregrounds {
					frame.Items = append(frame.Items, Item{
						Op: ItemPlacement,
						Placement: WidgetPlacement{
							Widget: ref,
							ZIndex: closing.zindex,
							Rect:   closing.fgRect,
						},
					})
				}
			}
			if closing.clipping {
				frame.Items = append(frame.Items, Item{Op: ItemPopClip})
			}

		case OpChild:
			ax, ay := st.place.alignForChild(dir)
			decorRect := f32.RectAt(
				position.
					Add(f32.Pt(cmd.Margin.Left, cmd.Margin.Top)).
					Add(f32.Pt(
						ax.position(dir, boundary.Dx(), widgetSize.X),
						ay.position(boundary.Dy(), widgetSize.Y),
					)).
					Add(offset),
				widgetSize.Sub(f32.Pt(cmd.Margin.Horizontal(), cmd.Margin.Vertical())),
			)
			childBoundary := boundary.Add(offset)

			// Cull whole slots that cannot intersect the view.
			visible := decorRect.Overlaps(viewport)

			if visible {
				for _, ref := range cmd.Backgrounds {
					frame.Items = append(frame.Items, Item{
						Op: ItemPlacement,
						Placement: WidgetPlacement{
							Widget:   ref,
							ZIndex:   cmd.ZIndex,
							Boundary: childBoundary,
							Rect:     decorRect,
						},
					})
				}
			}

			rect := f32.Rectangle{
				Min: decorRect.Min.Add(f32.Pt(cmd.Padding.Left, cmd.Padding.Top)),
				Max: decorRect.Max.Sub(f32.Pt(cmd.Padding.Right, cmd.Padding.Bottom)),
			}
			if visible {
				frame.Items = append(frame.Items, Item{
					Op: ItemPlacement,
					Placement: WidgetPlacement{
						Widget:   cmd.Widget,
						ZIndex:   cmd.ZIndex,
						Boundary: childBoundary,
						Rect:     rect,
					},
				})
				for _, ref := range cmd.Foregrounds {
					frame.Items = append(frame.Items, Item{
						Op: ItemPlacement,
						Placement: WidgetPlacement{
							Widget:   ref,
							ZIndex:   cmd.ZIndex,
							Boundary: childBoundary,
							Rect:     decorRect,
						},
					})
				}
			}

			// Report the width text was laid out to, culled or not,
			// so off-screen paragraphs still wrap correctly when
			// scrolled into view.
			if cmd.Wrap.From == FromText {
				frame.Texts = append(frame.Texts, TextWidth{
					ID:    cmd.Wrap.Text,
					Width: rect.Dx() * view.ScaleFactor,
				})
			}

			currentIdx++

		case OpSpacer:
			currentIdx++
		}

		if goNext {
			switch st.place.axis {
			case placeHorizontal:
				if st.place.rtlAware && dir == RTL {
					currentPosition.X -= widgetSize.X + st.place.spacing
				} else {
					currentPosition.X += widgetSize.X + st.place.spacing
				}
			case placeVertical:
				currentPosition.Y += widgetSize.Y + st.place.spacing
			}
		}
	}

	if st.offsetCursor != 1 {
		panic("layout: BeginOffset without EndOffset")
	}
}
