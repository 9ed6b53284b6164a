// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sysint64/clew/f32"
)

var testView = View{Size: f32.Pt(100, 100), ScaleFactor: 1}

func run(t *testing.T, view View, measurer Measurer, commands ...Command) *Frame {
	t.Helper()
	var state State
	var frame Frame
	if err := Layout(&state, view, commands, measurer, &frame); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return &frame
}

func placements(f *Frame) []WidgetPlacement {
	var ps []WidgetPlacement
	for _, it := range f.Items {
		if it.Op == ItemPlacement {
			ps = append(ps, it.Placement)
		}
	}
	return ps
}

func widget(n uint64) WidgetRef {
	return WidgetRef{Type: 1, ID: WidgetID{Base: n}}
}

func rect(x0, y0, x1, y1 float32) f32.Rectangle {
	return f32.Rect(x0, y0, x1, y1)
}

func TestVStackWrap(t *testing.T) {
	frame := run(t, testView, nil,
		Command{Op: OpBeginContainer, Container: VStack(10)},
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(50, 30)},
		Command{Op: OpChild, Widget: widget(2), Size: FixedSize(50, 30)},
		Command{Op: OpEndContainer},
	)
	ps := placements(frame)
	if len(ps) != 2 {
		t.Fatalf("got %d placements, want 2", len(ps))
	}
	if got, want := ps[0].Rect, rect(0, 0, 50, 30); got != want {
		t.Errorf("first child at %v, want %v", got, want)
	}
	if got, want := ps[1].Rect, rect(0, 40, 50, 70); got != want {
		t.Errorf("second child at %v, want %v", got, want)
	}
}

func TestHStackFlex(t *testing.T) {
	view := View{Size: f32.Pt(250, 100), ScaleFactor: 1}
	frame := run(t, view, nil,
		Command{Op: OpBeginContainer, Container: HStack(0), Size: FixedSize(250, 100)},
		Command{Op: OpChild, Widget: widget(1), Size: Size{Width: Fixed(50), Height: Fixed(100)}},
		Command{Op: OpChild, Widget: widget(2), Size: Size{Width: Fill(1), Height: Fixed(100)}},
		Command{Op: OpChild, Widget: widget(3), Size: Size{Width: Fill(2), Height: Fixed(100)}},
		Command{Op: OpEndContainer},
	)
	ps := placements(frame)
	if len(ps) != 3 {
		t.Fatalf("got %d placements, want 3", len(ps))
	}
	// 200 logical pixels remain after the fixed child, split 1:2.
	per := float32(200) / 3
	if got := ps[0].Rect; got != rect(0, 0, 50, 100) {
		t.Errorf("fixed child at %v", got)
	}
	if got, want := ps[1].Rect, f32.RectAt(f32.Pt(50, 0), f32.Pt(per, 100)); got != want {
		t.Errorf("Fill(1) child at %v, want %v", got, want)
	}
	if got, want := ps[2].Rect, f32.RectAt(f32.Pt(50+per, 0), f32.Pt(2*per, 100)); got != want {
		t.Errorf("Fill(2) child at %v, want %v", got, want)
	}
}

func TestZStackCenter(t *testing.T) {
	frame := run(t, testView, nil,
		Command{Op: OpBeginContainer, Container: ZStack(XCenter, YCenter), Size: FixedSize(100, 100)},
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(40, 40)},
		Command{Op: OpEndContainer},
	)
	ps := placements(frame)
	if len(ps) != 1 {
		t.Fatalf("got %d placements, want 1", len(ps))
	}
	if got, want := ps[0].Rect, rect(30, 30, 70, 70); got != want {
		t.Errorf("centered child at %v, want %v", got, want)
	}
}

func TestRootFillMatchesView(t *testing.T) {
	view := View{Size: f32.Pt(200, 100), ScaleFactor: 2}
	frame := run(t, view, nil,
		Command{Op: OpChild, Widget: widget(1), Size: FillSize()},
	)
	ps := placements(frame)
	if len(ps) != 1 {
		t.Fatalf("got %d placements, want 1", len(ps))
	}
	if got, want := ps[0].Rect, rect(0, 0, 100, 50); got != want {
		t.Errorf("root fill child at %v, want %v", got, want)
	}
}

func TestSpacerReservesSpace(t *testing.T) {
	frame := run(t, testView, nil,
		Command{Op: OpBeginContainer, Container: VStack(5)},
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(10, 10)},
		Command{Op: OpSpacer, Size: Size{Height: Fixed(20)}},
		Command{Op: OpChild, Widget: widget(2), Size: FixedSize(10, 10)},
		Command{Op: OpEndContainer},
	)
	ps := placements(frame)
	if len(ps) != 2 {
		t.Fatalf("got %d placements, want 2", len(ps))
	}
	// 10 + 5 + 20 + 5 = 40.
	if got, want := ps[1].Rect, rect(0, 40, 10, 50); got != want {
		t.Errorf("child after spacer at %v, want %v", got, want)
	}
}

func TestHStackRTL(t *testing.T) {
	view := View{Size: f32.Pt(100, 20), ScaleFactor: 1, Direction: RTL}
	hstack := HStack(10)
	hstack.RTLAware = true
	frame := run(t, view, nil,
		Command{Op: OpBeginContainer, Container: hstack, Size: FixedSize(100, 20)},
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(30, 20)},
		Command{Op: OpChild, Widget: widget(2), Size: FixedSize(30, 20)},
		Command{Op: OpEndContainer},
	)
	ps := placements(frame)
	if len(ps) != 2 {
		t.Fatalf("got %d placements, want 2", len(ps))
	}
	if got, want := ps[0].Rect, rect(70, 0, 100, 20); got != want {
		t.Errorf("first child at %v, want %v", got, want)
	}
	if got, want := ps[1].Rect, rect(30, 0, 60, 20); got != want {
		t.Errorf("second child at %v, want %v", got, want)
	}
}

func TestHStackRTLUnawareKeepsOrder(t *testing.T) {
	view := View{Size: f32.Pt(100, 20), ScaleFactor: 1, Direction: RTL}
	frame := run(t, view, nil,
		Command{Op: OpBeginContainer, Container: HStack(10), Size: FixedSize(100, 20)},
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(30, 20)},
		Command{Op: OpChild, Widget: widget(2), Size: FixedSize(30, 20)},
		Command{Op: OpEndContainer},
	)
	ps := placements(frame)
	if got, want := ps[0].Rect, rect(0, 0, 30, 20); got != want {
		t.Errorf("first child at %v, want %v", got, want)
	}
	if got, want := ps[1].Rect, rect(40, 0, 70, 20); got != want {
		t.Errorf("second child at %v, want %v", got, want)
	}
}

func TestCrossStretch(t *testing.T) {
	vstack := VStack(0)
	vstack.Cross = CrossStretch
	frame := run(t, testView, nil,
		Command{Op: OpBeginContainer, Container: vstack, Size: FixedSize(80, 100)},
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(20, 10)},
		Command{Op: OpEndContainer},
	)
	ps := placements(frame)
	if got, want := ps[0].Rect, rect(0, 0, 80, 10); got != want {
		t.Errorf("stretched child at %v, want %v", got, want)
	}
}

func TestPaddingAndMargin(t *testing.T) {
	frame := run(t, testView, nil,
		Command{
			Op:        OpBeginContainer,
			Container: VStack(0),
			Padding:   UniformInset(5),
			Margin:    Inset{Top: 2, Left: 3},
		},
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(10, 10)},
		Command{Op: OpEndContainer},
	)
	ps := placements(frame)
	if got, want := ps[0].Rect, rect(8, 7, 18, 17); got != want {
		t.Errorf("padded child at %v, want %v", got, want)
	}
}

func TestCulledChildKeepsClipPair(t *testing.T) {
	frame := run(t, testView, nil,
		Command{Op: OpBeginOffset, Offset: f32.Pt(0, -1000)},
		Command{
			Op:          OpBeginContainer,
			Container:   VStack(0),
			Size:        FixedSize(50, 50),
			Clip:        ClipRect(),
			Backgrounds: []WidgetRef{widget(10)},
		},
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(10, 10)},
		Command{Op: OpEndContainer},
		Command{Op: OpEndOffset},
	)
	var ops []ItemOp
	for _, it := range frame.Items {
		ops = append(ops, it.Op)
	}
	if want := []ItemOp{ItemPushClip, ItemPopClip}; !reflect.DeepEqual(ops, want) {
		t.Errorf("got items %v, want %v", ops, want)
	}
}

func TestEdgeTouchingChildIsVisible(t *testing.T) {
	frame := run(t, testView, nil,
		Command{Op: OpBeginOffset, Offset: f32.Pt(0, 100)},
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(10, 10)},
		Command{Op: OpEndOffset},
	)
	if got := len(placements(frame)); got != 1 {
		t.Errorf("got %d placements, want 1", got)
	}
}

func TestClipRectInPhysicalPixels(t *testing.T) {
	view := View{Size: f32.Pt(200, 200), ScaleFactor: 2}
	frame := run(t, view, nil,
		Command{Op: OpBeginContainer, Container: VStack(0), Size: FixedSize(40, 40), Clip: ClipRect()},
		Command{Op: OpEndContainer},
	)
	if len(frame.Items) != 2 || frame.Items[0].Op != ItemPushClip {
		t.Fatalf("unexpected items: %+v", frame.Items)
	}
	if got, want := frame.Items[0].ClipRect, rect(0, 0, 80, 80); got != want {
		t.Errorf("clip rect %v, want %v", got, want)
	}
}

func TestZIndexSort(t *testing.T) {
	frame := run(t, testView, nil,
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(10, 10), ZIndex: 1},
		Command{Op: OpChild, Widget: widget(2), Size: FixedSize(10, 10), ZIndex: 0},
	)
	ps := placements(frame)
	if ps[0].Widget != widget(2) || ps[1].Widget != widget(1) {
		t.Errorf("zindex order not applied: %+v", ps)
	}
}

func TestZIndexSortStopsAtClipFence(t *testing.T) {
	frame := run(t, testView, nil,
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(10, 10), ZIndex: 5},
		Command{Op: OpBeginContainer, Container: VStack(0), Size: FixedSize(10, 10), Clip: ClipRect()},
		Command{Op: OpChild, Widget: widget(2), Size: FixedSize(10, 10), ZIndex: 0},
		Command{Op: OpEndContainer},
	)
	// The z=5 child must not move past the clip scope of the z=0 one.
	if frame.Items[0].Op != ItemPlacement || frame.Items[0].Placement.Widget != widget(1) {
		t.Errorf("placement crossed clip fence: %+v", frame.Items)
	}
}

func TestBackgroundsAndForegrounds(t *testing.T) {
	frame := run(t, testView, nil,
		Command{
			Op:          OpBeginContainer,
			Container:   VStack(0),
			Size:        FixedSize(50, 50),
			Backgrounds: []WidgetRef{widget(10)},
			Foregrounds: []WidgetRef{widget(20)},
		},
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(10, 10)},
		Command{Op: OpEndContainer},
	)
	ps := placements(frame)
	if len(ps) != 3 {
		t.Fatalf("got %d placements, want 3", len(ps))
	}
	if ps[0].Widget != widget(10) || ps[1].Widget != widget(1) || ps[2].Widget != widget(20) {
		t.Errorf("unexpected order: %+v", ps)
	}
	if ps[0].Rect != ps[2].Rect {
		t.Errorf("background rect %v != foreground rect %v", ps[0].Rect, ps[2].Rect)
	}
}

func TestMeasureContainer(t *testing.T) {
	id := WidgetID{Base: 7}
	frame := run(t, testView, nil,
		Command{Op: OpBeginContainer, Container: MeasureBox(id), Size: FixedSize(60, 40)},
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(10, 80)},
		Command{Op: OpEndContainer},
	)
	m, ok := frame.Measures[id]
	if !ok {
		t.Fatal("no measure snapshot")
	}
	if m.Width != 60 || m.Height != 40 {
		t.Errorf("measure size %gx%g, want 60x40", m.Width, m.Height)
	}
	if m.WrapWidth != 10 || m.WrapHeight != 80 {
		t.Errorf("measure wrap %gx%g, want 10x80", m.WrapWidth, m.WrapHeight)
	}
}

func TestNestedOffsetsAccumulate(t *testing.T) {
	frame := run(t, testView, nil,
		Command{Op: OpBeginOffset, Offset: f32.Pt(10, 0)},
		Command{Op: OpBeginOffset, Offset: f32.Pt(0, 20)},
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(5, 5)},
		Command{Op: OpEndOffset},
		Command{Op: OpEndOffset},
	)
	ps := placements(frame)
	if got, want := ps[0].Rect, rect(10, 20, 15, 25); got != want {
		t.Errorf("offset child at %v, want %v", got, want)
	}
}

func TestLayoutIdempotent(t *testing.T) {
	var state State
	commands := []Command{
		{Op: OpBeginContainer, Container: VStack(4), Padding: UniformInset(3)},
		{Op: OpChild, Widget: widget(1), Size: Size{Width: Fill(1), Height: Fixed(20)}},
		{Op: OpChild, Widget: widget(2), Size: FixedSize(30, 10)},
		{Op: OpEndContainer},
	}
	var first, second Frame
	if err := Layout(&state, testView, commands, nil, &first); err != nil {
		t.Fatal(err)
	}
	snapshot := append([]Item(nil), first.Items...)
	if err := Layout(&state, testView, commands, nil, &second); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(snapshot, second.Items) {
		t.Errorf("frames differ:\n%+v\n%+v", snapshot, second.Items)
	}
}

func TestConstraintsClampFlex(t *testing.T) {
	frame := run(t, testView, nil,
		Command{Op: OpBeginContainer, Container: VStack(0), Size: FixedSize(100, 100)},
		Command{
			Op:          OpChild,
			Widget:      widget(1),
			Size:        Size{Width: Fixed(10), Height: Fill(1)},
			Constraints: Constraints{MaxHeight: 30},
		},
		Command{Op: OpEndContainer},
	)
	ps := placements(frame)
	if got := ps[0].Rect.Dy(); got != 30 {
		t.Errorf("clamped fill height %g, want 30", got)
	}
}

type fakeMeasurer struct {
	texts   map[TextID]f32.Point
	vectors map[string]f32.Point
}

func (m *fakeMeasurer) MeasureText(id TextID) (f32.Point, error) {
	sz, ok := m.texts[id]
	if !ok {
		return f32.Point{}, UnknownTextError{ID: id}
	}
	return sz, nil
}

func (m *fakeMeasurer) MeasureVector(asset string) (f32.Point, error) {
	sz, ok := m.vectors[asset]
	if !ok {
		return f32.Point{}, UnknownAssetError{Asset: asset}
	}
	return sz, nil
}

func TestTextWrapAndFeedback(t *testing.T) {
	view := View{Size: f32.Pt(200, 200), ScaleFactor: 2}
	m := &fakeMeasurer{texts: map[TextID]f32.Point{42: f32.Pt(120, 40)}}
	frame := run(t, view, m,
		Command{Op: OpChild, Widget: widget(1), Wrap: TextWrap(42)},
	)
	ps := placements(frame)
	// 120x40 physical is 60x20 logical at scale 2.
	if got, want := ps[0].Rect, rect(0, 0, 60, 20); got != want {
		t.Errorf("text child at %v, want %v", got, want)
	}
	if len(frame.Texts) != 1 {
		t.Fatalf("got %d text widths, want 1", len(frame.Texts))
	}
	if tw := frame.Texts[0]; tw.ID != 42 || tw.Width != 120 {
		t.Errorf("text width %+v, want {42 120}", tw)
	}
}

func TestVectorWrap(t *testing.T) {
	m := &fakeMeasurer{vectors: map[string]f32.Point{"icons/home": f32.Pt(24, 24)}}
	frame := run(t, testView, m,
		Command{Op: OpChild, Widget: widget(1), Wrap: VectorWrap("icons/home")},
	)
	ps := placements(frame)
	if got, want := ps[0].Rect, rect(0, 0, 24, 24); got != want {
		t.Errorf("vector child at %v, want %v", got, want)
	}
}

func TestMeasureErrors(t *testing.T) {
	var state State
	var frame Frame
	commands := []Command{{Op: OpChild, Widget: widget(1), Wrap: TextWrap(1)}}

	err := Layout(&state, testView, commands, nil, &frame)
	if !errors.Is(err, ErrNoMeasurer) {
		t.Errorf("nil measurer: got %v, want ErrNoMeasurer", err)
	}

	m := &fakeMeasurer{}
	err = Layout(&state, testView, commands, m, &frame)
	var unknown UnknownTextError
	if !errors.As(err, &unknown) || unknown.ID != 1 {
		t.Errorf("unknown text: got %v", err)
	}
}

func TestFullyConstrainedChildSkipsMeasurement(t *testing.T) {
	// Both axes fixed: the measurer must not be consulted at all.
	frame := run(t, testView, nil,
		Command{Op: OpChild, Widget: widget(1), Size: FixedSize(10, 10), Wrap: TextWrap(99)},
	)
	if got := len(placements(frame)); got != 1 {
		t.Errorf("got %d placements, want 1", got)
	}
}

func TestUnbalancedContainerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic for unbalanced BeginContainer")
		}
	}()
	var state State
	var frame Frame
	Layout(&state, testView, []Command{{Op: OpBeginContainer, Container: VStack(0)}}, nil, &frame)
}

func TestUnbalancedEndContainerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic for unbalanced EndContainer")
		}
	}()
	var state State
	var frame Frame
	Layout(&state, testView, []Command{{Op: OpEndContainer}}, nil, &frame)
}
