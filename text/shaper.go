// SPDX-License-Identifier: Unlicense OR MIT

// Package text shapes and measures registered text paragraphs.
//
// A Shaper holds paragraphs keyed by layout.TextID and implements
// layout.TextMeasurer over them. Measurement results are cached;
// re-shaping only happens when a paragraph's content, parameters or
// wrap width change, so the second layout call of a frame is cheap.
package text

import (
	"math"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/exp/slices"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/sysint64/clew/f32"
	"github.com/sysint64/clew/layout"
)

// unbounded stands in for "no wrap width" when wrapping a paragraph.
const unbounded = 1 << 30

// Parameters control the shaping of one paragraph.
type Parameters struct {
	// PxPerEm is the font size in physical pixels.
	PxPerEm fixed.Int26_6
	// MaxWidth is the wrap width in physical pixels; non-positive
	// means unbounded. Layout feedback overrides it, see SetMaxWidth.
	MaxWidth int
	// MaxLines truncates the paragraph after this many lines when
	// positive, appending Truncator ("…" if empty) to the last line.
	MaxLines  int
	Truncator string

	Direction layout.Direction
	// Language is a BCP-47 tag used for shaping; "en" if empty.
	Language string
}

type entry struct {
	runes     []rune
	params    Parameters
	wrapWidth int
	size      f32.Point
	valid     bool
}

// Shaper shapes and line-wraps registered paragraphs with harfbuzz.
// It is not safe for concurrent use.
type Shaper struct {
	faces []font.Face

	shaper        shaping.HarfbuzzShaper
	wrapper       shaping.LineWrapper
	bidiParagraph bidi.Paragraph

	// Scratch buffers reused across shaping calls.
	splitScratch1, splitScratch2 []shaping.Input
	outScratch                   []shaping.Output

	entries map[layout.TextID]*entry
}

// NewShaper returns a Shaper with the given faces loaded. Faces are
// prioritized in load order: runes are shaped with the first face
// covering them.
func NewShaper(faces ...Face) *Shaper {
	s := &Shaper{entries: make(map[layout.TextID]*entry)}
	for _, f := range faces {
		s.Load(f)
	}
	return s
}

// Load registers an additional fallback face.
func (s *Shaper) Load(f Face) {
	s.faces = append(s.faces, f.face())
}

// SetText registers or replaces the paragraph under id.
func (s *Shaper) SetText(id layout.TextID, text string, params Parameters) {
	e, ok := s.entries[id]
	if !ok {
		e = new(entry)
		s.entries[id] = e
	}
	e.runes = replaceControlCharacters([]rune(text))
	e.params = params
	e.wrapWidth = params.MaxWidth
	e.valid = false
}

// SetMaxWidth overrides the wrap width of a paragraph, in physical
// pixels. Unknown ids are ignored.
func (s *Shaper) SetMaxWidth(id layout.TextID, width int) {
	e, ok := s.entries[id]
	if !ok || e.wrapWidth == width {
		return
	}
	e.wrapWidth = width
	e.valid = false
}

// UpdateWidths applies the text width feedback of a laid out frame.
// Call it between the two layout calls of a frame so wrap-sized
// paragraphs converge on the width they were actually given.
func (s *Shaper) UpdateWidths(widths []layout.TextWidth) {
	for _, w := range widths {
		s.SetMaxWidth(w.ID, int(math.Ceil(float64(w.Width))))
	}
}

// Delete unregisters the paragraph under id.
func (s *Shaper) Delete(id layout.TextID) {
	delete(s.entries, id)
}

// MeasureText returns the shaped size of the paragraph under id in
// physical pixels, shaping it first if it is out of date. It
// implements layout.TextMeasurer.
func (s *Shaper) MeasureText(id layout.TextID) (f32.Point, error) {
	e, ok := s.entries[id]
	if !ok {
		return f32.Point{}, layout.UnknownTextError{ID: id}
	}
	if !e.valid {
		e.size = measureLines(s.shapeAndWrap(e))
		e.valid = true
	}
	return e.size, nil
}

func (s *Shaper) shapeAndWrap(e *entry) []shaping.Line {
	wc := shaping.WrapConfig{
		TruncateAfterLines: e.params.MaxLines,
	}
	if wc.TruncateAfterLines > 0 {
		trunc := e.params.Truncator
		if trunc == "" {
			trunc = "…"
		}
		if out := s.shapeText(e.params, []rune(trunc)); len(out) > 0 {
			wc.Truncator = out[0]
		}
	}
	maxWidth := e.wrapWidth
	if maxWidth <= 0 {
		maxWidth = unbounded
	}
	lines, _ := s.wrapper.WrapParagraph(wc, maxWidth, e.runes, shaping.NewSliceIterator(s.shapeText(e.params, e.runes)))
	return lines
}

// shapeText shapes txt into the shaper's native format, splitting the
// input on bidi boundaries, font coverage and script. It does not
// wrap lines. The result is valid until the next shapeText call.
func (s *Shaper) shapeText(params Parameters, txt []rune) []shaping.Output {
	if len(s.faces) == 0 || len(txt) == 0 {
		return nil
	}
	input := toInput(s.faces[0], params, txt)
	inputs := s.splitBidi(input)
	inputs = s.splitByFaces(inputs, s.splitScratch1[:0])
	inputs = splitByScript(inputs, s.splitScratch2[:0])
	if needed := len(inputs) - len(s.outScratch); needed > 0 {
		s.outScratch = slices.Grow(s.outScratch, needed)
	}
	s.outScratch = s.outScratch[:len(inputs)]
	for i := range inputs {
		s.outScratch[i] = s.shaper.Shape(inputs[i])
	}
	return s.outScratch
}

// splitBidi divides the input on bidirectional boundaries, setting
// the direction of each returned run.
func (s *Shaper) splitBidi(input shaping.Input) []shaping.Input {
	var splitInputs []shaping.Input
	if input.Direction.Axis() != di.Horizontal || input.RunStart == input.RunEnd {
		return []shaping.Input{input}
	}
	def := bidi.LeftToRight
	if input.Direction.Progression() == di.TowardTopLeft {
		def = bidi.RightToLeft
	}
	s.bidiParagraph.SetString(string(input.Text), bidi.DefaultDirection(def))
	out, err := s.bidiParagraph.Order()
	if err != nil {
		return []shaping.Input{input}
	}
	for i := 0; i < out.NumRuns(); i++ {
		currentInput := input
		run := out.Run(i)
		dir := run.Direction()
		_, endRune := run.Pos()
		currentInput.RunEnd = endRune + 1
		if dir == bidi.RightToLeft {
			currentInput.Direction = di.DirectionRTL
		} else {
			currentInput.Direction = di.DirectionLTR
		}
		splitInputs = append(splitInputs, currentInput)
		input.RunStart = currentInput.RunEnd
	}
	return splitInputs
}

// splitByFaces divides the inputs by glyph coverage across the loaded
// faces, reusing buf as backing memory when non-nil.
func (s *Shaper) splitByFaces(inputs []shaping.Input, buf []shaping.Input) []shaping.Input {
	split := buf
	if split == nil {
		split = make([]shaping.Input, 0, len(inputs))
	}
	for _, input := range inputs {
		split = append(split, shaping.SplitByFontGlyphs(input, s.faces)...)
	}
	return split
}

// splitByScript divides the inputs on script boundaries and sets the
// script of each returned run, reusing buf as backing memory when
// non-nil.
func splitByScript(inputs []shaping.Input, buf []shaping.Input) []shaping.Input {
	splitInputs := buf
	if splitInputs == nil {
		splitInputs = make([]shaping.Input, 0, len(inputs))
	}
	for _, input := range inputs {
		currentInput := input
		if input.RunStart == input.RunEnd {
			return []shaping.Input{input}
		}
		firstNonCommonRune := input.RunStart
		for i := firstNonCommonRune; i < input.RunEnd; i++ {
			if language.LookupScript(input.Text[i]) != language.Common {
				firstNonCommonRune = i
				break
			}
		}
		currentInput.Script = language.LookupScript(input.Text[firstNonCommonRune])
		for i := firstNonCommonRune + 1; i < input.RunEnd; i++ {
			r := input.Text[i]
			runeScript := language.LookupScript(r)

			if runeScript == language.Common || runeScript == currentInput.Script {
				continue
			}

			if i != input.RunStart {
				currentInput.RunEnd = i
				splitInputs = append(splitInputs, currentInput)
			}

			currentInput = input
			currentInput.RunStart = i
			currentInput.Script = runeScript
		}
		currentInput.RunEnd = input.RunEnd
		splitInputs = append(splitInputs, currentInput)
	}
	return splitInputs
}

func toInput(face font.Face, params Parameters, runes []rune) shaping.Input {
	lang := params.Language
	if lang == "" {
		lang = "en"
	}
	var input shaping.Input
	input.Direction = mapDirection(params.Direction)
	input.Text = runes
	input.Size = params.PxPerEm
	input.Face = face
	input.Language = language.NewLanguage(lang)
	input.RunStart = 0
	input.RunEnd = len(runes)
	return input
}

func mapDirection(d layout.Direction) di.Direction {
	if d == layout.RTL {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// measureLines computes the extents of wrapped lines: the widest
// line's advance by the summed line heights.
func measureLines(lines []shaping.Line) f32.Point {
	var width, height fixed.Int26_6
	for _, line := range lines {
		var lineWidth, ascent, descent fixed.Int26_6
		for _, run := range line {
			lineWidth += run.Advance
			if a := run.LineBounds.Ascent; a > ascent {
				ascent = a
			}
			if d := -run.LineBounds.Descent + run.LineBounds.Gap; d > descent {
				descent = d
			}
		}
		if lineWidth > width {
			width = lineWidth
		}
		height += ascent + descent
	}
	return f32.Pt(fixedToFloat(width), fixedToFloat(height))
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

// replaceControlCharacters substitutes spaces for separator code
// points that would otherwise break rune accounting during shaping.
func replaceControlCharacters(in []rune) []rune {
	for i, r := range in {
		switch r {
		case '\u001c', '\u001d', '\u001e', '\r', '\n', '\u0085', '\u2029':
			in[i] = ' '
		}
	}
	return in
}
