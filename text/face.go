// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	fontapi "github.com/go-text/typesetting/opentype/api/font"
	"github.com/go-text/typesetting/opentype/api/metadata"
	"github.com/go-text/typesetting/opentype/loader"
)

// Face is a thread-safe representation of a loaded font. Construct a
// face for any given font file once and reuse it across shapers.
type Face struct {
	font   font.Font
	aspect metadata.Aspect
	family string
}

// Parse constructs a Face from OpenType source bytes.
func Parse(src []byte) (Face, error) {
	ld, err := loader.NewLoader(bytes.NewReader(src))
	if err != nil {
		return Face{}, err
	}
	ft, err := fontapi.NewFont(ld)
	if err != nil {
		return Face{}, fmt.Errorf("text: failed parsing font: %w", err)
	}
	data := metadata.Metadata(ld)
	return Face{
		font:   ft,
		aspect: data.Aspect,
		family: data.Family,
	}, nil
}

// Family returns the font's family name.
func (f Face) Family() string {
	return f.family
}

// face returns a thread-unsafe harfbuzz-ready wrapper. Each return
// value must only be used by one goroutine.
func (f Face) face() font.Face {
	return &fontapi.Face{Font: f.font}
}
