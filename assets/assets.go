// SPDX-License-Identifier: Unlicense OR MIT

// Package assets resolves the intrinsic sizes of registered vector
// assets for layout.
package assets

import (
	"golang.org/x/exp/shiny/iconvg"

	"github.com/sysint64/clew/f32"
	"github.com/sysint64/clew/layout"
)

// Registry maps asset names to intrinsic sizes, in logical pixels.
// It implements layout.VectorMeasurer. The zero value is ready to
// use; it is not safe for concurrent mutation.
type Registry struct {
	sizes map[string]f32.Point
}

// Register decodes IconVG data and registers its view box size under
// name, replacing any previous registration.
func (r *Registry) Register(name string, data []byte) error {
	m, err := iconvg.DecodeMetadata(data)
	if err != nil {
		return err
	}
	dx, dy := m.ViewBox.AspectRatio()
	r.RegisterSize(name, f32.Pt(dx, dy))
	return nil
}

// RegisterSize registers an explicit intrinsic size under name, for
// assets that are not IconVG.
func (r *Registry) RegisterSize(name string, size f32.Point) {
	if r.sizes == nil {
		r.sizes = make(map[string]f32.Point)
	}
	r.sizes[name] = size
}

// Delete removes the registration under name.
func (r *Registry) Delete(name string) {
	delete(r.sizes, name)
}

// MeasureVector returns the registered intrinsic size of the named
// asset. It implements layout.VectorMeasurer.
func (r *Registry) MeasureVector(name string) (f32.Point, error) {
	size, ok := r.sizes[name]
	if !ok {
		return f32.Point{}, layout.UnknownAssetError{Asset: name}
	}
	return size, nil
}
