// Package viewport maps between surface pixels and simulation texture space.
package viewport

import "math"

// Viewport describes the drawing surface the simulation renders into.
// Texcoords run 0..1 with v pointing up (GL convention), while pixel
// coordinates have y pointing down.
type Viewport struct {
	// Surface dimensions in pixels
	Width, Height float32
}

// New creates a viewport for a surface of the given pixel size.
func New(width, height float32) *Viewport {
	return &Viewport{Width: width, Height: height}
}

// AspectRatio returns width/height, or 1 for a degenerate surface.
func (v *Viewport) AspectRatio() float32 {
	if v.Height <= 0 || v.Width <= 0 {
		return 1
	}
	return v.Width / v.Height
}

// ToTexcoord converts a pixel position to texture coordinates.
func (v *Viewport) ToTexcoord(px, py float32) (u, t float32) {
	if v.Width <= 0 || v.Height <= 0 {
		return 0, 0
	}
	u = px / v.Width
	t = 1 - py/v.Height
	return u, t
}

// ToPixel converts texture coordinates back to a pixel position.
func (v *Viewport) ToPixel(u, t float32) (px, py float32) {
	return u * v.Width, (1 - t) * v.Height
}

// CorrectDeltaX scales a horizontal texcoord delta so portrait surfaces
// don't exaggerate sideways motion.
func (v *Viewport) CorrectDeltaX(delta float32) float32 {
	aspect := v.AspectRatio()
	if aspect < 1 {
		delta *= aspect
	}
	return delta
}

// CorrectDeltaY scales a vertical texcoord delta on landscape surfaces.
func (v *Viewport) CorrectDeltaY(delta float32) float32 {
	aspect := v.AspectRatio()
	if aspect > 1 {
		delta /= aspect
	}
	return delta
}

// CorrectRadius widens a splat radius on landscape surfaces so splats stay round.
func (v *Viewport) CorrectRadius(radius float32) float32 {
	aspect := v.AspectRatio()
	if aspect > 1 {
		radius *= aspect
	}
	return radius
}

// Resolution returns the grid size for a base resolution: the short side
// gets base texels and the long side is scaled by the aspect ratio.
func (v *Viewport) Resolution(base int) (w, h int) {
	aspect := float64(v.AspectRatio())
	if aspect < 1 {
		aspect = 1 / aspect
	}
	minSide := int(math.Round(float64(base)))
	maxSide := int(math.Round(float64(base) * aspect))
	if v.Width > v.Height {
		return maxSide, minSide
	}
	return minSide, maxSide
}

// Resize updates the surface size. Returns true if the size changed.
func (v *Viewport) Resize(width, height float32) bool {
	if width == v.Width && height == v.Height {
		return false
	}
	v.Width = width
	v.Height = height
	return true
}

// Wrap folds value into [min, max), used for timers that roll over.
func Wrap(value, min, max float32) float32 {
	r := max - min
	if r == 0 {
		return min
	}
	return mod(value-min, r) + min
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}
