// Package fluid implements a stable-fluids solver with bloom and sunrays
// post-processing on top of a pluggable pass backend.
//
// The simulation owns no pixels itself. Every field lives in a Target
// allocated by a Backend, and every step or render pass is a typed call on
// that Backend. The raylib GPU backend lives in renderer/, the CPU reference
// backend in systems/.
package fluid

import "errors"

var (
	// ErrNoRenderableFormat is returned when the backend cannot render into
	// any floating-point or 8-bit texture format.
	ErrNoRenderableFormat = errors.New("fluid: no renderable texture format")

	// ErrReleased is returned when resources are used after Release.
	ErrReleased = errors.New("fluid: resources released")
)

// Format is the channel layout of a target.
type Format int

const (
	FormatR Format = iota
	FormatRG
	FormatRGBA
)

func (f Format) String() string {
	switch f {
	case FormatR:
		return "R"
	case FormatRG:
		return "RG"
	default:
		return "RGBA"
	}
}

// Channels returns the number of channels stored per texel.
func (f Format) Channels() int {
	switch f {
	case FormatR:
		return 1
	case FormatRG:
		return 2
	default:
		return 4
	}
}

// Filter is the sampling filter of a target.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// Blend selects how a pass output combines with the destination.
type Blend int

const (
	BlendDisabled      Blend = iota
	BlendPremultiplied       // ONE, ONE_MINUS_SRC_ALPHA
	BlendAdditive            // ONE, ONE
)

// TextureFormat is the storage precision the backend picked for its targets.
type TextureFormat int

const (
	TextureNone TextureFormat = iota
	TextureRGBA8
	TextureRGBA16F
	TextureRGBA32F
)

func (t TextureFormat) String() string {
	switch t {
	case TextureRGBA8:
		return "rgba8"
	case TextureRGBA16F:
		return "rgba16f"
	case TextureRGBA32F:
		return "rgba32f"
	default:
		return "none"
	}
}

// Capabilities describes what a backend's context supports.
type Capabilities struct {
	API             string // "opengl", "opengles", "cpu"
	GLVersion       int    // major*10+minor, 0 for cpu
	GLES            bool
	Mobile          bool
	TextureFormat   TextureFormat
	LinearFiltering bool
	MaxTextureSize  int
}

// FloatTextures reports whether targets store floating point values.
func (c Capabilities) FloatTextures() bool {
	return c.TextureFormat == TextureRGBA16F || c.TextureFormat == TextureRGBA32F
}

// Target is a backend-owned render target. A nil Target passed as a pass
// destination means the visible surface.
type Target interface {
	Width() int
	Height() int
	Format() Format
}

// TexelSize returns 1/width and 1/height of t.
func TexelSize(t Target) (float32, float32) {
	return 1 / float32(t.Width()), 1 / float32(t.Height())
}

// Color is a linear RGB color.
type Color struct {
	R, G, B float32
}

// Scale returns c multiplied by s.
func (c Color) Scale(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// DisplayParams configures the final composite.
type DisplayParams struct {
	Dye     Target
	Bloom   Target // nil when bloom is off
	Sunrays Target // nil when sunrays are off
	Shading bool
}

// Backend executes the fixed set of fluid passes. Passes read their inputs
// and write dst. Reading and writing the same target in one pass is never
// requested; the simulation ping-pongs through DoubleField.
type Backend interface {
	Capabilities() Capabilities

	NewTarget(w, h int, format Format, filter Filter) (Target, error)
	ReleaseTarget(t Target)

	// SurfaceSize reports the visible surface size in pixels.
	SurfaceSize() (w, h int)
	SetBlend(b Blend)

	Copy(dst, src Target)
	Clear(dst, src Target, value float32)
	Color(dst Target, c Color, alpha float32)
	Checkerboard(dst Target, aspect float32)
	Splat(dst, src Target, x, y float32, c Color, radius, aspect float32)

	Curl(dst, velocity Target)
	Vorticity(dst, velocity, curl Target, strength, dt float32)
	Divergence(dst, velocity Target)
	Jacobi(dst, pressure, divergence Target)
	GradientSubtract(dst, pressure, velocity Target)
	Advect(dst, velocity, source Target, dt, dissipation float32, manual bool)

	BloomPrefilter(dst, src Target, curve [3]float32, threshold float32)
	BloomBlur(dst, src Target)
	BloomFinal(dst, src Target, intensity float32)
	SunraysMask(dst, src Target)
	Sunrays(dst, mask Target, weight float32)
	Blur(dst, src Target, dx, dy float32)

	Display(dst Target, p DisplayParams)
}

// targetSize returns the pixel size of dst, resolving nil to the surface.
func targetSize(b Backend, dst Target) (int, int) {
	if dst == nil {
		return b.SurfaceSize()
	}
	return dst.Width(), dst.Height()
}
