// Package renderer implements the fluid passes on the GPU through raylib.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluidbg/fluid"
)

var (
	// ErrShaderCompile is returned when a pass fails to compile or link.
	ErrShaderCompile = errors.New("renderer: shader compile failed")
	// ErrFramebufferIncomplete is returned when a render target cannot be
	// attached to a framebuffer in any candidate format.
	ErrFramebufferIncomplete = errors.New("renderer: framebuffer incomplete")
)

// GL enums for SetBlendFactors.
const (
	glZero             = 0
	glOne              = 1
	glOneMinusSrcAlpha = 0x0303
	glFuncAdd          = 0x8006
)

// Half-float pixel formats from raylib.h (PIXELFORMAT_UNCOMPRESSED_R16 and
// PIXELFORMAT_UNCOMPRESSED_R16G16B16A16). raylib-go has no names for them.
const (
	pixelFormatR16          rl.PixelFormat = 11
	pixelFormatR16g16b16a16 rl.PixelFormat = 13
)

// probeSize is the edge of the throwaway targets used to test formats.
const probeSize = 4

// Target is a float render texture owned by a GPU backend.
type Target struct {
	rt     rl.RenderTexture2D
	w, h   int
	format fluid.Format
	filter fluid.Filter
}

// Width implements fluid.Target.
func (t *Target) Width() int { return t.w }

// Height implements fluid.Target.
func (t *Target) Height() int { return t.h }

// Format implements fluid.Target.
func (t *Target) Format() fluid.Format { return t.format }

// Texture returns the color attachment for drawing with raylib.
func (t *Target) Texture() rl.Texture2D { return t.rt.Texture }

func gpuTarget(t fluid.Target) *Target { return t.(*Target) }

// GPU runs the fluid passes as fullscreen fragment shaders. It must be
// created and used on the thread that owns the raylib window.
type GPU struct {
	caps     fluid.Capabilities
	programs *Programs
	blend    fluid.Blend
	wideR    bool // Single channel targets are stored as RGBA
	live     int
}

// NewGPU probes the current context and compiles the pass library. The
// window must already be initialized.
func NewGPU(preferHalf bool) (*GPU, error) {
	caps := ProbeVersion(int(rl.GetVersion()), preferHalf)
	if caps.TextureFormat == fluid.TextureNone {
		return nil, fmt.Errorf("context version %d: %w", rl.GetVersion(), fluid.ErrNoRenderableFormat)
	}

	g := &GPU{caps: caps}
	if err := g.pickFormat(); err != nil {
		return nil, err
	}

	programs, err := NewPrograms(g.caps)
	if err != nil {
		return nil, err
	}
	g.programs = programs

	fluid.Logger().Info("gpu backend ready",
		slog.String("api", g.caps.API),
		slog.Int("gl_version", g.caps.GLVersion),
		slog.String("format", g.caps.TextureFormat.String()),
		slog.Bool("wide_r", g.wideR),
	)
	return g, nil
}

// pickFormat walks the format candidates until an RGBA target completes.
// Single channel targets widen to RGBA when R is not renderable.
func (g *GPU) pickFormat() error {
	for _, f := range FormatCandidates(g.caps.TextureFormat) {
		g.caps.TextureFormat = f
		g.wideR = false

		t, err := g.NewTarget(probeSize, probeSize, fluid.FormatRGBA, fluid.FilterLinear)
		if err != nil {
			fluid.Logger().Debug("texture format not renderable", slog.String("format", f.String()))
			continue
		}
		g.ReleaseTarget(t)

		if r, err := g.NewTarget(probeSize, probeSize, fluid.FormatR, fluid.FilterNearest); err != nil {
			g.wideR = true
		} else {
			g.ReleaseTarget(r)
		}
		return nil
	}
	g.caps.TextureFormat = fluid.TextureNone
	return fmt.Errorf("no candidate format: %w", ErrFramebufferIncomplete)
}

// pixelFormat maps a field format to the raylib format it is stored in.
// RG has no raylib format and is stored as RGBA.
func (g *GPU) pixelFormat(f fluid.Format) rl.PixelFormat {
	single := f == fluid.FormatR && !g.wideR
	switch g.caps.TextureFormat {
	case fluid.TextureRGBA32F:
		if single {
			return rl.UncompressedR32
		}
		return rl.UncompressedR32g32b32a32
	case fluid.TextureRGBA16F:
		if single {
			return pixelFormatR16
		}
		return pixelFormatR16g16b16a16
	default:
		return rl.UncompressedR8g8b8a8
	}
}

// Capabilities implements fluid.Backend.
func (g *GPU) Capabilities() fluid.Capabilities { return g.caps }

// NewTarget implements fluid.Backend.
func (g *GPU) NewTarget(w, h int, format fluid.Format, filter fluid.Filter) (fluid.Target, error) {
	if w < 1 || h < 1 || w > g.caps.MaxTextureSize || h > g.caps.MaxTextureSize {
		return nil, fmt.Errorf("gpu target %dx%d out of range", w, h)
	}

	img := rl.GenImageColor(w, h, rl.Blank)
	rl.ImageFormat(img, g.pixelFormat(format))
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	if tex.ID == 0 {
		return nil, fmt.Errorf("%w: texture %dx%d %s", ErrFramebufferIncomplete, w, h, format)
	}

	fbo := rl.LoadFramebuffer()
	rl.FramebufferAttach(fbo, tex.ID, int32(rl.AttachmentColorChannel0), int32(rl.AttachmentTexture2d), 0)
	if !rl.FramebufferComplete(fbo) {
		rl.UnloadFramebuffer(fbo)
		rl.UnloadTexture(tex)
		return nil, fmt.Errorf("%w: %dx%d %s %s", ErrFramebufferIncomplete, w, h, format, g.caps.TextureFormat)
	}

	if filter == fluid.FilterLinear {
		rl.SetTextureFilter(tex, rl.FilterBilinear)
	} else {
		rl.SetTextureFilter(tex, rl.FilterPoint)
	}
	rl.SetTextureWrap(tex, rl.WrapClamp)

	g.live++
	return &Target{
		rt:     rl.RenderTexture2D{ID: fbo, Texture: tex},
		w:      w,
		h:      h,
		format: format,
		filter: filter,
	}, nil
}

// ReleaseTarget implements fluid.Backend.
func (g *GPU) ReleaseTarget(t fluid.Target) {
	gt, ok := t.(*Target)
	if !ok || gt == nil || gt.rt.ID == 0 {
		return
	}
	rl.UnloadRenderTexture(gt.rt)
	gt.rt = rl.RenderTexture2D{}
	g.live--
}

// LiveTargets returns the number of allocated targets.
func (g *GPU) LiveTargets() int { return g.live }

// SurfaceSize implements fluid.Backend: the window framebuffer in pixels.
func (g *GPU) SurfaceSize() (int, int) {
	return rl.GetRenderWidth(), rl.GetRenderHeight()
}

// SetBlend implements fluid.Backend.
func (g *GPU) SetBlend(mode fluid.Blend) { g.blend = mode }

func (g *GPU) beginBlend() {
	switch g.blend {
	case fluid.BlendPremultiplied:
		rl.SetBlendFactors(glOne, glOneMinusSrcAlpha, glFuncAdd)
	case fluid.BlendAdditive:
		rl.SetBlendFactors(glOne, glOne, glFuncAdd)
	default:
		rl.SetBlendFactors(glOne, glZero, glFuncAdd)
	}
	rl.BeginBlendMode(rl.BlendCustom)
}

// draw runs p over the whole of dst, or the window when dst is nil.
// set binds uniforms and samplers while the shader is active.
func (g *GPU) draw(dst fluid.Target, p *program, set func(p *program)) {
	var w, h, rectW, rectH int
	var rt *Target
	if dst != nil {
		rt = gpuTarget(dst)
		w, h = rt.w, rt.h
		rectW, rectH = w, h
		rl.BeginTextureMode(rt.rt)
	} else {
		w, h = g.SurfaceSize()
		rectW, rectH = rl.GetScreenWidth(), rl.GetScreenHeight()
	}

	g.beginBlend()
	rl.BeginShaderMode(p.shader)
	p.vec2("resolution", float32(w), float32(h))
	set(p)
	rl.DrawRectangle(0, 0, int32(rectW), int32(rectH), rl.White)
	rl.EndShaderMode()
	rl.EndBlendMode()

	if rt != nil {
		rl.EndTextureMode()
	}
}

// Unload frees every shader. Targets are released by their owner.
func (g *GPU) Unload() {
	if g.programs != nil {
		g.programs.Unload()
		g.programs = nil
	}
	if g.live > 0 {
		fluid.Logger().Warn("gpu backend unloaded with live targets", slog.Int("live", g.live))
	}
}

// TargetImage reads a target back as 8-bit RGBA, top row first. Values are
// clamped to [0,1].
func (g *GPU) TargetImage(t fluid.Target) *image.RGBA {
	img := rl.LoadImageFromTexture(gpuTarget(t).rt.Texture)
	defer rl.UnloadImage(img)
	return toRGBA(img, true)
}

// Snapshot reads back the window framebuffer.
func (g *GPU) Snapshot() *image.RGBA {
	img := rl.LoadImageFromScreen()
	defer rl.UnloadImage(img)
	return toRGBA(img, false)
}

func toRGBA(img *rl.Image, flip bool) *image.RGBA {
	rl.ImageFormat(img, rl.UncompressedR8g8b8a8)
	w, h := int(img.Width), int(img.Height)
	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := y
		if flip {
			// Framebuffer rows are bottom-up
			row = h - 1 - y
		}
		for x := 0; x < w; x++ {
			c := colors[row*w+x]
			out.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	return out
}

var _ fluid.Backend = (*GPU)(nil)
