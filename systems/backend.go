// Package systems provides the CPU reference backend for the fluid passes.
// Every pass mirrors its fragment shader: one function evaluated per output
// texel at the texel center, sampling inputs with clamp-to-edge addressing.
package systems

import (
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/fluidbg/fluid"
)

// maxTextureSize bounds target dimensions, as a GPU would.
const maxTextureSize = 8192

// minRowsPerTask keeps tiny targets from fanning out into goroutines that
// cost more than the rows they process.
const minRowsPerTask = 8

// CPUOptions configures a CPUBackend.
type CPUOptions struct {
	Workers int // Row workers, 0 for GOMAXPROCS

	// NoLinearFiltering reports float textures as unfilterable so the
	// simulation takes the manual filtering path.
	NoLinearFiltering bool
}

// CPUBackend runs every fluid pass on the CPU. Rows of the destination are
// shaded in parallel; passes themselves run in order.
type CPUBackend struct {
	screen  *CPUTexture
	blend   fluid.Blend
	workers int
	caps    fluid.Capabilities
	live    int // Allocated targets, excluding the screen
}

// NewCPUBackend creates a backend with a w x h RGBA surface.
func NewCPUBackend(w, h int, opts CPUOptions) *CPUBackend {
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	b := &CPUBackend{
		screen:  newCPUTexture(max(w, 1), max(h, 1), fluid.FormatRGBA, fluid.FilterLinear),
		workers: workers,
		caps: fluid.Capabilities{
			API:             "cpu",
			TextureFormat:   fluid.TextureRGBA32F,
			LinearFiltering: !opts.NoLinearFiltering,
			MaxTextureSize:  maxTextureSize,
		},
	}
	fluid.Logger().Debug("cpu backend created", slog.Int("w", w), slog.Int("h", h), slog.Int("workers", workers))
	return b
}

// Capabilities implements fluid.Backend.
func (b *CPUBackend) Capabilities() fluid.Capabilities { return b.caps }

// NewTarget implements fluid.Backend.
func (b *CPUBackend) NewTarget(w, h int, format fluid.Format, filter fluid.Filter) (fluid.Target, error) {
	if w < 1 || h < 1 || w > maxTextureSize || h > maxTextureSize {
		return nil, fmt.Errorf("cpu target %dx%d out of range", w, h)
	}
	b.live++
	return newCPUTexture(w, h, format, filter), nil
}

// ReleaseTarget implements fluid.Backend.
func (b *CPUBackend) ReleaseTarget(t fluid.Target) {
	ct, ok := t.(*CPUTexture)
	if !ok || ct == nil || ct.Data == nil {
		return
	}
	ct.Data = nil
	b.live--
}

// LiveTargets returns the number of allocated, unreleased targets.
func (b *CPUBackend) LiveTargets() int { return b.live }

// SurfaceSize implements fluid.Backend.
func (b *CPUBackend) SurfaceSize() (int, int) { return b.screen.w, b.screen.h }

// SetSurfaceSize reallocates the surface. Content is cleared.
func (b *CPUBackend) SetSurfaceSize(w, h int) {
	if w < 1 || h < 1 || (w == b.screen.w && h == b.screen.h) {
		return
	}
	b.screen = newCPUTexture(w, h, fluid.FormatRGBA, fluid.FilterLinear)
}

// Screen returns the surface texture.
func (b *CPUBackend) Screen() *CPUTexture { return b.screen }

// SetBlend implements fluid.Backend.
func (b *CPUBackend) SetBlend(mode fluid.Blend) { b.blend = mode }

// resolve maps a pass destination to its texture; nil is the surface.
func (b *CPUBackend) resolve(t fluid.Target) *CPUTexture {
	if t == nil {
		return b.screen
	}
	ct, ok := t.(*CPUTexture)
	if !ok {
		panic(fmt.Sprintf("systems: target %T not created by the CPU backend", t))
	}
	return ct
}

// tex converts a pass input; nil inputs are a caller bug.
func tex(t fluid.Target) *CPUTexture {
	return t.(*CPUTexture)
}

// shader computes one output texel at pixel (x, y), texcoord (u, v).
type shader func(x, y int, u, v float32) vec4

// run evaluates fn for every texel of dst and stores it with the current
// blend mode.
func (b *CPUBackend) run(dst fluid.Target, fn shader) {
	t := b.resolve(dst)
	blend := b.blend
	rows := max(t.h/b.workers, minRowsPerTask)
	invW := 1 / float32(t.w)
	invH := 1 / float32(t.h)

	var g errgroup.Group
	g.SetLimit(b.workers)
	for y0 := 0; y0 < t.h; y0 += rows {
		y1 := min(y0+rows, t.h)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				v := (float32(y) + 0.5) * invH
				for x := 0; x < t.w; x++ {
					u := (float32(x) + 0.5) * invW
					t.store(x, y, fn(x, y, u, v), blend)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}

var _ fluid.Backend = (*CPUBackend)(nil)
