package systems

import (
	"math"

	"github.com/pthm-cable/fluidbg/fluid"
)

// CPUTexture is a float render target in host memory. Rows run bottom to
// top so texcoord v=0 is row 0, as in GL.
type CPUTexture struct {
	w, h   int
	ch     int
	format fluid.Format
	filter fluid.Filter

	// Data holds ch floats per texel, row-major.
	Data []float32
}

func newCPUTexture(w, h int, format fluid.Format, filter fluid.Filter) *CPUTexture {
	ch := format.Channels()
	return &CPUTexture{
		w: w, h: h, ch: ch,
		format: format,
		filter: filter,
		Data:   make([]float32, w*h*ch),
	}
}

func (t *CPUTexture) Width() int           { return t.w }
func (t *CPUTexture) Height() int          { return t.h }
func (t *CPUTexture) Format() fluid.Format { return t.format }

// Filter returns the sampling filter.
func (t *CPUTexture) Filter() fluid.Filter { return t.filter }

// texel returns 1/w, 1/h.
func (t *CPUTexture) texel() (float32, float32) {
	return 1 / float32(t.w), 1 / float32(t.h)
}

// fetch reads one texel with clamp-to-edge addressing. Missing channels
// read as 0 and alpha as 1.
func (t *CPUTexture) fetch(x, y int) vec4 {
	x = min(max(x, 0), t.w-1)
	y = min(max(y, 0), t.h-1)
	i := (y*t.w + x) * t.ch
	v := vec4{0, 0, 0, 1}
	copy(v[:t.ch], t.Data[i:i+t.ch])
	return v
}

// sample reads at texcoord (u, v) using the texture's own filter.
func (t *CPUTexture) sample(u, v float32) vec4 {
	if t.filter == fluid.FilterLinear {
		return t.bilerp(u, v)
	}
	x := int(math.Floor(float64(u * float32(t.w))))
	y := int(math.Floor(float64(v * float32(t.h))))
	return t.fetch(x, y)
}

// bilerp interpolates the four nearest texel centers regardless of the
// texture filter. It is the manual filtering path for devices without
// linear filtering of float textures.
func (t *CPUTexture) bilerp(u, v float32) vec4 {
	sx := float64(u*float32(t.w)) - 0.5
	sy := float64(v*float32(t.h)) - 0.5
	fx0 := math.Floor(sx)
	fy0 := math.Floor(sy)
	fx := float32(sx - fx0)
	fy := float32(sy - fy0)
	x0, y0 := int(fx0), int(fy0)

	a := t.fetch(x0, y0)
	b := t.fetch(x0+1, y0)
	c := t.fetch(x0, y0+1)
	d := t.fetch(x0+1, y0+1)

	var out vec4
	for i := range out {
		bottom := a[i] + (b[i]-a[i])*fx
		top := c[i] + (d[i]-c[i])*fx
		out[i] = bottom + (top-bottom)*fy
	}
	return out
}

// store writes src at (x, y) combined with the existing value by blend.
func (t *CPUTexture) store(x, y int, src vec4, blend fluid.Blend) {
	i := (y*t.w + x) * t.ch
	d := t.Data[i : i+t.ch]
	switch blend {
	case fluid.BlendPremultiplied:
		k := 1 - src[3]
		for c := range d {
			d[c] = src[c] + d[c]*k
		}
	case fluid.BlendAdditive:
		for c := range d {
			d[c] += src[c]
		}
	default:
		copy(d, src[:t.ch])
	}
}

// Fill sets every texel to v. Used by tests and the preview tool.
func (t *CPUTexture) Fill(v [4]float32) {
	for i := 0; i < len(t.Data); i += t.ch {
		copy(t.Data[i:i+t.ch], v[:t.ch])
	}
}

// Set writes one texel.
func (t *CPUTexture) Set(x, y int, v [4]float32) {
	t.store(x, y, vec4(v), fluid.BlendDisabled)
}

// At reads one texel.
func (t *CPUTexture) At(x, y int) [4]float32 {
	return t.fetch(x, y)
}
