package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/fluidbg/fluid"
)

func approx(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}

func TestSampleFilters(t *testing.T) {
	nearest := newCPUTexture(2, 1, fluid.FormatR, fluid.FilterNearest)
	nearest.Set(1, 0, [4]float32{1})
	linear := newCPUTexture(2, 1, fluid.FormatR, fluid.FilterLinear)
	linear.Set(1, 0, [4]float32{1})

	tests := []struct {
		name string
		tex  *CPUTexture
		u    float32
		want float32
	}{
		{"nearest left", nearest, 0.25, 0},
		{"nearest right", nearest, 0.75, 1},
		{"nearest midpoint", nearest, 0.5, 1},
		{"linear midpoint", linear, 0.5, 0.5},
		{"linear texel center", linear, 0.25, 0},
		{"clamp below", linear, -1, 0},
		{"clamp above", linear, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tex.sample(tt.u, 0.5)[0]
			if !approx(got, tt.want, 1e-6) {
				t.Errorf("sample(%v) = %v, want %v", tt.u, got, tt.want)
			}
		})
	}
}

func TestBilerpIgnoresFilter(t *testing.T) {
	tex := newCPUTexture(2, 1, fluid.FormatR, fluid.FilterNearest)
	tex.Set(1, 0, [4]float32{1})

	if got := tex.bilerp(0.5, 0.5)[0]; !approx(got, 0.5, 1e-6) {
		t.Errorf("bilerp midpoint = %v, want 0.5", got)
	}
}

func TestFetchMissingChannels(t *testing.T) {
	tex := newCPUTexture(1, 1, fluid.FormatRG, fluid.FilterNearest)
	tex.Set(0, 0, [4]float32{0.25, 0.5, 9, 9})

	got := tex.At(0, 0)
	want := [4]float32{0.25, 0.5, 0, 1}
	if got != want {
		t.Errorf("At = %v, want %v", got, want)
	}
}

func TestStoreBlend(t *testing.T) {
	tests := []struct {
		name  string
		blend fluid.Blend
		want  float32
	}{
		{"disabled", fluid.BlendDisabled, 0.2},
		{"premultiplied", fluid.BlendPremultiplied, 0.2 + 0.5*0.5},
		{"additive", fluid.BlendAdditive, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := newCPUTexture(1, 1, fluid.FormatRGBA, fluid.FilterNearest)
			tex.Fill([4]float32{0.5, 0.5, 0.5, 1})
			tex.store(0, 0, vec4{0.2, 0, 0, 0.5}, tt.blend)
			if got := tex.At(0, 0)[0]; !approx(got, tt.want, 1e-6) {
				t.Errorf("red = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTargetImageFlipsRows(t *testing.T) {
	tex := newCPUTexture(1, 2, fluid.FormatRGBA, fluid.FilterNearest)
	tex.Set(0, 0, [4]float32{1, 0, 0, 1}) // bottom row
	tex.Set(0, 1, [4]float32{0, 0, 1, 1}) // top row

	img := TargetImage(tex)
	if c := img.RGBAAt(0, 0); c.B != 255 || c.R != 0 {
		t.Errorf("top pixel = %v, want blue", c)
	}
	if c := img.RGBAAt(0, 1); c.R != 255 || c.B != 0 {
		t.Errorf("bottom pixel = %v, want red", c)
	}
}

func TestReadbackHelpers(t *testing.T) {
	tex := newCPUTexture(2, 1, fluid.FormatRGBA, fluid.FilterNearest)
	tex.Set(0, 0, [4]float32{3, 4, 0.5, 1})

	if got := Magnitude(tex); got[0] != 5 || got[1] != 0 {
		t.Errorf("Magnitude = %v", got)
	}
	if got := Brightness(tex); got[0] != 4 {
		t.Errorf("Brightness = %v", got)
	}
	if got := Channel(tex, 2); got[0] != 0.5 {
		t.Errorf("Channel = %v", got)
	}
}
