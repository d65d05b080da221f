package viewport

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	vp := New(1280, 720)

	if vp.Width != 1280 || vp.Height != 720 {
		t.Errorf("expected 1280x720, got %fx%f", vp.Width, vp.Height)
	}
	if math.Abs(float64(vp.AspectRatio()-1280.0/720.0)) > 1e-6 {
		t.Errorf("unexpected aspect %f", vp.AspectRatio())
	}
}

func TestTexcoordFlipsY(t *testing.T) {
	vp := New(1280, 720)

	u, v := vp.ToTexcoord(0, 0)
	if u != 0 || v != 1 {
		t.Errorf("top-left should map to (0,1), got (%f,%f)", u, v)
	}

	u, v = vp.ToTexcoord(1280, 720)
	if u != 1 || v != 0 {
		t.Errorf("bottom-right should map to (1,0), got (%f,%f)", u, v)
	}
}

func TestTexcoordRoundtrip(t *testing.T) {
	vp := New(1280, 720)

	testCases := []struct{ px, py float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		u, v := vp.ToTexcoord(tc.px, tc.py)
		px, py := vp.ToPixel(u, v)
		if math.Abs(float64(px-tc.px)) > 0.01 || math.Abs(float64(py-tc.py)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.px, tc.py, u, v, px, py)
		}
	}
}

func TestResolution(t *testing.T) {
	tests := []struct {
		name         string
		w, h         float32
		base         int
		wantW, wantH int
	}{
		{"landscape", 1280, 720, 128, 228, 128},
		{"portrait", 720, 1280, 128, 128, 228},
		{"square", 512, 512, 64, 64, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := New(tt.w, tt.h).Resolution(tt.base)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("Resolution(%d) = %dx%d, want %dx%d", tt.base, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCorrections(t *testing.T) {
	landscape := New(2000, 1000)
	if got := landscape.CorrectRadius(0.01); math.Abs(float64(got-0.02)) > 1e-6 {
		t.Errorf("landscape radius = %f, want 0.02", got)
	}
	if got := landscape.CorrectDeltaY(0.5); math.Abs(float64(got-0.25)) > 1e-6 {
		t.Errorf("landscape deltaY = %f, want 0.25", got)
	}
	if got := landscape.CorrectDeltaX(0.5); got != 0.5 {
		t.Errorf("landscape deltaX = %f, want unchanged", got)
	}

	portrait := New(1000, 2000)
	if got := portrait.CorrectRadius(0.01); got != 0.01 {
		t.Errorf("portrait radius = %f, want unchanged", got)
	}
	if got := portrait.CorrectDeltaX(0.5); math.Abs(float64(got-0.25)) > 1e-6 {
		t.Errorf("portrait deltaX = %f, want 0.25", got)
	}
}

func TestResize(t *testing.T) {
	vp := New(800, 600)
	if vp.Resize(800, 600) {
		t.Error("same size should not report a change")
	}
	if !vp.Resize(1024, 768) {
		t.Error("new size should report a change")
	}
	if vp.Width != 1024 || vp.Height != 768 {
		t.Errorf("expected 1024x768, got %fx%f", vp.Width, vp.Height)
	}
}

func TestDegenerateSurface(t *testing.T) {
	vp := New(0, 0)
	if vp.AspectRatio() != 1 {
		t.Errorf("degenerate aspect = %f, want 1", vp.AspectRatio())
	}
	u, v := vp.ToTexcoord(10, 10)
	if u != 0 || v != 0 {
		t.Errorf("degenerate texcoord = (%f,%f), want (0,0)", u, v)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		value, want float32
	}{
		{0.5, 0.5},
		{1.25, 0.25},
		{-0.25, 0.75},
		{3.0, 0.0},
	}
	for _, tt := range tests {
		if got := Wrap(tt.value, 0, 1); math.Abs(float64(got-tt.want)) > 1e-5 {
			t.Errorf("Wrap(%f) = %f, want %f", tt.value, got, tt.want)
		}
	}
}
