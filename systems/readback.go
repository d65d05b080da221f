package systems

import (
	"image"
	"image/color"

	"github.com/pthm-cable/fluidbg/fluid"
)

// TargetImage converts a target to 8-bit RGBA, flipping rows so the image
// is top-down. Values are clamped to [0,1]; missing channels read as in a
// shader (0, alpha 1).
func TargetImage(t fluid.Target) *image.RGBA {
	ct := tex(t)
	img := image.NewRGBA(image.Rect(0, 0, ct.w, ct.h))
	for y := 0; y < ct.h; y++ {
		row := ct.h - 1 - y
		for x := 0; x < ct.w; x++ {
			c := ct.fetch(x, row)
			img.SetRGBA(x, y, color.RGBA{
				R: to8(c[0]),
				G: to8(c[1]),
				B: to8(c[2]),
				A: to8(c[3]),
			})
		}
	}
	return img
}

// Snapshot returns the current surface as an image.
func (b *CPUBackend) Snapshot() *image.RGBA {
	return TargetImage(b.screen)
}

func to8(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

// Brightness returns max(r,g,b) per texel.
func Brightness(t fluid.Target) []float64 {
	ct := tex(t)
	out := make([]float64, 0, ct.w*ct.h)
	for y := 0; y < ct.h; y++ {
		for x := 0; x < ct.w; x++ {
			out = append(out, float64(ct.fetch(x, y).maxRGB()))
		}
	}
	return out
}

// Magnitude returns the length of the first two channels per texel.
func Magnitude(t fluid.Target) []float64 {
	ct := tex(t)
	out := make([]float64, 0, ct.w*ct.h)
	for y := 0; y < ct.h; y++ {
		for x := 0; x < ct.w; x++ {
			c := ct.fetch(x, y)
			out = append(out, float64(length2(c[0], c[1])))
		}
	}
	return out
}

// Channel returns one channel per texel.
func Channel(t fluid.Target, channel int) []float64 {
	ct := tex(t)
	out := make([]float64, 0, ct.w*ct.h)
	for y := 0; y < ct.h; y++ {
		for x := 0; x < ct.w; x++ {
			out = append(out, float64(ct.fetch(x, y)[channel]))
		}
	}
	return out
}
