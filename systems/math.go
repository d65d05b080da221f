package systems

import "math"

// vec4 is one texel as a shader would see it.
type vec4 [4]float32

func (a vec4) add(b vec4) vec4 {
	return vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func (a vec4) scale(s float32) vec4 {
	return vec4{a[0] * s, a[1] * s, a[2] * s, a[3] * s}
}

// maxRGB is the brightness measure used by bloom, sunrays and display alpha.
func (a vec4) maxRGB() float32 {
	return max(a[0], a[1], a[2])
}

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func length2(x, y float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y)))
}

func length3(x, y, z float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y + z*z)))
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func expf(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

// linearToGamma approximates the sRGB transfer curve.
func linearToGamma(c float32) float32 {
	if c <= 0 {
		return 0
	}
	return max(1.055*float32(math.Pow(float64(c), 0.416666667))-0.055, 0)
}

// ditherNoise returns a deterministic per-pixel value in [0,1) for each
// channel, matching the hash in the display shader.
func ditherNoise(x, y int, channel int) float32 {
	px := float64(x) + 0.5 + float64(channel)*17.0
	py := float64(y) + 0.5
	h := math.Sin(px*12.9898+py*78.233) * 43758.5453
	return float32(h - math.Floor(h))
}
