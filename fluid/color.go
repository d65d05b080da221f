package fluid

import "math"

// HSVToRGB converts hue, saturation and value in [0,1] to linear RGB.
func HSVToRGB(h, s, v float32) Color {
	i := math.Floor(float64(h * 6))
	f := h*6 - float32(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	switch int(i) % 6 {
	case 0:
		return Color{v, t, p}
	case 1:
		return Color{q, v, p}
	case 2:
		return Color{p, v, t}
	case 3:
		return Color{p, q, v}
	case 4:
		return Color{t, p, v}
	default:
		return Color{v, p, q}
	}
}

// generateColor picks a saturated random hue, dimmed so repeated splats
// don't blow out the dye field.
func (s *Simulation) generateColor() Color {
	return HSVToRGB(s.rng.Float32(), 1, 1).Scale(0.15)
}
