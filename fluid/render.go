package fluid

import "github.com/pthm-cable/fluidbg/telemetry"

// Render composites the dye field into target, or the visible surface when
// target is nil.
func (s *Simulation) Render(target Target) {
	b := s.backend
	r := s.res
	q := s.quality.Settings
	rc := s.cfg.Render

	params := DisplayParams{Dye: r.Dye.Read(), Shading: q.Shading}

	if q.Bloom {
		s.perf.StartPhase(telemetry.PhaseBloom)
		s.applyBloom(r.Dye.Read(), r.Bloom)
		params.Bloom = r.Bloom
	}
	if q.Sunrays {
		s.perf.StartPhase(telemetry.PhaseSunrays)
		// dye.write is free between steps and holds the mask
		s.applySunrays(r.Dye.Read(), r.Dye.Write(), r.Sunrays)
		s.blur(r.Sunrays, r.SunraysTemp, 1)
		params.Sunrays = r.Sunrays
	}

	s.perf.StartPhase(telemetry.PhaseDisplay)
	switch {
	case !rc.Transparent:
		bc := s.cfg.Derived.BackColor
		b.SetBlend(BlendDisabled)
		b.Color(target, Color{bc[0], bc[1], bc[2]}, 1)
	case target == nil && rc.Checkerboard:
		w, h := targetSize(b, target)
		b.SetBlend(BlendDisabled)
		b.Checkerboard(target, float32(w)/float32(h))
	default:
		// Display blends over whatever the surface held last frame.
		b.SetBlend(BlendDisabled)
		b.Color(target, Color{}, 0)
	}

	if target == nil || !rc.Transparent {
		b.SetBlend(BlendPremultiplied)
	}
	b.Display(target, params)
}

func (s *Simulation) applyBloom(source, dest Target) {
	mips := s.res.BloomMips
	if len(mips) < 2 {
		return
	}
	b := s.backend
	bc := s.cfg.Bloom

	b.SetBlend(BlendDisabled)
	threshold := float32(bc.Threshold)
	knee := threshold*float32(bc.SoftKnee) + 0.0001
	curve := [3]float32{threshold - knee, knee * 2, 0.25 / knee}
	b.BloomPrefilter(dest, source, curve, threshold)

	last := dest
	for _, m := range mips {
		b.BloomBlur(m, last)
		last = m
	}

	b.SetBlend(BlendAdditive)
	for i := len(mips) - 2; i >= 0; i-- {
		b.BloomBlur(mips[i], last)
		last = mips[i]
	}

	b.SetBlend(BlendDisabled)
	b.BloomFinal(dest, last, float32(bc.Intensity))
}

func (s *Simulation) applySunrays(source, mask, dest Target) {
	b := s.backend
	b.SetBlend(BlendDisabled)
	b.SunraysMask(mask, source)
	b.Sunrays(dest, mask, float32(s.cfg.Sunrays.Weight))
}

// blur runs separable blur passes over target, bouncing through temp.
func (s *Simulation) blur(target, temp Target, iterations int) {
	b := s.backend
	tx, ty := TexelSize(target)
	for i := 0; i < iterations; i++ {
		b.Blur(temp, target, tx, 0)
		b.Blur(target, temp, 0, ty)
	}
}
