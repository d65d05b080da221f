package systems

import (
	"github.com/pthm-cable/fluidbg/fluid"
)

// Sunrays march parameters.
const (
	sunraysIterations = 16
	sunraysDensity    = 0.3
	sunraysDecay      = 0.95
	sunraysExposure   = 0.7
)

// BloomPrefilter implements fluid.Backend: keeps the part of each texel
// above threshold, with a quadratic soft knee.
func (b *CPUBackend) BloomPrefilter(dst, src fluid.Target, curve [3]float32, threshold float32) {
	s := tex(src)
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		c := s.sample(u, v)
		br := c.maxRGB()
		rq := clampFloat(br-curve[0], 0, curve[1])
		rq = curve[2] * rq * rq
		k := max(rq, br-threshold) / max(br, 0.0001)
		return vec4{c[0] * k, c[1] * k, c[2] * k, 0}
	})
}

// fourTap averages the axis neighbors one source texel away.
func fourTap(s *CPUTexture, u, v float32) vec4 {
	tx, ty := s.texel()
	sum := s.sample(u-tx, v).
		add(s.sample(u+tx, v)).
		add(s.sample(u, v+ty)).
		add(s.sample(u, v-ty))
	return sum.scale(0.25)
}

// BloomBlur implements fluid.Backend.
func (b *CPUBackend) BloomBlur(dst, src fluid.Target) {
	s := tex(src)
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		return fourTap(s, u, v)
	})
}

// BloomFinal implements fluid.Backend.
func (b *CPUBackend) BloomFinal(dst, src fluid.Target, intensity float32) {
	s := tex(src)
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		return fourTap(s, u, v).scale(intensity)
	})
}

// SunraysMask implements fluid.Backend: alpha becomes an occlusion value,
// low where dye is bright.
func (b *CPUBackend) SunraysMask(dst, src fluid.Target) {
	s := tex(src)
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		c := s.sample(u, v)
		c[3] = 1 - min(max(c.maxRGB()*20, 0), 0.8)
		return c
	})
}

// Sunrays implements fluid.Backend: marches toward the center accumulating
// mask alpha with exponential decay.
func (b *CPUBackend) Sunrays(dst, mask fluid.Target, weight float32) {
	m := tex(mask)
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		dx := (u - 0.5) * (1.0 / sunraysIterations) * sunraysDensity
		dy := (v - 0.5) * (1.0 / sunraysIterations) * sunraysDensity
		cu, cv := u, v

		decay := float32(1)
		color := m.sample(u, v)[3]
		for i := 0; i < sunraysIterations; i++ {
			cu -= dx
			cv -= dy
			color += m.sample(cu, cv)[3] * decay * weight
			decay *= sunraysDecay
		}
		return vec4{color * sunraysExposure, 0, 0, 1}
	})
}

// Blur implements fluid.Backend: a 5-tap Gaussian folded into 3 linear
// taps along (dx, dy).
func (b *CPUBackend) Blur(dst, src fluid.Target, dx, dy float32) {
	s := tex(src)
	ox := dx * 1.33333333
	oy := dy * 1.33333333
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		sum := s.sample(u, v).scale(0.29411764)
		sum = sum.add(s.sample(u-ox, v-oy).scale(0.35294117))
		sum = sum.add(s.sample(u+ox, v+oy).scale(0.35294117))
		return sum
	})
}

// Display implements fluid.Backend.
func (b *CPUBackend) Display(dst fluid.Target, p fluid.DisplayParams) {
	dye := tex(p.Dye)
	var bloom, sunrays *CPUTexture
	if p.Bloom != nil {
		bloom = tex(p.Bloom)
	}
	if p.Sunrays != nil {
		sunrays = tex(p.Sunrays)
	}

	out := b.resolve(dst)
	tx, ty := 1/float32(out.w), 1/float32(out.h)
	texLen := length2(tx, ty)

	b.run(dst, func(x, y int, u, v float32) vec4 {
		c := dye.sample(u, v)
		r, g, bl := c[0], c[1], c[2]

		if p.Shading {
			lc := dye.sample(u-tx, v)
			rc := dye.sample(u+tx, v)
			tc := dye.sample(u, v+ty)
			bc := dye.sample(u, v-ty)
			ddx := length3(rc[0], rc[1], rc[2]) - length3(lc[0], lc[1], lc[2])
			ddy := length3(tc[0], tc[1], tc[2]) - length3(bc[0], bc[1], bc[2])
			nz := texLen / length3(ddx, ddy, texLen)
			diffuse := clampFloat(nz+0.7, 0.7, 1.0)
			r, g, bl = r*diffuse, g*diffuse, bl*diffuse
		}

		var br, bg, bb float32
		if bloom != nil {
			bc := bloom.sample(u, v)
			br, bg, bb = bc[0], bc[1], bc[2]
		}

		if sunrays != nil {
			s := sunrays.sample(u, v)[0]
			r, g, bl = r*s, g*s, bl*s
			br, bg, bb = br*s, bg*s, bb*s
		}

		if bloom != nil {
			br = linearToGamma(br + (ditherNoise(x, y, 0)*2-1)/255)
			bg = linearToGamma(bg + (ditherNoise(x, y, 1)*2-1)/255)
			bb = linearToGamma(bb + (ditherNoise(x, y, 2)*2-1)/255)
			r, g, bl = r+br, g+bg, bl+bb
		}

		return vec4{r, g, bl, max(r, g, bl)}
	})
}
