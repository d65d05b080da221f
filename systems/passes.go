package systems

import (
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/fluidbg/fluid"
)

// sameShape reports whether a and b can be processed as flat vectors.
func sameShape(a, b *CPUTexture) bool {
	return a.w == b.w && a.h == b.h && a.ch == b.ch
}

func vector(t *CPUTexture) blas32.Vector {
	return blas32.Vector{N: len(t.Data), Inc: 1, Data: t.Data}
}

// Copy implements fluid.Backend. Differently sized targets are resampled.
func (b *CPUBackend) Copy(dst, src fluid.Target) {
	d, s := b.resolve(dst), tex(src)
	if b.blend == fluid.BlendDisabled && sameShape(d, s) {
		blas32.Copy(vector(s), vector(d))
		return
	}
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		return s.sample(u, v)
	})
}

// Clear implements fluid.Backend: dst = src * value.
func (b *CPUBackend) Clear(dst, src fluid.Target, value float32) {
	d, s := b.resolve(dst), tex(src)
	if b.blend == fluid.BlendDisabled && sameShape(d, s) {
		blas32.Copy(vector(s), vector(d))
		blas32.Scal(value, vector(d))
		return
	}
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		return s.sample(u, v).scale(value)
	})
}

// Color implements fluid.Backend.
func (b *CPUBackend) Color(dst fluid.Target, c fluid.Color, alpha float32) {
	out := vec4{c.R, c.G, c.B, alpha}
	b.run(dst, func(_, _ int, _, _ float32) vec4 { return out })
}

// Checkerboard implements fluid.Backend.
func (b *CPUBackend) Checkerboard(dst fluid.Target, aspect float32) {
	const scale = 25
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		cx := int(u * scale * aspect)
		cy := int(v * scale)
		c := float32((cx+cy)%2)*0.1 + 0.8
		return vec4{c, c, c, 1}
	})
}

// Splat implements fluid.Backend: adds a Gaussian of color c centered at
// (x, y) on top of src.
func (b *CPUBackend) Splat(dst, src fluid.Target, x, y float32, c fluid.Color, radius, aspect float32) {
	s := tex(src)
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		px := (u - x) * aspect
		py := v - y
		e := expf(-(px*px + py*py) / radius)
		base := s.sample(u, v)
		return vec4{base[0] + e*c.R, base[1] + e*c.G, base[2] + e*c.B, 1}
	})
}

// Curl implements fluid.Backend.
func (b *CPUBackend) Curl(dst, velocity fluid.Target) {
	vel := tex(velocity)
	tx, ty := vel.texel()
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		l := vel.sample(u-tx, v)[1]
		r := vel.sample(u+tx, v)[1]
		t := vel.sample(u, v+ty)[0]
		bt := vel.sample(u, v-ty)[0]
		return vec4{0.5 * (r - l - t + bt), 0, 0, 1}
	})
}

// Vorticity implements fluid.Backend: pushes velocity along the gradient of
// |curl| to restore small-scale swirl.
func (b *CPUBackend) Vorticity(dst, velocity, curl fluid.Target, strength, dt float32) {
	vel, cu := tex(velocity), tex(curl)
	tx, ty := cu.texel()
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		l := cu.sample(u-tx, v)[0]
		r := cu.sample(u+tx, v)[0]
		t := cu.sample(u, v+ty)[0]
		bt := cu.sample(u, v-ty)[0]
		c := cu.sample(u, v)[0]

		fx := 0.5 * (absf(t) - absf(bt))
		fy := 0.5 * (absf(r) - absf(l))
		n := length2(fx, fy) + 0.0001
		fx = fx / n * strength * c
		fy = -fy / n * strength * c

		vv := vel.sample(u, v)
		vx := clampFloat(vv[0]+fx*dt, -1000, 1000)
		vy := clampFloat(vv[1]+fy*dt, -1000, 1000)
		return vec4{vx, vy, 0, 1}
	})
}

// Divergence implements fluid.Backend. Neighbors outside the domain mirror
// the center velocity, so no flow leaves through the walls.
func (b *CPUBackend) Divergence(dst, velocity fluid.Target) {
	vel := tex(velocity)
	tx, ty := vel.texel()
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		l := vel.sample(u-tx, v)[0]
		r := vel.sample(u+tx, v)[0]
		t := vel.sample(u, v+ty)[1]
		bt := vel.sample(u, v-ty)[1]
		c := vel.sample(u, v)

		if u-tx < 0 {
			l = -c[0]
		}
		if u+tx > 1 {
			r = -c[0]
		}
		if v+ty > 1 {
			t = -c[1]
		}
		if v-ty < 0 {
			bt = -c[1]
		}
		return vec4{0.5 * (r - l + t - bt), 0, 0, 1}
	})
}

// Jacobi implements fluid.Backend: one relaxation step of the pressure
// Poisson equation.
func (b *CPUBackend) Jacobi(dst, pressure, divergence fluid.Target) {
	p, div := tex(pressure), tex(divergence)
	tx, ty := p.texel()
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		l := p.sample(u-tx, v)[0]
		r := p.sample(u+tx, v)[0]
		t := p.sample(u, v+ty)[0]
		bt := p.sample(u, v-ty)[0]
		d := div.sample(u, v)[0]
		return vec4{(l + r + bt + t - d) * 0.25, 0, 0, 1}
	})
}

// GradientSubtract implements fluid.Backend.
func (b *CPUBackend) GradientSubtract(dst, pressure, velocity fluid.Target) {
	p, vel := tex(pressure), tex(velocity)
	tx, ty := p.texel()
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		l := p.sample(u-tx, v)[0]
		r := p.sample(u+tx, v)[0]
		t := p.sample(u, v+ty)[0]
		bt := p.sample(u, v-ty)[0]
		vv := vel.sample(u, v)
		return vec4{vv[0] - 0.5*(r-l), vv[1] - 0.5*(t-bt), 0, 1}
	})
}

// Advect implements fluid.Backend: semi-Lagrangian backtrace through the
// velocity field, then dissipation.
func (b *CPUBackend) Advect(dst, velocity, source fluid.Target, dt, dissipation float32, manual bool) {
	vel, src := tex(velocity), tex(source)
	tx, ty := vel.texel()
	decay := 1 + dissipation*dt

	read := func(t *CPUTexture, u, v float32) vec4 {
		if manual {
			return t.bilerp(u, v)
		}
		return t.sample(u, v)
	}

	// With blending off the decay is one vector scale over the output.
	fused := b.blend != fluid.BlendDisabled
	b.run(dst, func(_, _ int, u, v float32) vec4 {
		vv := read(vel, u, v)
		out := read(src, u-dt*vv[0]*tx, v-dt*vv[1]*ty)
		if fused {
			out = out.scale(1 / decay)
		}
		return out
	})
	if !fused {
		d := b.resolve(dst)
		blas32.Scal(1/decay, vector(d))
	}
}
