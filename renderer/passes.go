package renderer

import (
	"log/slog"

	"github.com/pthm-cable/fluidbg/fluid"
)

// Copy implements fluid.Backend.
func (g *GPU) Copy(dst, src fluid.Target) {
	g.draw(dst, g.programs.copy, func(p *program) {
		p.texture("source", src)
	})
}

// Clear implements fluid.Backend.
func (g *GPU) Clear(dst, src fluid.Target, value float32) {
	g.draw(dst, g.programs.clear, func(p *program) {
		p.texture("source", src)
		p.float("value", value)
	})
}

// Color implements fluid.Backend.
func (g *GPU) Color(dst fluid.Target, c fluid.Color, alpha float32) {
	g.draw(dst, g.programs.color, func(p *program) {
		p.vec4("color", c.R, c.G, c.B, alpha)
	})
}

// Checkerboard implements fluid.Backend.
func (g *GPU) Checkerboard(dst fluid.Target, aspect float32) {
	g.draw(dst, g.programs.checkerboard, func(p *program) {
		p.float("aspectRatio", aspect)
	})
}

// Splat implements fluid.Backend.
func (g *GPU) Splat(dst, src fluid.Target, x, y float32, c fluid.Color, radius, aspect float32) {
	g.draw(dst, g.programs.splat, func(p *program) {
		p.texture("source", src)
		p.float("aspectRatio", aspect)
		p.vec2("point", x, y)
		p.vec3("color", c.R, c.G, c.B)
		p.float("radius", radius)
	})
}

// Curl implements fluid.Backend.
func (g *GPU) Curl(dst, velocity fluid.Target) {
	g.draw(dst, g.programs.curl, func(p *program) {
		p.texel("texelSize", velocity)
		p.texture("velocity", velocity)
	})
}

// Vorticity implements fluid.Backend.
func (g *GPU) Vorticity(dst, velocity, curl fluid.Target, strength, dt float32) {
	g.draw(dst, g.programs.vorticity, func(p *program) {
		p.texel("texelSize", curl)
		p.texture("velocity", velocity)
		p.texture("curl", curl)
		p.float("strength", strength)
		p.float("dt", dt)
	})
}

// Divergence implements fluid.Backend.
func (g *GPU) Divergence(dst, velocity fluid.Target) {
	g.draw(dst, g.programs.divergence, func(p *program) {
		p.texel("texelSize", velocity)
		p.texture("velocity", velocity)
	})
}

// Jacobi implements fluid.Backend.
func (g *GPU) Jacobi(dst, pressure, divergence fluid.Target) {
	g.draw(dst, g.programs.pressure, func(p *program) {
		p.texel("texelSize", pressure)
		p.texture("pressure", pressure)
		p.texture("divergence", divergence)
	})
}

// GradientSubtract implements fluid.Backend.
func (g *GPU) GradientSubtract(dst, pressure, velocity fluid.Target) {
	g.draw(dst, g.programs.gradient, func(p *program) {
		p.texel("texelSize", pressure)
		p.texture("pressure", pressure)
		p.texture("velocity", velocity)
	})
}

// Advect implements fluid.Backend.
func (g *GPU) Advect(dst, velocity, source fluid.Target, dt, dissipation float32, manual bool) {
	prog := g.programs.advection
	if manual {
		prog = g.programs.advectionManual
	}
	g.draw(dst, prog, func(p *program) {
		p.texel("texelSize", velocity)
		if manual {
			p.texel("sourceTexelSize", source)
		}
		p.texture("velocity", velocity)
		p.texture("source", source)
		p.float("dt", dt)
		p.float("dissipation", dissipation)
	})
}

// BloomPrefilter implements fluid.Backend.
func (g *GPU) BloomPrefilter(dst, src fluid.Target, curve [3]float32, threshold float32) {
	g.draw(dst, g.programs.bloomPrefilter, func(p *program) {
		p.texture("source", src)
		p.vec3("curve", curve[0], curve[1], curve[2])
		p.float("threshold", threshold)
	})
}

// BloomBlur implements fluid.Backend.
func (g *GPU) BloomBlur(dst, src fluid.Target) {
	g.draw(dst, g.programs.bloomBlur, func(p *program) {
		p.texel("texelSize", src)
		p.texture("source", src)
	})
}

// BloomFinal implements fluid.Backend.
func (g *GPU) BloomFinal(dst, src fluid.Target, intensity float32) {
	g.draw(dst, g.programs.bloomFinal, func(p *program) {
		p.texel("texelSize", src)
		p.texture("source", src)
		p.float("intensity", intensity)
	})
}

// SunraysMask implements fluid.Backend.
func (g *GPU) SunraysMask(dst, src fluid.Target) {
	g.draw(dst, g.programs.sunraysMask, func(p *program) {
		p.texture("source", src)
	})
}

// Sunrays implements fluid.Backend.
func (g *GPU) Sunrays(dst, mask fluid.Target, weight float32) {
	g.draw(dst, g.programs.sunrays, func(p *program) {
		p.texture("mask", mask)
		p.float("weight", weight)
	})
}

// Blur implements fluid.Backend.
func (g *GPU) Blur(dst, src fluid.Target, dx, dy float32) {
	g.draw(dst, g.programs.blur, func(p *program) {
		p.texture("source", src)
		p.vec2("direction", dx, dy)
	})
}

// Display implements fluid.Backend.
func (g *GPU) Display(dst fluid.Target, params fluid.DisplayParams) {
	var k displayKeywords
	if params.Shading {
		k |= keywordShading
	}
	if params.Bloom != nil {
		k |= keywordBloom
	}
	if params.Sunrays != nil {
		k |= keywordSunrays
	}

	prog, err := g.programs.Display(k)
	if err != nil {
		fluid.Logger().Warn("display variant unavailable", slog.Any("error", err))
		return
	}

	w, h := g.SurfaceSize()
	if dst != nil {
		w, h = dst.Width(), dst.Height()
	}
	g.draw(dst, prog, func(p *program) {
		p.vec2("texelSize", 1/float32(w), 1/float32(h))
		p.texture("dye", params.Dye)
		if params.Bloom != nil {
			p.texture("bloom", params.Bloom)
		}
		if params.Sunrays != nil {
			p.texture("sunrays", params.Sunrays)
		}
	})
}
