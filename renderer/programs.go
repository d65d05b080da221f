package renderer

import (
	"embed"
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluidbg/fluid"
)

//go:embed shaders/*.fs
var shaderFS embed.FS

// program is a compiled fragment shader with its uniform locations.
type program struct {
	name   string
	shader rl.Shader
	locs   map[string]int32
}

func (p *program) loc(name string) int32 {
	if l, ok := p.locs[name]; ok {
		return l
	}
	l := rl.GetShaderLocation(p.shader, name)
	p.locs[name] = l
	return l
}

func (p *program) float(name string, v float32) {
	rl.SetShaderValue(p.shader, p.loc(name), []float32{v}, rl.ShaderUniformFloat)
}

func (p *program) vec2(name string, x, y float32) {
	rl.SetShaderValue(p.shader, p.loc(name), []float32{x, y}, rl.ShaderUniformVec2)
}

func (p *program) vec3(name string, x, y, z float32) {
	rl.SetShaderValue(p.shader, p.loc(name), []float32{x, y, z}, rl.ShaderUniformVec3)
}

func (p *program) vec4(name string, x, y, z, w float32) {
	rl.SetShaderValue(p.shader, p.loc(name), []float32{x, y, z, w}, rl.ShaderUniformVec4)
}

// texture binds t to a sampler. Call inside BeginShaderMode.
func (p *program) texture(name string, t fluid.Target) {
	rl.SetShaderValueTexture(p.shader, p.loc(name), gpuTarget(t).rt.Texture)
}

// texel sets a vec2 uniform to the texel size of t.
func (p *program) texel(name string, t fluid.Target) {
	tx, ty := fluid.TexelSize(t)
	p.vec2(name, tx, ty)
}

// Display keywords, combined as a bit set.
type displayKeywords uint8

const (
	keywordShading displayKeywords = 1 << iota
	keywordBloom
	keywordSunrays
)

func (k displayKeywords) defines() []string {
	var out []string
	if k&keywordShading != 0 {
		out = append(out, "SHADING")
	}
	if k&keywordBloom != 0 {
		out = append(out, "BLOOM")
	}
	if k&keywordSunrays != 0 {
		out = append(out, "SUNRAYS")
	}
	return out
}

// Programs is the fixed set of fluid passes plus lazily built display
// variants.
type Programs struct {
	prelude string

	copy            *program
	clear           *program
	color           *program
	checkerboard    *program
	splat           *program
	curl            *program
	vorticity       *program
	divergence      *program
	pressure        *program
	gradient        *program
	advection       *program
	advectionManual *program
	bloomPrefilter  *program
	bloomBlur       *program
	bloomFinal      *program
	sunraysMask     *program
	sunrays         *program
	blur            *program

	display map[displayKeywords]*program
	all     []*program
}

// glslPrelude returns the header every pass is compiled with. Bodies are
// written against GLSL 330; older dialects get macros for the differences.
func glslPrelude(caps fluid.Capabilities) string {
	var b strings.Builder
	switch {
	case caps.GLES && caps.GLVersion >= 30:
		b.WriteString("#version 300 es\nprecision highp float;\nprecision highp sampler2D;\nout vec4 finalColor;\n")
	case caps.GLES:
		b.WriteString("#version 100\nprecision highp float;\n#define texture texture2D\n#define finalColor gl_FragColor\n")
	case caps.GLVersion < 33:
		b.WriteString("#version 120\n#define texture texture2D\n#define finalColor gl_FragColor\n")
	default:
		b.WriteString("#version 330\nout vec4 finalColor;\n")
	}
	return b.String()
}

// NewPrograms compiles every fixed pass.
func NewPrograms(caps fluid.Capabilities) (*Programs, error) {
	ps := &Programs{
		prelude: glslPrelude(caps),
		display: make(map[displayKeywords]*program),
	}

	fixed := []struct {
		dst     **program
		file    string
		defines []string
	}{
		{&ps.copy, "copy", nil},
		{&ps.clear, "clear", nil},
		{&ps.color, "color", nil},
		{&ps.checkerboard, "checkerboard", nil},
		{&ps.splat, "splat", nil},
		{&ps.curl, "curl", nil},
		{&ps.vorticity, "vorticity", nil},
		{&ps.divergence, "divergence", nil},
		{&ps.pressure, "pressure", nil},
		{&ps.gradient, "gradient", nil},
		{&ps.advection, "advection", nil},
		{&ps.advectionManual, "advection", []string{"MANUAL_FILTERING"}},
		{&ps.bloomPrefilter, "bloom_prefilter", nil},
		{&ps.bloomBlur, "bloom_blur", nil},
		{&ps.bloomFinal, "bloom_final", nil},
		{&ps.sunraysMask, "sunrays_mask", nil},
		{&ps.sunrays, "sunrays", nil},
		{&ps.blur, "blur", nil},
	}
	for _, f := range fixed {
		p, err := ps.compile(f.file, f.defines...)
		if err != nil {
			ps.Unload()
			return nil, err
		}
		*f.dst = p
	}
	return ps, nil
}

// compile builds one fragment shader against raylib's default vertex
// shader.
func (ps *Programs) compile(file string, defines ...string) (*program, error) {
	body, err := shaderFS.ReadFile("shaders/" + file + ".fs")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrShaderCompile, file, err)
	}

	var src strings.Builder
	src.WriteString(ps.prelude)
	for _, d := range defines {
		src.WriteString("#define " + d + "\n")
	}
	src.WriteString("uniform vec2 resolution;\n")
	src.WriteString("vec2 fragUV() { return gl_FragCoord.xy / resolution; }\n")
	src.Write(body)

	shader := rl.LoadShaderFromMemory("", src.String())
	p := &program{name: file, shader: shader, locs: make(map[string]int32)}

	// A failed compile leaves raylib's default shader, which has no
	// resolution uniform
	if shader.ID == 0 || p.loc("resolution") < 0 {
		return nil, fmt.Errorf("%w: %s %v", ErrShaderCompile, file, defines)
	}
	ps.all = append(ps.all, p)
	return p, nil
}

// Display returns the display variant for the keyword set, compiling it on
// first use.
func (ps *Programs) Display(k displayKeywords) (*program, error) {
	if p, ok := ps.display[k]; ok {
		return p, nil
	}
	p, err := ps.compile("display", k.defines()...)
	if err != nil {
		return nil, err
	}
	ps.display[k] = p
	return p, nil
}

// Unload frees every compiled shader.
func (ps *Programs) Unload() {
	for _, p := range ps.all {
		rl.UnloadShader(p.shader)
	}
	ps.all = nil
	clear(ps.display)
}
