package renderer

import "github.com/pthm-cable/fluidbg/fluid"

// Context versions as reported by rl.GetVersion.
const (
	versionGL11   = 1
	versionGL21   = 2
	versionGL33   = 3
	versionGL43   = 4
	versionGLES20 = 5
	versionGLES30 = 6
)

// Conservative texture size limits; raylib does not expose the GL query.
const (
	desktopMaxTexture = 8192
	gles20MaxTexture  = 2048
	gles30MaxTexture  = 4096
)

// ProbeVersion maps a raylib context version to the capabilities the fluid
// passes can expect from it. The format is the first candidate only;
// NewGPU falls back through FormatCandidates when it is not renderable.
func ProbeVersion(version int, preferHalf bool) fluid.Capabilities {
	float := fluid.TextureRGBA32F
	if preferHalf {
		float = fluid.TextureRGBA16F
	}

	switch version {
	case versionGL33, versionGL43:
		gl := 33
		if version == versionGL43 {
			gl = 43
		}
		return fluid.Capabilities{
			API:             "opengl",
			GLVersion:       gl,
			TextureFormat:   float,
			LinearFiltering: true,
			MaxTextureSize:  desktopMaxTexture,
		}
	case versionGL21:
		// Float textures come from ARB_texture_float; half is the safer bet
		return fluid.Capabilities{
			API:             "opengl",
			GLVersion:       21,
			TextureFormat:   fluid.TextureRGBA16F,
			LinearFiltering: true,
			MaxTextureSize:  desktopMaxTexture,
		}
	case versionGLES30:
		return fluid.Capabilities{
			API:             "gles",
			GLVersion:       30,
			GLES:            true,
			Mobile:          true,
			TextureFormat:   fluid.TextureRGBA16F,
			LinearFiltering: true,
			MaxTextureSize:  gles30MaxTexture,
		}
	case versionGLES20:
		// Half float linear filtering is an optional extension on ES 2.0
		return fluid.Capabilities{
			API:             "gles",
			GLVersion:       20,
			GLES:            true,
			Mobile:          true,
			TextureFormat:   fluid.TextureRGBA16F,
			LinearFiltering: false,
			MaxTextureSize:  gles20MaxTexture,
		}
	default:
		// GL 1.1 has no programmable pipeline
		return fluid.Capabilities{API: "unsupported", TextureFormat: fluid.TextureNone}
	}
}

// FormatCandidates lists the formats to try, best first, starting at the
// probed one.
func FormatCandidates(first fluid.TextureFormat) []fluid.TextureFormat {
	switch first {
	case fluid.TextureRGBA32F:
		return []fluid.TextureFormat{fluid.TextureRGBA32F, fluid.TextureRGBA16F, fluid.TextureRGBA8}
	case fluid.TextureRGBA16F:
		return []fluid.TextureFormat{fluid.TextureRGBA16F, fluid.TextureRGBA8}
	case fluid.TextureRGBA8:
		return []fluid.TextureFormat{fluid.TextureRGBA8}
	default:
		return nil
	}
}
