package fluid

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/fluidbg/components"
	"github.com/pthm-cable/fluidbg/config"
	"github.com/pthm-cable/fluidbg/telemetry"
	"github.com/pthm-cable/fluidbg/viewport"
)

// Options configures a Simulation beyond what the config file holds.
type Options struct {
	Quality string // Tier override, empty for automatic selection
	Seed    int64
	Perf    *telemetry.PerfCollector // Optional phase timing

	// OnQualityChange is called after the tier changes at runtime.
	OnQualityChange func(QualityChange)
}

// Simulation is a stable-fluids solver bound to one backend and surface.
// It is not safe for concurrent use; drive it from the render thread.
type Simulation struct {
	backend Backend
	cfg     *config.Config
	caps    Capabilities
	device  config.DeviceInfo
	quality config.Quality
	topTier string // Runtime upgrades never go above the initial tier

	res *Resources
	vp  *viewport.Viewport
	rng *rand.Rand

	// Pointer entities
	world         *ecs.World
	pointerMap    *ecs.Map1[components.Pointer]
	pointerFilter *ecs.Filter1[components.Pointer]
	autoMap       *ecs.Map1[components.AutoSplatter]
	autoFilter    *ecs.Filter1[components.AutoSplatter]
	pointers      map[int]ecs.Entity
	noise         opensimplex.Noise
	idle          float32

	splatStack []int
	colorTimer float32

	perf      *telemetry.PerfCollector
	drift     *DriftMonitor
	onQuality func(QualityChange)

	// Frame driver state
	running   bool
	hidden    bool
	last      time.Time
	pendingDT float32
	oddFrame  bool
	frame     int
	simTime   float64
}

// NewSimulation probes the backend, selects a quality tier, and allocates
// all fields for the backend's current surface size. cfg is used as is;
// pass a Clone if it will be tuned independently.
func NewSimulation(b Backend, cfg *config.Config, opts Options) (*Simulation, error) {
	caps := b.Capabilities()
	if caps.TextureFormat == TextureNone {
		return nil, ErrNoRenderableFormat
	}

	w, h := b.SurfaceSize()
	world := ecs.NewWorld()
	s := &Simulation{
		backend:       b,
		cfg:           cfg,
		caps:          caps,
		device:        DeviceInfo(caps),
		res:           NewResources(b),
		vp:            viewport.New(float32(w), float32(h)),
		rng:           rand.New(rand.NewSource(opts.Seed)),
		world:         world,
		pointerMap:    ecs.NewMap1[components.Pointer](world),
		pointerFilter: ecs.NewFilter1[components.Pointer](world),
		autoMap:       ecs.NewMap1[components.AutoSplatter](world),
		autoFilter:    ecs.NewFilter1[components.AutoSplatter](world),
		pointers:      make(map[int]ecs.Entity),
		noise:         opensimplex.NewNormalized(opts.Seed),
		perf:          opts.Perf,
		drift:         NewDriftMonitor(cfg.Quality),
		onQuality:     opts.OnQualityChange,
	}

	s.quality = cfg.SelectQuality(s.device, opts.Quality)
	s.topTier = s.quality.Tier

	Logger().Info("fluid capabilities",
		slog.String("api", caps.API),
		slog.Int("gl_version", caps.GLVersion),
		slog.String("format", caps.TextureFormat.String()),
		slog.Bool("linear", caps.LinearFiltering),
		slog.Int("max_texture", caps.MaxTextureSize),
	)
	Logger().Info("fluid quality selected",
		slog.String("tier", s.quality.Tier),
		slog.String("reason", s.quality.Reason),
		slog.String("settings", s.quality.String()),
	)

	if err := s.initResources(); err != nil {
		s.res.Release()
		return nil, fmt.Errorf("allocating fluid resources: %w", err)
	}

	s.spawnAutoSplatter(opts.Seed)
	return s, nil
}

func (s *Simulation) spawnAutoSplatter(seed int64) {
	c := s.generateColor()
	off := float64(seed%97) * 31.7
	start := components.Texcoord{
		X: 0.1 + 0.8*float32(s.noise.Eval2(0, off)),
		Y: 0.1 + 0.8*float32(s.noise.Eval2(off, 57.3)),
	}
	s.autoMap.NewEntity(&components.AutoSplatter{
		Pos:   start,
		Prev:  start,
		Timer: float32(s.cfg.AutoSplat.Interval),
		Seed:  seed,
		R:     c.R, G: c.G, B: c.B,
	})
}

// DeviceInfo converts backend capabilities to the config's device description.
func DeviceInfo(c Capabilities) config.DeviceInfo {
	return config.DeviceInfo{
		Mobile:          c.Mobile,
		GLES:            c.GLES,
		GLVersion:       c.GLVersion,
		FloatTextures:   c.FloatTextures(),
		LinearFiltering: c.LinearFiltering,
		MaxTextureSize:  c.MaxTextureSize,
	}
}

func (s *Simulation) initResources() error {
	q := s.quality.Settings
	spec := ResourceSpec{
		SimResolution:     q.SimResolution,
		DyeResolution:     q.DyeResolution,
		BloomResolution:   s.cfg.Bloom.Resolution,
		BloomIterations:   q.BloomIterations,
		SunraysResolution: s.cfg.Sunrays.Resolution,
		LinearFiltering:   s.caps.LinearFiltering && !q.ManualFiltering,
	}
	return s.res.Init(spec, int(s.vp.Width), int(s.vp.Height))
}

// Step advances the fluid by dt seconds.
func (s *Simulation) Step(dt float32) {
	b := s.backend
	r := s.res
	sim := s.cfg.Sim

	b.SetBlend(BlendDisabled)

	s.perf.StartPhase(telemetry.PhaseCurl)
	b.Curl(r.Curl, r.Velocity.Read())

	s.perf.StartPhase(telemetry.PhaseVorticity)
	b.Vorticity(r.Velocity.Write(), r.Velocity.Read(), r.Curl, float32(sim.Curl), dt)
	r.Velocity.Swap()

	s.perf.StartPhase(telemetry.PhaseDivergence)
	b.Divergence(r.Divergence, r.Velocity.Read())

	s.perf.StartPhase(telemetry.PhasePressure)
	b.Clear(r.Pressure.Write(), r.Pressure.Read(), float32(sim.Pressure))
	r.Pressure.Swap()
	for i := 0; i < s.quality.Settings.PressureIterations; i++ {
		b.Jacobi(r.Pressure.Write(), r.Pressure.Read(), r.Divergence)
		r.Pressure.Swap()
	}

	s.perf.StartPhase(telemetry.PhaseGradient)
	b.GradientSubtract(r.Velocity.Write(), r.Pressure.Read(), r.Velocity.Read())
	r.Velocity.Swap()

	manual := s.quality.Settings.ManualFiltering

	s.perf.StartPhase(telemetry.PhaseAdvectVelocity)
	b.Advect(r.Velocity.Write(), r.Velocity.Read(), r.Velocity.Read(), dt, float32(sim.VelocityDissipation), manual)
	r.Velocity.Swap()

	s.perf.StartPhase(telemetry.PhaseAdvectDye)
	b.Advect(r.Dye.Write(), r.Velocity.Read(), r.Dye.Read(), dt, float32(sim.DensityDissipation), manual)
	r.Dye.Swap()
}

// Splat adds a Gaussian impulse at texcoord (x, y): (dx, dy) to velocity
// and c to dye.
func (s *Simulation) Splat(x, y, dx, dy float32, c Color) {
	b := s.backend
	r := s.res
	aspect := s.vp.AspectRatio()
	radius := s.vp.CorrectRadius(s.cfg.Derived.SplatRadius)

	b.SetBlend(BlendDisabled)
	b.Splat(r.Velocity.Write(), r.Velocity.Read(), x, y, Color{dx, dy, 0}, radius, aspect)
	r.Velocity.Swap()
	b.Splat(r.Dye.Write(), r.Dye.Read(), x, y, c, radius, aspect)
	r.Dye.Swap()
}

// Config returns the live configuration. Changes to solver and render
// parameters apply on the next frame; call ApplyConfig after changing
// resolutions or feature toggles.
func (s *Simulation) Config() *config.Config { return s.cfg }

// ApplyConfig recomputes derived values and the current tier's settings
// from the config, then reallocates resources.
func (s *Simulation) ApplyConfig() error {
	s.cfg.Refresh()
	s.quality = s.cfg.QualityFor(s.quality.Tier, s.device, s.quality.Reason)
	return s.initResources()
}

// Quality returns the active tier and settings.
func (s *Simulation) Quality() config.Quality { return s.quality }

// Capabilities returns what the backend reported at construction.
func (s *Simulation) Capabilities() Capabilities { return s.caps }

// Resources exposes the simulation's fields, mainly for tests and snapshots.
func (s *Simulation) Resources() *Resources { return s.res }

// Viewport returns the surface mapping.
func (s *Simulation) Viewport() *viewport.Viewport { return s.vp }

// Backend returns the pass backend.
func (s *Simulation) Backend() Backend { return s.backend }
