// Package game hosts the fluid simulation: it owns the backend, forwards
// window input, draws the debug overlays and writes telemetry.
package game

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/pthm-cable/fluidbg/config"
	"github.com/pthm-cable/fluidbg/fluid"
	"github.com/pthm-cable/fluidbg/inspector"
	"github.com/pthm-cable/fluidbg/renderer"
	"github.com/pthm-cable/fluidbg/systems"
	"github.com/pthm-cable/fluidbg/telemetry"
	"github.com/pthm-cable/fluidbg/ui"
)

// snapshotter is implemented by backends that can read back the composite.
type snapshotter interface {
	Snapshot() *image.RGBA
}

// Game holds the simulation and everything around it.
type Game struct {
	cfg      *config.Config
	sim      *fluid.Simulation
	backend  fluid.Backend
	gpu      *renderer.GPU       // Graphical mode only
	cpu      *systems.CPUBackend // Headless mode only
	headless bool
	seed     int64

	// Telemetry
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	logPerf       bool
	sinceFlush    float64
	snapshotDir   string
	snapshotEvery int

	// Headless virtual clock
	clock         time.Time
	frameInterval time.Duration

	// Graphical state
	overlays     *ui.OverlayRegistry
	hud          *ui.HUD
	perfPanel    *ui.PerfPanel
	qualityPanel *ui.QualityPanel
	keys         *ui.KeysPanel
	inspector    *inspector.Inspector
	touches      map[int32]point
	screenW      int32
	screenH      int32
	wantSnapshot bool
}

// NewGame creates the backend and simulation. Graphical mode needs an open
// raylib window.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	g := &Game{
		cfg:           cfg,
		headless:      opts.Headless,
		seed:          opts.Seed,
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		logPerf:       opts.LogPerf,
		snapshotDir:   opts.SnapshotDir,
		snapshotEvery: opts.SnapshotEvery,
		frameInterval: opts.FrameInterval,
		touches:       make(map[int32]point),
	}
	if g.frameInterval <= 0 {
		fps := max(cfg.Screen.TargetFPS, 1)
		g.frameInterval = time.Second / time.Duration(fps)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if opts.Headless {
		w, h := opts.Width, opts.Height
		if w <= 0 || h <= 0 {
			w, h = cfg.Screen.Width, cfg.Screen.Height
		}
		g.cpu = systems.NewCPUBackend(w, h, systems.CPUOptions{Workers: opts.Workers})
		g.backend = g.cpu
		g.clock = time.Unix(0, 0)
	} else {
		gpu, err := renderer.NewGPU(!opts.FullFloat)
		if err != nil {
			g.output.Close()
			return nil, fmt.Errorf("creating gpu backend: %w", err)
		}
		g.gpu = gpu
		g.backend = gpu
		g.initUI()
	}

	sim, err := fluid.NewSimulation(g.backend, cfg, fluid.Options{
		Quality:         opts.Quality,
		Seed:            opts.Seed,
		Perf:            g.perf,
		OnQualityChange: g.onQualityChange,
	})
	if err != nil {
		g.unloadBackend()
		g.output.Close()
		return nil, err
	}
	g.sim = sim
	g.sim.Start()
	return g, nil
}

// Simulation returns the hosted simulation.
func (g *Game) Simulation() *fluid.Simulation { return g.sim }

// Frame returns the number of processed frames.
func (g *Game) Frame() int { return g.sim.Frames() }

// Update processes window input. In headless mode it also advances the
// virtual clock and runs one frame, since there is nothing to draw.
func (g *Game) Update() {
	if g.headless {
		g.clock = g.clock.Add(g.frameInterval)
		if g.sim.Frame(g.clock) {
			g.afterFrame(g.frameInterval.Seconds())
		}
		return
	}
	g.handleInput()
	g.perf.RecordFrame()
}

// Unload releases the simulation, the backend and open output files.
func (g *Game) Unload() {
	g.sim.Close()
	g.unloadBackend()
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

func (g *Game) unloadBackend() {
	if g.gpu != nil {
		g.gpu.Unload()
	}
}
