package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluidbg/config"
	"github.com/pthm-cable/fluidbg/fluid"
	"github.com/pthm-cable/fluidbg/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run on the CPU backend without a window")
	quality := flag.String("quality", "", "Force a quality tier (low, medium, high, ultra)")
	logPerf := flag.Bool("log-perf", false, "Output pass timing and field stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	snapshotEvery := flag.Int("snapshot-every", 0, "Headless: save a snapshot every N frames (0 = never)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("frames", 0, "Stop after N frames (0 = unlimited)")
	width := flag.Int("width", 0, "Headless surface width (0 = use config)")
	height := flag.Int("height", 0, "Headless surface height (0 = use config)")
	workers := flag.Int("workers", 0, "Headless row workers (0 = GOMAXPROCS)")
	transparent := flag.Bool("transparent", false, "Transparent window background")
	fullFloat := flag.Bool("float32", false, "Prefer 32-bit float targets on the GPU")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	fluid.SetLogger(logger.With("component", "fluid"))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *transparent {
		cfg.Render.Transparent = true
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:          rngSeed,
		Quality:       *quality,
		LogPerf:       *logPerf,
		Headless:      *headless,
		SnapshotDir:   *snapshotDir,
		SnapshotEvery: *snapshotEvery,
		OutputDir:     *outputDir,
		Width:         *width,
		Height:        *height,
		Workers:       *workers,
		FullFloat:     *fullFloat,
	}

	if *headless {
		g, err := game.NewGame(cfg, opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"tier", g.Simulation().Quality().Tier,
			"max_frames", *maxFrames,
		)
		for {
			g.Update()
			if *maxFrames > 0 && g.Frame() >= *maxFrames {
				slog.Info("max frames reached", "frame", g.Frame())
				return
			}
		}
	}

	flags := uint32(rl.FlagWindowHighdpi)
	if cfg.Screen.Resizable {
		flags |= rl.FlagWindowResizable
	}
	if cfg.Render.Transparent {
		flags |= rl.FlagWindowTransparent
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "fluidbg")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxFrames > 0 && g.Frame() >= *maxFrames {
			break
		}
	}
}
