package game

import "time"

// Options configures a Game beyond the config file.
type Options struct {
	Seed     int64
	Quality  string // Tier override, empty for automatic selection
	LogPerf  bool   // Log pass timing and field stats via slog
	Headless bool   // CPU backend with a virtual clock, no window

	SnapshotDir   string
	SnapshotEvery int // Frames between headless snapshots, 0 disables
	OutputDir     string

	// Headless surface and workers
	Width   int
	Height  int
	Workers int

	// FrameInterval is the virtual frame duration in headless mode.
	// Zero uses the configured target frame rate.
	FrameInterval time.Duration

	// FullFloat asks the GPU backend for 32-bit float targets.
	FullFloat bool
}
