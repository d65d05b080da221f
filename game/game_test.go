package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/fluidbg/config"
	"github.com/pthm-cable/fluidbg/ui"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Quality.Tier = config.TierLow
	cfg.Quality.Adaptive = false
	cfg.Quality.Tiers[config.TierLow] = config.TierConfig{
		SimResolution: 16, DyeResolution: 32, PressureIterations: 4, BloomIterations: 2,
	}
	cfg.Quality.Tiers[config.TierMedium] = config.TierConfig{
		SimResolution: 16, DyeResolution: 48, PressureIterations: 4, BloomIterations: 2, Sunrays: true,
	}
	cfg.Bloom.Resolution = 32
	cfg.Sunrays.Resolution = 32
	cfg.Telemetry.LogIntervalSecs = 0.03
	cfg.Refresh()
	return cfg
}

func newHeadless(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	opts.Width, opts.Height = 64, 32
	opts.Workers = 2
	opts.FrameInterval = time.Second / 60
	g, err := NewGame(smallConfig(t), opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func lines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Count(string(data), "\n")
}

func TestHeadlessRunWritesOutputs(t *testing.T) {
	out := t.TempDir()
	snaps := t.TempDir()
	g := newHeadless(t, Options{Seed: 7, OutputDir: out, SnapshotDir: snaps, SnapshotEvery: 2})

	for i := 0; i < 4; i++ {
		g.Update()
	}
	if g.Frame() != 4 {
		t.Errorf("frames = %d, want 4", g.Frame())
	}
	if g.Simulation().SimTime() <= 0 {
		t.Error("simulated time did not advance")
	}
	g.Simulation().SetTier(config.TierMedium, "manual")
	g.Unload()

	// Header plus one row per flush (frames 2 and 4)
	if n := lines(t, filepath.Join(out, "perf.csv")); n != 3 {
		t.Errorf("perf.csv lines = %d, want 3", n)
	}
	if n := lines(t, filepath.Join(out, "fields.csv")); n != 3 {
		t.Errorf("fields.csv lines = %d, want 3", n)
	}
	if n := lines(t, filepath.Join(out, "quality.csv")); n != 2 {
		t.Errorf("quality.csv lines = %d, want 2", n)
	}
	if _, err := os.Stat(filepath.Join(out, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}

	for _, name := range []string{"frame_000002.png", "frame_000002.json", "frame_000004.png"} {
		if _, err := os.Stat(filepath.Join(snaps, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestHeadlessWithoutOutputs(t *testing.T) {
	g := newHeadless(t, Options{})
	g.Update()
	g.Update()
	if g.Frame() != 2 {
		t.Errorf("frames = %d, want 2", g.Frame())
	}
	g.Unload()
}

func TestFieldStatsOnCPU(t *testing.T) {
	g := newHeadless(t, Options{})
	defer g.Unload()
	for i := 0; i < 3; i++ {
		g.Update()
	}

	fs, ok := g.fieldStats()
	if !ok {
		t.Fatal("fieldStats unavailable on cpu backend")
	}
	if fs.Frame != 3 || fs.Tier != config.TierLow {
		t.Errorf("stats frame/tier = %d/%s", fs.Frame, fs.Tier)
	}
	if fs.DyeMax <= 0 {
		t.Error("opening burst left no dye")
	}
}

func TestFieldTarget(t *testing.T) {
	g := newHeadless(t, Options{})
	r := g.Simulation().Resources()

	for _, id := range ui.FieldOverlays {
		if fieldTarget(r, id) == nil {
			t.Errorf("%s: no target", id)
		}
	}
	if fieldTarget(r, ui.OverlayHUD) != nil {
		t.Error("panel overlay mapped to a field")
	}
	if fieldTarget(r, ui.OverlayVelocity) != r.Velocity.Read() {
		t.Error("velocity overlay should show the read side")
	}

	g.Unload()
	if fieldTarget(r, ui.OverlayVelocity) != nil {
		t.Error("released resources still mapped")
	}
}

func TestDiffTouches(t *testing.T) {
	prev := make(map[int32]point)

	ev := diffTouches(prev, map[int32]point{1: {10, 10}})
	if len(ev) != 1 || ev[0].kind != touchDown || ev[0].id != 1 {
		t.Fatalf("first contact = %+v", ev)
	}

	ev = diffTouches(prev, map[int32]point{1: {10, 10}})
	if len(ev) != 0 {
		t.Errorf("stationary touch produced %+v", ev)
	}

	ev = diffTouches(prev, map[int32]point{1: {12, 10}, 2: {0, 0}})
	kinds := map[int32]touchKind{}
	for _, e := range ev {
		kinds[e.id] = e.kind
	}
	if len(ev) != 2 || kinds[1] != touchMove || kinds[2] != touchDown {
		t.Errorf("move plus new contact = %+v", ev)
	}

	ev = diffTouches(prev, map[int32]point{2: {0, 0}})
	if len(ev) != 1 || ev[0].kind != touchUp || ev[0].id != 1 {
		t.Errorf("lift = %+v", ev)
	}
	if _, ok := prev[1]; ok {
		t.Error("lifted touch still tracked")
	}
}

func TestTierLabel(t *testing.T) {
	if got := tierLabel(config.TierLow, config.TierHigh); got != "low (max high)" {
		t.Errorf("downgraded label = %q", got)
	}
	if got := tierLabel(config.TierHigh, config.TierHigh); got != "high" {
		t.Errorf("top label = %q", got)
	}
}

func TestFrameFollowUp(t *testing.T) {
	tests := []struct {
		name     string
		ran      bool
		released bool
		want     followUp
	}{
		{"ran", true, false, followRecord},
		{"skipped", false, false, followRedraw},
		{"skipped after release", false, true, followNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := frameFollowUp(tt.ran, tt.released); got != tt.want {
				t.Errorf("frameFollowUp(%v, %v) = %v, want %v", tt.ran, tt.released, got, tt.want)
			}
		})
	}
}
