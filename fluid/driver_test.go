package fluid_test

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/fluidbg/config"
	"github.com/pthm-cable/fluidbg/fluid"
	"github.com/pthm-cable/fluidbg/systems"
)

func TestFrameRequiresStart(t *testing.T) {
	s, _ := newTestSim(t, testConfig(t), fluid.Options{})
	now := time.Now()

	if s.Frame(now) {
		t.Fatal("frame ran before Start")
	}
	s.Start()
	if !s.Running() || !s.Frame(now) {
		t.Fatal("frame skipped after Start")
	}
	s.Stop()
	if s.Frame(now.Add(time.Second)) {
		t.Error("frame ran after Stop")
	}
}

func TestFrameSkippedWhileHidden(t *testing.T) {
	s, _ := newTestSim(t, testConfig(t), fluid.Options{})
	s.Start()
	now := time.Now()

	s.SetHidden(true)
	if s.Frame(now) {
		t.Error("hidden frame ran")
	}
	s.SetHidden(false)
	if !s.Frame(now.Add(time.Second)) {
		t.Error("visible frame skipped")
	}

	cfg := s.Config()
	cfg.Driver.PauseWhenHidden = false
	s.SetHidden(true)
	if !s.Frame(now.Add(2 * time.Second)) {
		t.Error("hidden frame skipped with pause_when_hidden off")
	}
}

func TestFrameRendersOpaqueBackground(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bloom.Enabled = false
	cfg.Driver.InitialSplatsMin = 0
	cfg.Driver.InitialSplatsMax = 0
	cfg.Derived.BackColor = [3]float32{1, 0, 0}
	s, b := newTestSim(t, cfg, fluid.Options{})

	s.Start()
	s.Frame(time.Now())

	got := b.Screen().At(3, 3)
	if got[0] < 0.999 || got[1] > 0.001 || got[3] < 0.999 {
		t.Errorf("screen = %v, want opaque red", got)
	}
}

func TestFrameRendersCheckerboardWhenTransparent(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bloom.Enabled = false
	cfg.Render.Transparent = true
	cfg.Render.Checkerboard = true
	cfg.Driver.InitialSplatsMin = 0
	cfg.Driver.InitialSplatsMax = 0
	s, b := newTestSim(t, cfg, fluid.Options{})

	s.Start()
	s.Frame(time.Now())

	if got := b.Screen().At(1, 1)[0]; got < 0.8 {
		t.Errorf("screen = %v, want checkerboard grey", got)
	}
}

func TestPausedFrameKeepsFields(t *testing.T) {
	cfg := testConfig(t)
	cfg.Render.Paused = true
	s, _ := newTestSim(t, cfg, fluid.Options{Seed: 4})
	r := s.Resources()

	s.Start()
	now := time.Now()
	s.Frame(now) // applies the opening burst
	if maxOf(systems.Brightness(r.Dye.Read())) <= 0 {
		t.Fatal("opening burst did not splat while paused")
	}

	before := systems.Brightness(r.Dye.Read())
	s.Frame(now.Add(16 * time.Millisecond))
	after := systems.Brightness(r.Dye.Read())
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("paused frame changed the dye field")
		}
	}
}

func TestFPSFromFrameTimes(t *testing.T) {
	s, _ := newTestSim(t, testConfig(t), fluid.Options{})
	s.Start()

	now := time.Now()
	for i := 0; i < 6; i++ {
		s.Frame(now.Add(time.Duration(i) * 10 * time.Millisecond))
	}
	if fps := s.FPS(); fps < 99 || fps > 101 {
		t.Errorf("fps = %v, want 100", fps)
	}
}

func TestDriftDowngradesTier(t *testing.T) {
	cfg := testConfig(t)
	cfg.Quality.Adaptive = true
	cfg.Quality.WindowFrames = 4
	cfg.Quality.CooldownSeconds = 0
	cfg.Quality.DowngradeFPS = 45

	var changes []fluid.QualityChange
	s, _ := newTestSim(t, cfg, fluid.Options{
		Quality:         config.TierMedium,
		OnQualityChange: func(c fluid.QualityChange) { changes = append(changes, c) },
	})
	s.Start()

	now := time.Now()
	for i := 0; i < 10; i++ {
		s.Frame(now.Add(time.Duration(i) * 50 * time.Millisecond))
	}

	if len(changes) != 1 {
		t.Fatalf("changes = %+v, want one downgrade", changes)
	}
	c := changes[0]
	if c.From != config.TierMedium || c.To != config.TierLow || c.Reason != "drift" {
		t.Errorf("change = %+v", c)
	}
	if c.FPS > 21 || c.FPS < 19 {
		t.Errorf("change fps = %v, want 20", c.FPS)
	}
	if s.Quality().Tier != config.TierLow {
		t.Errorf("tier = %s, want low", s.Quality().Tier)
	}
}

func TestDriftNeverUpgradesPastInitialTier(t *testing.T) {
	cfg := testConfig(t)
	cfg.Quality.Adaptive = true
	cfg.Quality.WindowFrames = 2
	cfg.Quality.UpgradeWindows = 1
	cfg.Quality.CooldownSeconds = 0

	s, _ := newTestSim(t, cfg, fluid.Options{})
	s.Start()

	now := time.Now()
	for i := 0; i < 12; i++ {
		s.Frame(now.Add(time.Duration(i) * 5 * time.Millisecond))
	}
	if s.Quality().Tier != config.TierLow {
		t.Errorf("tier = %s, want low", s.Quality().Tier)
	}
}

func TestFrameStepTiming(t *testing.T) {
	tests := []struct {
		name        string
		interval    time.Duration
		maxDT       float64
		throttleFPS float64
		frames      int
		wantSteps   float64 // Expected SimTime
	}{
		// First frame steps with a zero dt
		{"steady", 40 * time.Millisecond, 0.1, 0, 9, 8 * 0.04},
		{"gap capped at max_dt", time.Second, 1.0 / 60, 0, 5, 4.0 / 60},
		// Frame 1 runs before any measurement; afterwards every other
		// frame steps with two frames of accumulated dt
		{"throttled alternates", 40 * time.Millisecond, 0.1, 30, 9, 0.04 + 3*0.08},
		{"throttled stays capped", 50 * time.Millisecond, 1.0 / 60, 30, 9, 4.0 / 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Driver.MaxDT = tt.maxDT
			cfg.Driver.ThrottleFPS = tt.throttleFPS
			s, _ := newTestSim(t, cfg, fluid.Options{})
			s.Start()

			now := time.Now()
			for i := 0; i < tt.frames; i++ {
				if !s.Frame(now.Add(time.Duration(i) * tt.interval)) {
					t.Fatalf("frame %d skipped", i)
				}
			}
			if s.Frames() != tt.frames {
				t.Errorf("frames = %d, want %d", s.Frames(), tt.frames)
			}
			if got := s.SimTime(); math.Abs(got-tt.wantSteps) > 1e-4 {
				t.Errorf("sim time = %v, want %v", got, tt.wantSteps)
			}
		})
	}
}

func TestTransparentFrameDoesNotAccumulate(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bloom.Enabled = false
	cfg.Render.Transparent = true
	cfg.Render.Checkerboard = false
	cfg.Render.Paused = true
	s, b := newTestSim(t, cfg, fluid.Options{Seed: 9})

	screen := func() [][4]float32 {
		w, h := b.SurfaceSize()
		px := make([][4]float32, 0, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				px = append(px, b.Screen().At(x, y))
			}
		}
		return px
	}

	s.Start()
	now := time.Now()
	s.Frame(now) // opening burst, then the dye stays put
	first := screen()

	covered := false
	for _, px := range first {
		if px[3] > 0 {
			covered = true
			break
		}
	}
	if !covered {
		t.Fatal("opening burst left the surface empty")
	}

	for i := 1; i <= 2; i++ {
		s.Frame(now.Add(time.Duration(i) * 16 * time.Millisecond))
		for j, px := range screen() {
			if px != first[j] {
				t.Fatalf("frame %d texel %d = %v, want %v", i, j, px, first[j])
			}
		}
	}
}
