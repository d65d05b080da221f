package fluid_test

import (
	"math"
	"testing"

	"github.com/pthm-cable/fluidbg/config"
	"github.com/pthm-cable/fluidbg/fluid"
	"github.com/pthm-cable/fluidbg/systems"
)

// testConfig returns defaults shrunk to tiny grids with the noisy parts
// (drift, auto-splat) switched off.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Quality.Tier = config.TierLow
	cfg.Quality.Adaptive = false
	cfg.Quality.Tiers[config.TierLow] = config.TierConfig{
		SimResolution: 16, DyeResolution: 32, PressureIterations: 4, BloomIterations: 4,
	}
	cfg.Quality.Tiers[config.TierMedium] = config.TierConfig{
		SimResolution: 16, DyeResolution: 48, PressureIterations: 6, BloomIterations: 4, Sunrays: true,
	}
	cfg.Bloom.Resolution = 32
	cfg.Sunrays.Resolution = 32
	cfg.AutoSplat.Enabled = false
	return cfg
}

func newTestSim(t *testing.T, cfg *config.Config, opts fluid.Options) (*fluid.Simulation, *systems.CPUBackend) {
	t.Helper()
	b := systems.NewCPUBackend(64, 32, systems.CPUOptions{Workers: 2})
	s, err := fluid.NewSimulation(b, cfg, opts)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	t.Cleanup(s.Close)
	return s, b
}

func maxOf(vals []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vals {
		m = math.Max(m, v)
	}
	return m
}

func allFinite(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
