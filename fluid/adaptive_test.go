package fluid_test

import (
	"testing"

	"github.com/pthm-cable/fluidbg/config"
	"github.com/pthm-cable/fluidbg/fluid"
)

func driftConfig() config.QualityConfig {
	return config.QualityConfig{
		Adaptive:       true,
		DowngradeFPS:   45,
		UpgradeFPS:     58,
		WindowFrames:   4,
		UpgradeWindows: 2,
	}
}

func feed(m *fluid.DriftMonitor, seconds float64, n int) fluid.Drift {
	d := fluid.DriftNone
	for i := 0; i < n; i++ {
		if got := m.Observe(seconds); got != fluid.DriftNone {
			d = got
		}
	}
	return d
}

func TestDriftMonitorWindows(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		windows int
		want    fluid.Drift
	}{
		{"slow window downgrades", 1.0 / 20, 1, fluid.DriftDown},
		{"steady window holds", 1.0 / 50, 3, fluid.DriftNone},
		{"one fast window is not enough", 1.0 / 120, 1, fluid.DriftNone},
		{"two fast windows upgrade", 1.0 / 120, 2, fluid.DriftUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := fluid.NewDriftMonitor(driftConfig())
			if got := feed(m, tt.seconds, 4*tt.windows); got != tt.want {
				t.Errorf("drift = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDriftMonitorPartialWindow(t *testing.T) {
	m := fluid.NewDriftMonitor(driftConfig())
	if got := feed(m, 1.0/10, 3); got != fluid.DriftNone {
		t.Errorf("partial window drift = %v", got)
	}
	if fps := m.FPS(); fps < 9.99 || fps > 10.01 {
		t.Errorf("partial fps = %v, want 10", fps)
	}
	if m.Observe(0) != fluid.DriftNone || m.Observe(-1) != fluid.DriftNone {
		t.Error("non-positive samples should be ignored")
	}
}

func TestDriftMonitorCooldown(t *testing.T) {
	q := driftConfig()
	q.CooldownSeconds = 1
	m := fluid.NewDriftMonitor(q)

	// Starts outside the cooldown
	if got := feed(m, 1.0/20, 4); got != fluid.DriftDown {
		t.Fatalf("first drift = %v, want down", got)
	}

	m.Changed()
	// 0.8s of slow frames is still inside the cooldown
	if got := feed(m, 1.0/20, 16); got != fluid.DriftNone {
		t.Errorf("drift inside cooldown = %v, want none", got)
	}
	if got := feed(m, 1.0/20, 8); got != fluid.DriftDown {
		t.Errorf("drift after cooldown = %v, want down", got)
	}
}

func TestDriftMonitorDisabledStillMeasures(t *testing.T) {
	q := driftConfig()
	q.Adaptive = false
	m := fluid.NewDriftMonitor(q)

	if got := feed(m, 1.0/20, 8); got != fluid.DriftNone {
		t.Errorf("disabled monitor reported %v", got)
	}
	if fps := m.FPS(); fps < 19.99 || fps > 20.01 {
		t.Errorf("fps = %v, want 20", fps)
	}
	if m.StdDev() > 1e-9 {
		t.Errorf("std = %v, want 0 for constant frames", m.StdDev())
	}
}

func TestDriftString(t *testing.T) {
	if fluid.DriftDown.String() != "down" || fluid.DriftUp.String() != "up" || fluid.DriftNone.String() != "none" {
		t.Error("unexpected Drift strings")
	}
}
