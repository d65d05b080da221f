package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Sim.SimResolution != 128 {
		t.Errorf("sim_resolution = %d, want 128", cfg.Sim.SimResolution)
	}
	if cfg.Sim.PressureIterations != 20 {
		t.Errorf("pressure_iterations = %d, want 20", cfg.Sim.PressureIterations)
	}
	if cfg.Derived.SplatRadius != 0.0025 {
		t.Errorf("derived splat radius = %v, want 0.0025", cfg.Derived.SplatRadius)
	}
	if len(cfg.Derived.TierOrder) != 4 {
		t.Errorf("tier order = %v, want 4 tiers", cfg.Derived.TierOrder)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fluid.yaml")
	data := []byte("sim:\n  curl: 5\nrender:\n  back_color: [255, 128, 0]\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Sim.Curl != 5 {
		t.Errorf("curl = %v, want 5", cfg.Sim.Curl)
	}
	// Untouched fields keep their defaults
	if cfg.Sim.SplatForce != 6000 {
		t.Errorf("splat_force = %v, want default 6000", cfg.Sim.SplatForce)
	}
	if cfg.Derived.BackColor[0] != 1 || cfg.Derived.BackColor[2] != 0 {
		t.Errorf("derived back color = %v", cfg.Derived.BackColor)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"tiny sim", "sim:\n  sim_resolution: 2\n"},
		{"pressure above one", "sim:\n  pressure: 1.5\n"},
		{"unknown override", "quality:\n  override: potato\n"},
		{"bad color", "render:\n  back_color: [0, 300, 0]\n"},
		{"zero max dt", "driver:\n  max_dt: 0\n"},
		{"zero tier dye", "quality:\n  tiers:\n    high:\n      dye_resolution: 0\n"},
		{"negative tier iterations", "quality:\n  tiers:\n    low:\n      pressure_iterations: -1\n"},
		{"partial new tier", "quality:\n  tiers:\n    tiny:\n      sim_resolution: 16\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Sim.Curl = 12

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.Sim.Curl != 12 {
		t.Errorf("curl after roundtrip = %v, want 12", back.Sim.Curl)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic from Cfg() before Init()")
		}
	}()
	Cfg()
}

func TestCloneIsIndependent(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	c := cfg.Clone()
	tc := c.Quality.Tiers[TierLow]
	tc.SimResolution = 8
	c.Quality.Tiers[TierLow] = tc

	if cfg.Quality.Tiers[TierLow].SimResolution == 8 {
		t.Error("clone shares tier map with original")
	}
}

func TestRefreshRecomputesDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Sim.SplatRadius = 0.5
	cfg.Render.BackColor = [3]int{0, 255, 0}
	cfg.Refresh()

	if cfg.Derived.SplatRadius != 0.005 {
		t.Errorf("splat radius = %v, want 0.005", cfg.Derived.SplatRadius)
	}
	if cfg.Derived.BackColor != [3]float32{0, 1, 0} {
		t.Errorf("back color = %v", cfg.Derived.BackColor)
	}
}

func TestLoadMergesTierFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	data := []byte("quality:\n  tiers:\n    high:\n      sim_resolution: 64\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := TierConfig{
		SimResolution: 64, DyeResolution: 1024, PressureIterations: 20, BloomIterations: 8, Sunrays: true,
	}
	if got := cfg.Quality.Tiers[TierHigh]; got != want {
		t.Errorf("high = %+v, want %+v", got, want)
	}
	if got := cfg.Quality.Tiers[TierLow].SimResolution; got != 64 {
		t.Errorf("low sim = %d, want default 64", got)
	}
}
