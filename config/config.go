// Package config provides configuration loading and access for the fluid background.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Sim       SimConfig       `yaml:"sim"`
	Render    RenderConfig    `yaml:"render"`
	Bloom     BloomConfig     `yaml:"bloom"`
	Sunrays   SunraysConfig   `yaml:"sunrays"`
	Quality   QualityConfig   `yaml:"quality"`
	Driver    DriverConfig    `yaml:"driver"`
	AutoSplat AutoSplatConfig `yaml:"auto_splat"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	TargetFPS int  `yaml:"target_fps"`
	Resizable bool `yaml:"resizable"`
}

// SimConfig holds the solver parameters.
type SimConfig struct {
	SimResolution       int     `yaml:"sim_resolution"`       // Short side of the velocity grid
	DyeResolution       int     `yaml:"dye_resolution"`       // Short side of the dye texture
	DensityDissipation  float64 `yaml:"density_dissipation"`  // Dye fade rate
	VelocityDissipation float64 `yaml:"velocity_dissipation"` // Velocity fade rate
	Pressure            float64 `yaml:"pressure"`             // Pressure carried between frames (0-1)
	PressureIterations  int     `yaml:"pressure_iterations"`  // Jacobi iterations per step
	Curl                float64 `yaml:"curl"`                 // Vorticity confinement strength
	SplatRadius         float64 `yaml:"splat_radius"`         // Percent of the surface
	SplatForce          float64 `yaml:"splat_force"`          // Pointer delta multiplier
}

// RenderConfig holds compositing parameters.
type RenderConfig struct {
	Shading          bool    `yaml:"shading"`
	Colorful         bool    `yaml:"colorful"`
	ColorUpdateSpeed float64 `yaml:"color_update_speed"`
	BackColor        [3]int  `yaml:"back_color"` // 0-255 RGB
	Transparent      bool    `yaml:"transparent"`
	Checkerboard     bool    `yaml:"checkerboard"`
	Paused           bool    `yaml:"paused"`
}

// BloomConfig holds bloom post-process parameters.
type BloomConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Iterations int     `yaml:"iterations"`
	Resolution int     `yaml:"resolution"`
	Intensity  float64 `yaml:"intensity"`
	Threshold  float64 `yaml:"threshold"`
	SoftKnee   float64 `yaml:"soft_knee"`
}

// SunraysConfig holds light-shaft parameters.
type SunraysConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Resolution int     `yaml:"resolution"`
	Weight     float64 `yaml:"weight"`
}

// QualityConfig holds tier selection and frame-rate drift parameters.
type QualityConfig struct {
	Tier            string                `yaml:"tier"`     // "auto" or a tier name
	Override        string                `yaml:"override"` // Forces a tier, wins over Tier
	Adaptive        bool                  `yaml:"adaptive"`
	DowngradeFPS    float64               `yaml:"downgrade_fps"`
	UpgradeFPS      float64               `yaml:"upgrade_fps"`
	WindowFrames    int                   `yaml:"window_frames"`
	UpgradeWindows  int                   `yaml:"upgrade_windows"`
	CooldownSeconds float64               `yaml:"cooldown_seconds"`
	Tiers           map[string]TierConfig `yaml:"tiers"`
}

// TierConfig describes one quality tier.
type TierConfig struct {
	SimResolution      int  `yaml:"sim_resolution"`
	DyeResolution      int  `yaml:"dye_resolution"`
	PressureIterations int  `yaml:"pressure_iterations"`
	BloomIterations    int  `yaml:"bloom_iterations"`
	Sunrays            bool `yaml:"sunrays"`
}

// DriverConfig holds frame driver parameters.
type DriverConfig struct {
	MaxDT            float64 `yaml:"max_dt"`            // Upper bound on a single step
	ThrottleFPS      float64 `yaml:"throttle_fps"`      // Below this, step every other frame
	PauseWhenHidden  bool    `yaml:"pause_when_hidden"` // Skip frames while minimized or hidden
	InitialSplatsMin int     `yaml:"initial_splats_min"`
	InitialSplatsMax int     `yaml:"initial_splats_max"`
}

// AutoSplatConfig holds idle auto-splat parameters.
type AutoSplatConfig struct {
	Enabled     bool    `yaml:"enabled"`
	IdleSeconds float64 `yaml:"idle_seconds"` // Pointer idle time before auto-splats start
	Interval    float64 `yaml:"interval"`     // Seconds between auto-splats
	Speed       float64 `yaml:"speed"`        // Noise walk speed
	Force       float64 `yaml:"force"`        // Velocity multiplier for auto-splats
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow      int     `yaml:"perf_window"`
	LogIntervalSecs float64 `yaml:"log_interval_secs"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	BackColor   [3]float32 // Render.BackColor normalized to 0-1
	SplatRadius float32    // Sim.SplatRadius / 100
	TierOrder   []string   // Tier names from lowest to highest
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Merge(cfg, data); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// Merge overlays YAML data onto cfg. Only fields present in data are overwritten.
// Tier entries merge field by field, so a user file can change one setting
// of a tier without zeroing the rest.
func Merge(cfg *Config, data []byte) error {
	base := make(map[string]TierConfig, len(cfg.Quality.Tiers))
	for k, v := range cfg.Quality.Tiers {
		base[k] = v
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	var user struct {
		Quality struct {
			Tiers map[string]yaml.Node `yaml:"tiers"`
		} `yaml:"quality"`
	}
	if err := yaml.Unmarshal(data, &user); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	for name, node := range user.Quality.Tiers {
		tc := base[name]
		if err := node.Decode(&tc); err != nil {
			return fmt.Errorf("parsing quality.tiers.%s: %w", name, err)
		}
		cfg.Quality.Tiers[name] = tc
	}
	return nil
}

// Validate rejects values the solver cannot run with.
func (c *Config) Validate() error {
	if c.Sim.SimResolution < 8 {
		return fmt.Errorf("sim.sim_resolution must be >= 8, got %d", c.Sim.SimResolution)
	}
	if c.Sim.DyeResolution < 8 {
		return fmt.Errorf("sim.dye_resolution must be >= 8, got %d", c.Sim.DyeResolution)
	}
	if c.Sim.PressureIterations < 0 {
		return fmt.Errorf("sim.pressure_iterations must be >= 0, got %d", c.Sim.PressureIterations)
	}
	if c.Sim.Pressure < 0 || c.Sim.Pressure > 1 {
		return fmt.Errorf("sim.pressure must be in [0,1], got %v", c.Sim.Pressure)
	}
	if c.Driver.MaxDT <= 0 {
		return fmt.Errorf("driver.max_dt must be > 0, got %v", c.Driver.MaxDT)
	}
	if name := c.Quality.Override; name != "" {
		if _, ok := c.Quality.Tiers[name]; !ok {
			return fmt.Errorf("quality.override names unknown tier %q", name)
		}
	}
	for name, tc := range c.Quality.Tiers {
		if tc.SimResolution < 8 || tc.DyeResolution < 8 {
			return fmt.Errorf("quality.tiers.%s resolutions must be >= 8, got sim=%d dye=%d",
				name, tc.SimResolution, tc.DyeResolution)
		}
		if tc.PressureIterations < 0 || tc.BloomIterations < 0 {
			return fmt.Errorf("quality.tiers.%s iterations must be >= 0", name)
		}
	}
	for _, ch := range c.Render.BackColor {
		if ch < 0 || ch > 255 {
			return fmt.Errorf("render.back_color channel out of range: %d", ch)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	for i, ch := range c.Render.BackColor {
		c.Derived.BackColor[i] = float32(ch) / 255.0
	}
	c.Derived.SplatRadius = float32(c.Sim.SplatRadius / 100.0)

	if c.Driver.InitialSplatsMax < c.Driver.InitialSplatsMin {
		c.Driver.InitialSplatsMax = c.Driver.InitialSplatsMin
	}

	c.Derived.TierOrder = c.Derived.TierOrder[:0]
	for _, name := range TierNames {
		if _, ok := c.Quality.Tiers[name]; ok {
			c.Derived.TierOrder = append(c.Derived.TierOrder, name)
		}
	}
}

// Refresh recomputes derived values after fields were edited in place.
func (c *Config) Refresh() { c.computeDerived() }

// Clone returns a deep copy, so a tuned config can diverge from the global one.
func (c *Config) Clone() *Config {
	out := *c
	out.Quality.Tiers = make(map[string]TierConfig, len(c.Quality.Tiers))
	for k, v := range c.Quality.Tiers {
		out.Quality.Tiers[k] = v
	}
	out.Derived.TierOrder = append([]string(nil), c.Derived.TierOrder...)
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
