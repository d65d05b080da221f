package config

import (
	"fmt"
	"strings"
)

// Tier names from lowest to highest cost.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
	TierUltra  = "ultra"
	TierAuto   = "auto"
)

// TierNames lists the known tiers in ascending order.
var TierNames = []string{TierLow, TierMedium, TierHigh, TierUltra}

// DeviceInfo describes what the rendering device can do.
// GLVersion is major*10+minor (33 for OpenGL 3.3, 20 for ES 2.0).
type DeviceInfo struct {
	Mobile          bool
	GLES            bool
	GLVersion       int
	FloatTextures   bool
	LinearFiltering bool
	MaxTextureSize  int
}

// SimSettings are the effective per-run settings after tier selection
// and capability downgrades.
type SimSettings struct {
	SimResolution      int
	DyeResolution      int
	PressureIterations int
	BloomIterations    int
	Bloom              bool
	Sunrays            bool
	Shading            bool
	ManualFiltering    bool
}

// Quality is a selected tier together with its effective settings.
type Quality struct {
	Tier     string
	Settings SimSettings
	Reason   string
}

// String implements fmt.Stringer.
func (q Quality) String() string {
	s := q.Settings
	return fmt.Sprintf("%s(sim=%d dye=%d iters=%d bloom=%v/%d sunrays=%v shading=%v)",
		q.Tier, s.SimResolution, s.DyeResolution, s.PressureIterations,
		s.Bloom, s.BloomIterations, s.Sunrays, s.Shading)
}

// SelectQuality chooses a tier for the device. A valid override wins, then an
// explicit quality.tier, then the automatic choice.
func (c *Config) SelectQuality(dev DeviceInfo, override string) Quality {
	override = strings.ToLower(strings.TrimSpace(override))
	if override == "" {
		override = c.Quality.Override
	}
	if _, ok := c.Quality.Tiers[override]; ok {
		return c.QualityFor(override, dev, "override")
	}
	if tier := strings.ToLower(c.Quality.Tier); tier != TierAuto {
		if _, ok := c.Quality.Tiers[tier]; ok {
			return c.QualityFor(tier, dev, "configured")
		}
	}
	return c.QualityFor(c.autoTier(dev), dev, "auto")
}

// autoTier maps device capabilities to a tier name present in the config.
func (c *Config) autoTier(dev DeviceInfo) string {
	want := TierHigh
	switch {
	case !dev.FloatTextures || !dev.LinearFiltering:
		want = TierLow
	case dev.Mobile || dev.GLES:
		want = TierMedium
	case dev.GLVersion > 0 && dev.GLVersion < 33:
		want = TierMedium
	}
	return c.nearestTier(want)
}

// nearestTier returns want if configured, otherwise the closest lower tier,
// otherwise the lowest configured tier.
func (c *Config) nearestTier(want string) string {
	order := c.tierOrder()
	if len(order) == 0 {
		return want
	}
	best := order[0]
	wantRank := tierRank(want)
	for _, name := range order {
		if tierRank(name) <= wantRank {
			best = name
		}
	}
	return best
}

// QualityFor builds the effective settings for a named tier on a device.
func (c *Config) QualityFor(tier string, dev DeviceInfo, reason string) Quality {
	tc, ok := c.Quality.Tiers[tier]
	s := SimSettings{
		SimResolution:      c.Sim.SimResolution,
		DyeResolution:      c.Sim.DyeResolution,
		PressureIterations: c.Sim.PressureIterations,
		BloomIterations:    c.Bloom.Iterations,
		Bloom:              c.Bloom.Enabled,
		Sunrays:            c.Sunrays.Enabled,
		Shading:            c.Render.Shading,
	}
	if ok {
		s.SimResolution = tc.SimResolution
		s.DyeResolution = tc.DyeResolution
		s.PressureIterations = tc.PressureIterations
		s.BloomIterations = tc.BloomIterations
		s.Sunrays = s.Sunrays && tc.Sunrays
	}

	if dev.Mobile && s.DyeResolution > 512 {
		s.DyeResolution = 512
	}
	if !dev.LinearFiltering {
		s.ManualFiltering = true
		if s.DyeResolution > 512 {
			s.DyeResolution = 512
		}
		s.Shading = false
		s.Bloom = false
		s.Sunrays = false
	}
	if dev.MaxTextureSize > 0 && s.DyeResolution > dev.MaxTextureSize {
		s.DyeResolution = dev.MaxTextureSize
	}

	return Quality{Tier: tier, Settings: s, Reason: reason}
}

// TierBelow returns the next lower configured tier, or false at the bottom.
func (c *Config) TierBelow(tier string) (string, bool) {
	order := c.tierOrder()
	for i, name := range order {
		if name == tier && i > 0 {
			return order[i-1], true
		}
	}
	return "", false
}

// TierAbove returns the next higher configured tier, or false at the top.
func (c *Config) TierAbove(tier string) (string, bool) {
	order := c.tierOrder()
	for i, name := range order {
		if name == tier && i < len(order)-1 {
			return order[i+1], true
		}
	}
	return "", false
}

// TierRank orders tiers; unknown names rank below low.
func TierRank(tier string) int { return tierRank(tier) }

func tierRank(tier string) int {
	for i, name := range TierNames {
		if name == tier {
			return i
		}
	}
	return -1
}

func (c *Config) tierOrder() []string {
	if len(c.Derived.TierOrder) > 0 {
		return c.Derived.TierOrder
	}
	var order []string
	for _, name := range TierNames {
		if _, ok := c.Quality.Tiers[name]; ok {
			order = append(order, name)
		}
	}
	return order
}
