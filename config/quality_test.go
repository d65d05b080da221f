package config

import "testing"

func desktop() DeviceInfo {
	return DeviceInfo{GLVersion: 33, FloatTextures: true, LinearFiltering: true, MaxTextureSize: 16384}
}

func TestSelectQualityAuto(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dev  DeviceInfo
		want string
	}{
		{"desktop gl33", desktop(), TierHigh},
		{"mobile", DeviceInfo{Mobile: true, GLES: true, GLVersion: 30, FloatTextures: true, LinearFiltering: true}, TierMedium},
		{"old gl21", DeviceInfo{GLVersion: 21, FloatTextures: true, LinearFiltering: true}, TierMedium},
		{"no float", DeviceInfo{GLVersion: 20, GLES: true, LinearFiltering: true}, TierLow},
		{"no linear", DeviceInfo{GLVersion: 33, FloatTextures: true}, TierLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := cfg.SelectQuality(tt.dev, "")
			if q.Tier != tt.want {
				t.Errorf("tier = %s, want %s", q.Tier, tt.want)
			}
			if q.Reason != "auto" {
				t.Errorf("reason = %s, want auto", q.Reason)
			}
		})
	}
}

func TestSelectQualityOverride(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	q := cfg.SelectQuality(desktop(), "ULTRA")
	if q.Tier != TierUltra || q.Reason != "override" {
		t.Errorf("got %s (%s), want ultra override", q.Tier, q.Reason)
	}
	if q.Settings.DyeResolution != 2048 {
		t.Errorf("ultra dye = %d, want 2048", q.Settings.DyeResolution)
	}

	// Unknown override falls through to auto
	q = cfg.SelectQuality(desktop(), "potato")
	if q.Tier != TierHigh {
		t.Errorf("unknown override picked %s, want high", q.Tier)
	}

	cfg.Quality.Tier = TierLow
	q = cfg.SelectQuality(desktop(), "")
	if q.Tier != TierLow || q.Reason != "configured" {
		t.Errorf("configured tier gave %s (%s)", q.Tier, q.Reason)
	}
}

func TestQualityForDowngrades(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	q := cfg.QualityFor(TierUltra, DeviceInfo{GLVersion: 33, FloatTextures: true}, "test")
	s := q.Settings
	if !s.ManualFiltering {
		t.Error("expected manual filtering without linear filtering")
	}
	if s.DyeResolution != 512 {
		t.Errorf("dye = %d, want 512 cap", s.DyeResolution)
	}
	if s.Shading || s.Bloom || s.Sunrays {
		t.Errorf("expected shading/bloom/sunrays off, got %+v", s)
	}

	q = cfg.QualityFor(TierUltra, DeviceInfo{GLVersion: 33, FloatTextures: true, LinearFiltering: true, MaxTextureSize: 1024}, "test")
	if q.Settings.DyeResolution != 1024 {
		t.Errorf("dye = %d, want clamp to max texture size 1024", q.Settings.DyeResolution)
	}

	q = cfg.QualityFor(TierLow, desktop(), "test")
	if q.Settings.Sunrays {
		t.Error("low tier should disable sunrays")
	}
}

func TestTierStepping(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if below, ok := cfg.TierBelow(TierHigh); !ok || below != TierMedium {
		t.Errorf("TierBelow(high) = %s,%v", below, ok)
	}
	if _, ok := cfg.TierBelow(TierLow); ok {
		t.Error("TierBelow(low) should be false")
	}
	if above, ok := cfg.TierAbove(TierHigh); !ok || above != TierUltra {
		t.Errorf("TierAbove(high) = %s,%v", above, ok)
	}
	if _, ok := cfg.TierAbove(TierUltra); ok {
		t.Error("TierAbove(ultra) should be false")
	}
}

func TestNearestTierWithSparseTable(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	delete(cfg.Quality.Tiers, TierHigh)
	cfg.computeDerived()

	q := cfg.SelectQuality(desktop(), "")
	if q.Tier != TierMedium {
		t.Errorf("tier = %s, want medium when high is missing", q.Tier)
	}
}
