package ui

import (
	"testing"
	"time"

	"github.com/pthm-cable/fluidbg/config"
	"github.com/pthm-cable/fluidbg/telemetry"
)

func TestPhaseRows(t *testing.T) {
	stats := telemetry.PerfStats{
		PhaseAvg: map[string]time.Duration{
			telemetry.PhasePressure: 3 * time.Millisecond,
			telemetry.PhaseCurl:     time.Millisecond,
			telemetry.PhaseDisplay:  2 * time.Millisecond,
			telemetry.PhaseBloom:    0,
		},
		PhasePct: map[string]float64{telemetry.PhasePressure: 50},
	}

	rows := PhaseRows(stats, 0)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3 (zero phases dropped)", len(rows))
	}
	want := []string{telemetry.PhasePressure, telemetry.PhaseDisplay, telemetry.PhaseCurl}
	for i, name := range want {
		if rows[i].Name != name {
			t.Errorf("row %d = %s, want %s", i, rows[i].Name, name)
		}
	}
	if rows[0].Pct != 50 {
		t.Errorf("pressure pct = %v, want 50", rows[0].Pct)
	}

	if got := PhaseRows(stats, 2); len(got) != 2 {
		t.Errorf("capped rows = %d, want 2", len(got))
	}
}

func TestFieldRangeNormalize(t *testing.T) {
	tests := []struct {
		rng  FieldRange
		v    float32
		want float32
	}{
		{DefaultRange(), 0.5, 0.5},
		{FieldRange{Min: -30, Max: 30}, 0, 0.5},
		{FieldRange{Max: 60}, 90, 1},
		{FieldRange{Max: 60}, -1, 0},
		{FieldRange{}, 1, 0},
	}
	for _, tt := range tests {
		if got := tt.rng.Normalize(tt.v); got != tt.want {
			t.Errorf("%+v.Normalize(%v) = %v, want %v", tt.rng, tt.v, got, tt.want)
		}
	}
}

func TestQualitySectionsHeight(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	data := &QualityData{
		Quality: cfg.QualityFor(config.TierHigh, config.DeviceInfo{FloatTextures: true, LinearFiltering: true}, "test"),
		TopTier: config.TierHigh,
		Format:  "rgba16f",
	}
	th := DefaultTheme()

	drift := QualitySections[2]
	if h := th.SectionHeight(drift, data); h != 0 {
		t.Errorf("drift section height = %d before any fps sample, want 0", h)
	}

	data.FPS = 55
	want := th.LineHeight + 3*(th.LineHeight+2) + th.LineHeight + 4
	if h := th.SectionHeight(drift, data); h != want {
		t.Errorf("drift section height = %d, want %d", h, want)
	}

	// Every getter must accept QualityData
	for _, sd := range QualitySections {
		for _, fd := range sd.Fields {
			if fd.Getter != nil {
				fd.Getter(data)
			}
			if fd.TextGetter != nil && fd.TextGetter(data) == "" {
				t.Errorf("%s: empty text", fd.Label)
			}
			if fd.ColorGetter != nil {
				fd.ColorGetter(data)
			}
		}
	}
}
