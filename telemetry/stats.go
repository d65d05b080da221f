package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FieldStats summarizes the simulation fields at a frame.
type FieldStats struct {
	Frame   int32   `csv:"frame"`
	SimTime float64 `csv:"sim_time"`
	Tier    string  `csv:"tier"`

	// Dye brightness, max(r,g,b) per texel
	DyeMean float64 `csv:"dye_mean"`
	DyeP50  float64 `csv:"dye_p50"`
	DyeP90  float64 `csv:"dye_p90"`
	DyeMax  float64 `csv:"dye_max"`

	// Velocity magnitude in texels/second
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Residual divergence after projection
	DivergenceRMS float64 `csv:"divergence_rms"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution returns mean, standard deviation, p50, p90 and max of values.
func Distribution(values []float64) (mean, std, p50, p90, max float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, std, Percentile(sorted, 0.5), Percentile(sorted, 0.9), sorted[len(sorted)-1]
}

// ComputeFieldStats builds FieldStats from per-texel samples.
func ComputeFieldStats(frame int32, simTime float64, tier string, dye, speed, divergence []float64) FieldStats {
	fs := FieldStats{Frame: frame, SimTime: simTime, Tier: tier}
	fs.DyeMean, _, fs.DyeP50, fs.DyeP90, fs.DyeMax = Distribution(dye)
	fs.SpeedMean, fs.SpeedStd, _, fs.SpeedP90, fs.SpeedMax = Distribution(speed)

	if len(divergence) > 0 {
		var sq float64
		for _, d := range divergence {
			sq += d * d
		}
		fs.DivergenceRMS = math.Sqrt(sq / float64(len(divergence)))
	}
	return fs
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frame", int(s.Frame)),
		slog.Float64("sim_time", s.SimTime),
		slog.String("tier", s.Tier),
		slog.Float64("dye_mean", s.DyeMean),
		slog.Float64("dye_p90", s.DyeP90),
		slog.Float64("dye_max", s.DyeMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("divergence_rms", s.DivergenceRMS),
	)
}
