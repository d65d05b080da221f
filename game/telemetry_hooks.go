package game

import (
	"log/slog"

	"github.com/pthm-cable/fluidbg/fluid"
	"github.com/pthm-cable/fluidbg/systems"
	"github.com/pthm-cable/fluidbg/telemetry"
)

// afterFrame runs the telemetry hooks for a processed frame.
func (g *Game) afterFrame(frameSeconds float64) {
	g.sinceFlush += frameSeconds
	if interval := g.cfg.Telemetry.LogIntervalSecs; interval > 0 && g.sinceFlush >= interval {
		g.sinceFlush = 0
		g.flushTelemetry()
	}

	frame := g.sim.Frames()
	if g.snapshotEvery > 0 && frame%g.snapshotEvery == 0 {
		g.wantSnapshot = true
	}
	if g.wantSnapshot {
		g.wantSnapshot = false
		g.saveSnapshot()
	}
}

// flushTelemetry logs and writes pass timing plus, on the CPU backend,
// field statistics.
func (g *Game) flushTelemetry() {
	frame := int32(g.sim.Frames())
	tier := g.sim.Quality().Tier
	perfStats := g.perf.Stats()

	if g.logPerf {
		perfStats.LogStats()
	}
	if err := g.output.WritePerf(perfStats, frame, tier); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	fs, ok := g.fieldStats()
	if !ok {
		return
	}
	if g.logPerf {
		slog.Info("fields", "stats", fs)
	}
	if err := g.output.WriteFields(fs); err != nil {
		slog.Error("failed to write fields", "error", err)
	}
}

// fieldStats samples the fields. Only the CPU backend can read them back
// without quantizing.
func (g *Game) fieldStats() (telemetry.FieldStats, bool) {
	if g.cpu == nil {
		return telemetry.FieldStats{}, false
	}
	r := g.sim.Resources()
	if r.Released() || r.Dye == nil {
		return telemetry.FieldStats{}, false
	}
	return telemetry.ComputeFieldStats(
		int32(g.sim.Frames()),
		g.sim.SimTime(),
		g.sim.Quality().Tier,
		systems.Brightness(r.Dye.Read()),
		systems.Magnitude(r.Velocity.Read()),
		systems.Channel(r.Divergence, 0),
	), true
}

// saveSnapshot writes the current composite and its metadata.
func (g *Game) saveSnapshot() {
	if g.snapshotDir == "" {
		return
	}
	src, ok := g.backend.(snapshotter)
	if !ok {
		return
	}

	snap := &telemetry.Snapshot{
		Seed:  g.seed,
		Frame: int32(g.sim.Frames()),
		Tier:  g.sim.Quality().Tier,
	}
	if fs, ok := g.fieldStats(); ok {
		snap.Stats = &fs
	}
	path, err := telemetry.SaveSnapshot(snap, src.Snapshot(), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "frame", snap.Frame)
}

// onQualityChange records runtime tier changes.
func (g *Game) onQualityChange(c fluid.QualityChange) {
	rec := telemetry.QualityRecord{
		Frame:  c.Frame,
		From:   c.From,
		To:     c.To,
		Reason: c.Reason,
		FPS:    c.FPS,
		StdDev: c.StdDev,
	}
	if err := g.output.WriteQuality(rec); err != nil {
		slog.Error("failed to write quality", "error", err)
	}
}
