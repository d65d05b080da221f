package fluid

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/fluidbg/config"
	"github.com/pthm-cable/fluidbg/telemetry"
)

// surfaceSizer is implemented by backends whose surface is sized by the
// host rather than by a window.
type surfaceSizer interface {
	SetSurfaceSize(w, h int)
}

// Start begins driving frames and queues the opening burst of splats.
func (s *Simulation) Start() {
	if s.running {
		return
	}
	s.running = true
	s.last = time.Time{}
	s.QueueRandomBurst()
	Logger().Info("fluid started", slog.String("tier", s.quality.Tier))
}

// Stop halts frame processing. Fields keep their content, so Start resumes.
func (s *Simulation) Stop() {
	if !s.running {
		return
	}
	s.running = false
	Logger().Info("fluid stopped", slog.Int("frames", s.frame))
}

// Running reports whether frames are being processed.
func (s *Simulation) Running() bool { return s.running }

// Close stops the simulation and releases every backend target.
func (s *Simulation) Close() {
	s.Stop()
	s.res.Release()
}

// SetHidden tells the driver whether the host surface is hidden.
func (s *Simulation) SetHidden(hidden bool) { s.hidden = hidden }

// Resize sets the surface size in pixels and reallocates the fields when it
// changed.
func (s *Simulation) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if ss, ok := s.backend.(surfaceSizer); ok {
		ss.SetSurfaceSize(w, h)
	}
	s.checkResize()
}

// checkResize picks up the backend's surface size.
func (s *Simulation) checkResize() bool {
	w, h := s.backend.SurfaceSize()
	if w <= 0 || h <= 0 || !s.vp.Resize(float32(w), float32(h)) {
		return false
	}
	if err := s.initResources(); err != nil {
		Logger().Warn("fluid resize failed", slog.Int("w", w), slog.Int("h", h), slog.Any("error", err))
		return false
	}
	return true
}

// deltaTime returns the raw seconds since the last frame and the capped
// step size.
func (s *Simulation) deltaTime(now time.Time) (raw float64, dt float32) {
	if !s.last.IsZero() {
		raw = now.Sub(s.last).Seconds()
	}
	s.last = now
	if raw < 0 {
		raw = 0
	}
	dt = float32(min(raw, s.cfg.Driver.MaxDT))
	return raw, dt
}

// Frame runs one frame at time now: input, step, render. It returns false
// when the frame was skipped.
func (s *Simulation) Frame(now time.Time) bool {
	if !s.running || s.res.Released() {
		return false
	}
	if s.hidden && s.cfg.Driver.PauseWhenHidden {
		// First visible frame starts from a zero dt
		s.last = time.Time{}
		return false
	}

	raw, dt := s.deltaTime(now)
	s.frame++

	s.perf.StartTick()
	s.checkResize()

	s.perf.StartPhase(telemetry.PhaseInputs)
	s.UpdateColors(dt)
	s.updateAutoSplat(dt)
	s.ApplyInputs()

	if !s.cfg.Render.Paused {
		s.pendingDT += dt
		if s.throttled() {
			s.oddFrame = !s.oddFrame
		} else {
			s.oddFrame = false
		}
		if !s.oddFrame {
			step := min(s.pendingDT, float32(s.cfg.Driver.MaxDT))
			s.Step(step)
			s.simTime += float64(step)
			s.pendingDT = 0
		} else {
			Logger().Debug("fluid step throttled", slog.Int("frame", s.frame))
		}
	}

	s.Render(nil)
	s.perf.EndTick()

	s.observe(raw)
	return true
}

// throttled reports whether the measured frame rate is below the throttle
// threshold.
func (s *Simulation) throttled() bool {
	limit := s.cfg.Driver.ThrottleFPS
	if limit <= 0 {
		return false
	}
	fps := s.drift.FPS()
	return fps > 0 && fps < limit
}

// FPS returns the measured frame rate.
func (s *Simulation) FPS() float64 { return s.drift.FPS() }

// FrameStdDev returns the frame time jitter of the last drift window in ms.
func (s *Simulation) FrameStdDev() float64 { return s.drift.StdDev() }

// Frames returns the number of frames processed.
func (s *Simulation) Frames() int { return s.frame }

// SimTime returns the seconds of simulated time stepped so far.
func (s *Simulation) SimTime() float64 { return s.simTime }

// TopTier returns the tier runtime upgrades are capped at.
func (s *Simulation) TopTier() string { return s.topTier }

// observe feeds the drift monitor and switches tier when it asks.
func (s *Simulation) observe(frameSeconds float64) {
	var next string
	var ok bool
	switch s.drift.Observe(frameSeconds) {
	case DriftDown:
		next, ok = s.cfg.TierBelow(s.quality.Tier)
	case DriftUp:
		next, ok = s.cfg.TierAbove(s.quality.Tier)
		ok = ok && config.TierRank(next) <= config.TierRank(s.topTier)
	}
	if !ok {
		return
	}
	s.SetTier(next, "drift")
}

// SetTier switches to a named tier and reallocates the fields.
func (s *Simulation) SetTier(tier, reason string) {
	if _, ok := s.cfg.Quality.Tiers[tier]; !ok || tier == s.quality.Tier {
		return
	}
	from := s.quality.Tier
	prev := s.quality
	s.quality = s.cfg.QualityFor(tier, s.device, reason)
	if err := s.initResources(); err != nil {
		Logger().Warn("fluid tier change failed", slog.String("to", tier), slog.Any("error", err))
		s.quality = prev
		if err := s.initResources(); err != nil {
			Logger().Warn("fluid tier restore failed", slog.Any("error", err))
		}
		return
	}
	s.drift.Changed()

	change := QualityChange{
		Frame:  s.frame,
		From:   from,
		To:     tier,
		Reason: reason,
		FPS:    s.drift.FPS(),
		StdDev: s.drift.StdDev(),
	}
	Logger().Info("fluid quality changed",
		slog.String("from", from),
		slog.String("to", tier),
		slog.String("reason", reason),
		slog.Float64("fps", change.FPS),
	)
	if s.onQuality != nil {
		s.onQuality(change)
	}
}
