package fluid

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/fluidbg/config"
)

// Drift is the outcome of a completed measurement window.
type Drift int

const (
	DriftNone Drift = iota
	DriftDown
	DriftUp
)

func (d Drift) String() string {
	switch d {
	case DriftDown:
		return "down"
	case DriftUp:
		return "up"
	default:
		return "none"
	}
}

// QualityChange records a runtime tier change.
type QualityChange struct {
	Frame  int
	From   string
	To     string
	Reason string
	FPS    float64
	StdDev float64 // Frame time standard deviation, milliseconds
}

// DriftMonitor watches frame durations over fixed windows and reports when
// the frame rate has drifted far enough to change tier.
type DriftMonitor struct {
	enabled        bool
	windowFrames   int
	downFPS        float64
	upFPS          float64
	upgradeWindows int
	cooldown       float64

	samples     []float64
	goodWindows int
	sinceChange float64

	lastFPS    float64
	lastStdDev float64
}

// NewDriftMonitor creates a monitor from the quality section of the config.
func NewDriftMonitor(q config.QualityConfig) *DriftMonitor {
	window := q.WindowFrames
	if window < 2 {
		window = 2
	}
	up := q.UpgradeWindows
	if up < 1 {
		up = 1
	}
	return &DriftMonitor{
		enabled:        q.Adaptive,
		windowFrames:   window,
		downFPS:        q.DowngradeFPS,
		upFPS:          q.UpgradeFPS,
		upgradeWindows: up,
		cooldown:       q.CooldownSeconds,
		samples:        make([]float64, 0, window),
		sinceChange:    q.CooldownSeconds,
	}
}

// Observe records one frame duration in seconds. At the end of each window
// it returns the drift direction, if any.
func (m *DriftMonitor) Observe(frameSeconds float64) Drift {
	if frameSeconds <= 0 {
		return DriftNone
	}
	m.sinceChange += frameSeconds
	m.samples = append(m.samples, frameSeconds)
	if len(m.samples) < m.windowFrames {
		return DriftNone
	}

	mean, std := stat.MeanStdDev(m.samples, nil)
	m.samples = m.samples[:0]
	m.lastFPS = 1 / mean
	m.lastStdDev = std * 1000

	if !m.enabled || m.sinceChange < m.cooldown {
		return DriftNone
	}

	switch {
	case m.lastFPS < m.downFPS:
		m.goodWindows = 0
		return DriftDown
	case m.lastFPS > m.upFPS:
		m.goodWindows++
		if m.goodWindows >= m.upgradeWindows {
			m.goodWindows = 0
			return DriftUp
		}
	default:
		m.goodWindows = 0
	}
	return DriftNone
}

// Changed restarts the cooldown after the tier was switched.
func (m *DriftMonitor) Changed() {
	m.sinceChange = 0
	m.goodWindows = 0
	m.samples = m.samples[:0]
}

// FPS returns the mean frame rate of the last completed window, or of the
// samples so far if no window has completed yet.
func (m *DriftMonitor) FPS() float64 {
	if m.lastFPS > 0 {
		return m.lastFPS
	}
	if len(m.samples) == 0 {
		return 0
	}
	return 1 / stat.Mean(m.samples, nil)
}

// StdDev returns the frame time standard deviation of the last window in ms.
func (m *DriftMonitor) StdDev() float64 { return m.lastStdDev }
