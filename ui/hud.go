package ui

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluidbg/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Tier     string
	FPS      float64
	Frame    int
	Pointers int
	SimW     int
	SimH     int
	DyeW     int
	DyeH     int
	Paused   bool
	Backend  string
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText("fluidbg", 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Tier: %s | FPS: %.0f | Frame: %d | Pointers: %d", data.Tier, data.FPS, data.Frame, data.Pointers),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Velocity: %dx%d | Dye: %dx%d | %s", data.SimW, data.SimH, data.DyeW, data.DyeH, data.Backend),
		10, 55, 16, rl.LightGray,
	)
	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PhaseRow is one line of the pass timing panel.
type PhaseRow struct {
	Name string
	Avg  time.Duration
	Pct  float64
}

// PhaseRows returns up to n phases with recorded time, slowest first.
func PhaseRows(stats telemetry.PerfStats, n int) []PhaseRow {
	var rows []PhaseRow
	for _, name := range telemetry.Phases {
		avg, ok := stats.PhaseAvg[name]
		if !ok || avg <= 0 {
			continue
		}
		rows = append(rows, PhaseRow{Name: name, Avg: avg, Pct: stats.PhasePct[name]})
	}
	slices.SortStableFunc(rows, func(a, b PhaseRow) int {
		return cmp.Compare(b.Avg, a.Avg)
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// PerfPanel renders the pass timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	rows := PhaseRows(stats, 12)
	th := p.renderer.Theme
	height := th.Padding*2 + 36 + int32(len(rows))*14
	p.renderer.DrawPanel(p.x, p.y, 260, height)

	x := p.x + th.Padding
	y := p.y + th.Padding
	rl.DrawText("Pass Timing", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Frame: %s (%.0f fps)", stats.AvgTickDuration.Round(time.Microsecond), stats.FPS), x, y, 14, rl.Yellow)
	y += 16

	for _, row := range rows {
		color := rl.LightGray
		if row.Pct > 20 {
			color = rl.Red
		} else if row.Pct > 10 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-16s %8s %5.1f%%", row.Name, row.Avg.Round(time.Microsecond), row.Pct),
			x, y, 12, color,
		)
		y += 14
	}
}
