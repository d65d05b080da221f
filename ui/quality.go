package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluidbg/config"
)

// QualityData is what the quality panel shows.
type QualityData struct {
	Quality      config.Quality
	TopTier      string
	Format       string
	FPS          float64
	FrameStdMs   float64
	DowngradeFPS float64
	UpgradeFPS   float64
	BackColor    [3]float32
}

func qd(data any) *QualityData { return data.(*QualityData) }

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// QualitySections describes the quality panel layout.
var QualitySections = []SectionDescriptor{
	{
		Title: "Tier",
		Fields: []FieldDescriptor{
			{Label: "Active", Widget: WidgetText, TextGetter: func(d any) string {
				return fmt.Sprintf("%s (%s)", qd(d).Quality.Tier, qd(d).Quality.Reason)
			}},
			{Label: "Ceiling", Widget: WidgetText, TextGetter: func(d any) string { return qd(d).TopTier }},
			{Label: "Format", Widget: WidgetText, TextGetter: func(d any) string { return qd(d).Format }},
		},
	},
	{
		Title: "Settings",
		Fields: []FieldDescriptor{
			{Label: "Sim res", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
				return float32(qd(d).Quality.Settings.SimResolution)
			}},
			{Label: "Dye res", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
				return float32(qd(d).Quality.Settings.DyeResolution)
			}},
			{Label: "Iterations", Widget: WidgetBar, Format: "%.0f", Range: FieldRange{Max: 50}, Getter: func(d any) float32 {
				return float32(qd(d).Quality.Settings.PressureIterations)
			}},
			{Label: "Bloom", Widget: WidgetText, TextGetter: func(d any) string {
				s := qd(d).Quality.Settings
				return fmt.Sprintf("%s x%d", onOff(s.Bloom), s.BloomIterations)
			}},
			{Label: "Sunrays", Widget: WidgetText, TextGetter: func(d any) string { return onOff(qd(d).Quality.Settings.Sunrays) }},
			{Label: "Shading", Widget: WidgetText, TextGetter: func(d any) string { return onOff(qd(d).Quality.Settings.Shading) }},
			{Label: "Filtering", Widget: WidgetText, TextGetter: func(d any) string {
				if qd(d).Quality.Settings.ManualFiltering {
					return "manual"
				}
				return "linear"
			}},
			{Label: "Background", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color {
				c := qd(d).BackColor
				return rl.Color{R: uint8(c[0] * 255), G: uint8(c[1] * 255), B: uint8(c[2] * 255), A: 255}
			}},
		},
	},
	{
		Title: "Drift",
		Fields: []FieldDescriptor{
			{Label: "FPS", Widget: WidgetBar, Format: "%.0f", Range: FieldRange{Max: 60}, Getter: func(d any) float32 {
				return float32(qd(d).FPS)
			}},
			{Label: "vs down", Widget: WidgetCenteredBar, Range: FieldRange{Min: -30, Max: 30}, Getter: func(d any) float32 {
				return float32(qd(d).FPS - qd(d).DowngradeFPS)
			}},
			{Label: "vs up", Widget: WidgetCenteredBar, Range: FieldRange{Min: -30, Max: 30}, Getter: func(d any) float32 {
				return float32(qd(d).FPS - qd(d).UpgradeFPS)
			}},
			{Label: "Jitter ms", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float32 {
				return float32(qd(d).FrameStdMs)
			}},
		},
		Visible: func(d any) bool { return qd(d).FPS > 0 },
	},
}

// QualityPanel renders the effective quality settings.
type QualityPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewQualityPanel creates a quality panel.
func NewQualityPanel(x, y, width int32) *QualityPanel {
	return &QualityPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (q *QualityPanel) SetPosition(x, y int32) {
	q.x = x
	q.y = y
}

// Draw renders the panel and returns the Y below it.
func (q *QualityPanel) Draw(data *QualityData) int32 {
	r := q.renderer
	pad := r.Theme.Padding
	height := pad * 2
	for _, sd := range QualitySections {
		height += r.Theme.SectionHeight(sd, data)
	}
	r.DrawPanel(q.x, q.y, q.width, height)

	y := q.y + pad
	for _, sd := range QualitySections {
		y = r.DrawSection(q.x+pad, y, sd, data, q.width-pad*2)
	}
	return q.y + height
}
