package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// KeyAction is a one-shot key binding shown in the keys panel.
type KeyAction struct {
	Key   string
	Label string
}

// LegendRow is one line of the keys panel. Header rows have no key.
type LegendRow struct {
	Header  bool
	Text    string
	Key     string
	Enabled bool
	Toggle  bool
}

// LegendRows lists the overlay toggles grouped by category, then the actions.
func LegendRows(overlays *OverlayRegistry, actions []KeyAction) []LegendRow {
	var rows []LegendRow
	for _, cat := range overlays.Categories() {
		rows = append(rows, LegendRow{Header: true, Text: categoryTitle(cat)})
		for _, d := range overlays.ByCategory(cat) {
			rows = append(rows, LegendRow{
				Text:    d.Name,
				Key:     d.KeyLabel,
				Enabled: overlays.IsEnabled(d.ID),
				Toggle:  true,
			})
		}
	}
	if len(actions) > 0 {
		rows = append(rows, LegendRow{Header: true, Text: "Actions"})
		for _, a := range actions {
			rows = append(rows, LegendRow{Text: a.Label, Key: a.Key})
		}
	}
	return rows
}

func categoryTitle(cat string) string {
	switch cat {
	case "panels":
		return "Panels"
	case "fields":
		return "Field view"
	}
	return cat
}

// KeysPanel shows every key binding and the state of each overlay.
type KeysPanel struct {
	renderer *Renderer
	actions  []KeyAction
	x, y     int32
	width    int32
	visible  bool
}

// NewKeysPanel creates a hidden keys panel.
func NewKeysPanel(x, y, width int32, actions []KeyAction) *KeysPanel {
	return &KeysPanel{renderer: NewRenderer(), actions: actions, x: x, y: y, width: width}
}

// Toggle flips visibility and returns the new state.
func (k *KeysPanel) Toggle() bool {
	k.visible = !k.visible
	return k.visible
}

// IsVisible reports whether the panel is drawn.
func (k *KeysPanel) IsVisible() bool { return k.visible }

// Draw renders the panel and returns the y just below it.
func (k *KeysPanel) Draw(overlays *OverlayRegistry) int32 {
	if !k.visible {
		return k.y
	}
	r := k.renderer
	th := r.Theme
	rows := LegendRows(overlays, k.actions)

	r.DrawPanel(k.x, k.y, k.width, int32(len(rows))*th.LineHeight+th.Padding*2)

	x, y := k.x+th.Padding, k.y+th.Padding
	inner := k.width - th.Padding*2
	dim := rl.Color{R: 150, G: 150, B: 150, A: 255}
	for _, row := range rows {
		if row.Header {
			rl.DrawText(row.Text, x, y, th.HeaderFontSize, th.SectionHeader)
			y += th.LineHeight
			continue
		}

		textX, color := x, th.LabelColor
		if row.Toggle {
			mark := rl.Color{R: 80, G: 80, B: 80, A: 255}
			if row.Enabled {
				mark, color = rl.Color{R: 100, G: 200, B: 100, A: 255}, rl.White
			}
			rl.DrawRectangle(x, y+2, 8, 8, mark)
			textX += 14
		}
		rl.DrawText(row.Text, textX, y, th.FontSize, color)

		key := fmt.Sprintf("[%s]", row.Key)
		rl.DrawText(key, x+inner-rl.MeasureText(key, th.FontSize), y, th.FontSize, dim)
		y += th.LineHeight
	}
	return y + th.Padding
}
