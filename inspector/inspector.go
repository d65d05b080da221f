package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluidbg/components"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 26
	sectionGap   = 6
	maxSections  = 6
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 230}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Section is one titled group of fields.
type Section struct {
	Title  string
	Fields []Field
}

// Height returns the drawn height of the section in pixels.
func (s Section) Height() int32 {
	h := int32(20)
	for _, f := range s.Fields {
		h += fieldHeight(f)
	}
	return h
}

func fieldHeight(f Field) int32 {
	if f.Widget == WidgetBar {
		if _, ok := GetFloatSlice(f.Value); ok {
			return 28
		}
		return 16
	}
	return 18
}

// PointerSections builds one section per pointer and auto-splatter, capped
// so the panel stays on screen. Pressed pointers come first.
func PointerSections(pointers []components.Pointer, autos []components.AutoSplatter) []Section {
	var out []Section
	add := func(title string, v any) {
		if len(out) < maxSections {
			out = append(out, Section{Title: title, Fields: ExtractFields(v)})
		}
	}
	for _, pass := range []bool{true, false} {
		for i := range pointers {
			p := &pointers[i]
			if p.Down != pass {
				continue
			}
			add(pointerTitle(p), p)
		}
	}
	for i := range autos {
		add(fmt.Sprintf("auto #%d", i), &autos[i])
	}
	return out
}

func pointerTitle(p *components.Pointer) string {
	if p.ID < 0 {
		return "mouse"
	}
	return fmt.Sprintf("touch %d", p.ID)
}

// Inspector draws the pointer panel anchored to the right screen edge.
type Inspector struct {
	visible  bool
	panelX   int32
	panelY   int32
	sections []Section
}

// NewInspector creates a hidden inspector for a screen of the given width.
func NewInspector(screenWidth int32) *Inspector {
	ins := &Inspector{panelY: 10}
	ins.Resize(screenWidth)
	return ins
}

// Resize re-anchors the panel.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

// SetVisible shows or hides the panel.
func (ins *Inspector) SetVisible(v bool) { ins.visible = v }

// Visible reports whether the panel is drawn.
func (ins *Inspector) Visible() bool { return ins.visible }

// Update caches the sections to draw this frame.
func (ins *Inspector) Update(pointers []components.Pointer, autos []components.AutoSplatter) {
	if !ins.visible {
		return
	}
	ins.sections = PointerSections(pointers, autos)
}

// Draw renders the panel if visible.
func (ins *Inspector) Draw() {
	if !ins.visible {
		return
	}

	height := int32(HeaderHeight + PanelPadding)
	for _, s := range ins.sections {
		height += s.Height() + sectionGap
	}
	if len(ins.sections) == 0 {
		height += 20
	}

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(rl.Rectangle{
		X: float32(ins.panelX), Y: float32(ins.panelY),
		Width: PanelWidth, Height: float32(height),
	}, 1, ColorPanelBorder)
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("Pointers (%d)", len(ins.sections)), ins.panelX+PanelPadding, ins.panelY+6, 16, ColorHeaderText)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding/2
	if len(ins.sections) == 0 {
		rl.DrawText("no pointers", x, y, 14, ColorTextDim)
		return
	}
	for _, s := range ins.sections {
		rl.DrawRectangle(ins.panelX+4, y, PanelWidth-8, 18, ColorSection)
		rl.DrawText(s.Title, x, y+2, 14, ColorSectionText)
		y += 20
		for _, f := range s.Fields {
			y += DrawField(x, y, f)
		}
		y += sectionGap
	}
}
