package inspector

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow  = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorBoolOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// DrawLabel renders "name: value".
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 14, ColorText)
	return 18
}

// DrawBar renders a horizontal bar over the field's min/max range. Signed
// ranges fill from the zero point.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	const barWidth, barHeight = int32(120), int32(12)

	rl.DrawText(name, x, y, 14, ColorTextDim)
	barX := x + 70
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)

	ratio := Ratio(value, options)
	zero := Ratio(0, options)
	from, to := zero, ratio
	if to < from {
		from, to = to, from
	}
	fill := ColorBarFill
	if ratio < 0.3 && zero == 0 {
		fill = ColorBarLow
	}
	rl.DrawRectangle(barX+int32(float32(barWidth)*from), y, int32(float32(barWidth)*(to-from)), barHeight, fill)

	rl.DrawText(FormatValue(value, options["fmt"]), barX+barWidth+5, y, 14, ColorTextDim)
	return 16
}

// DrawBarGroup renders one mini-bar per element.
func DrawBarGroup(x, y int32, name string, values []float32, options map[string]string) int32 {
	const barWidth, barHeight, gap = int32(14), int32(24), int32(2)

	rl.DrawText(name, x, y, 14, ColorTextDim)
	barX := x + 70
	for i, v := range values {
		ratio := Ratio(v, options)
		bx := barX + int32(i)*(barWidth+gap)
		rl.DrawRectangle(bx, y, barWidth, barHeight, ColorBarBg)
		h := int32(float32(barHeight) * ratio)
		rl.DrawRectangle(bx, y+barHeight-h, barWidth, h, lerpColor(ColorBarLow, ColorBarFill, ratio))
	}

	if labels := parseLabels(options, len(values)); labels != nil {
		for i, label := range labels {
			lx := barX + int32(i)*(barWidth+gap) + barWidth/2
			w := rl.MeasureText(label, 8)
			rl.DrawText(label, lx-w/2, y+barHeight+2, 8, ColorTextDim)
		}
		return barHeight + 14
	}
	return barHeight + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	color, text := ColorBoolOff, "OFF"
	if value {
		color, text = ColorBoolOn, "ON"
	}
	rl.DrawRectangle(x+70, y, 12, 12, color)
	rl.DrawText(text, x+87, y, 14, color)
	return 16
}

// DrawSwatch renders a color sample. values are linear RGB scaled by the
// max option.
func DrawSwatch(x, y int32, name string, values []float32, options map[string]string) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	c := rl.Color{A: 255}
	ch := []*uint8{&c.R, &c.G, &c.B}
	for i := 0; i < len(values) && i < 3; i++ {
		*ch[i] = uint8(255 * Ratio(values[i], options))
	}
	rl.DrawRectangle(x+70, y, 40, 12, c)
	rl.DrawRectangleLines(x+70, y, 40, 12, ColorTextDim)
	return 16
}

// DrawField renders a field using its widget type.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if values, ok := GetFloatSlice(field.Value); ok {
			return DrawBarGroup(x, y, field.Name, values, field.Options)
		}
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}
	case WidgetSwatch:
		if values, ok := GetFloatSlice(field.Value); ok {
			return DrawSwatch(x, y, field.Name, values, field.Options)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

func parseLabels(options map[string]string, count int) []string {
	raw, ok := options["labels"]
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	if len(parts) != count {
		return nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
