package inspector

import (
	"testing"

	"github.com/pthm-cable/fluidbg/components"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag    string
		widget Widget
		opts   map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar", WidgetBar, map[string]string{}},
		{"bar,min:-1, max:2", WidgetBar, map[string]string{"min": "-1", "max": "2"}},
		{"label,fmt:%.3v", WidgetLabel, map[string]string{"fmt": "%.3v"}},
		{"swatch", WidgetSwatch, map[string]string{}},
		{"skip", WidgetSkip, map[string]string{}},
		{"mystery", WidgetAuto, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			w, opts := ParseTag(tt.tag)
			if w != tt.widget {
				t.Errorf("widget = %v, want %v", w, tt.widget)
			}
			if len(opts) != len(tt.opts) {
				t.Fatalf("options = %v, want %v", opts, tt.opts)
			}
			for k, v := range tt.opts {
				if opts[k] != v {
					t.Errorf("option %s = %q, want %q", k, opts[k], v)
				}
			}
		})
	}
}

func TestExtractFieldsPointer(t *testing.T) {
	p := components.Pointer{ID: 3, Down: true, DeltaX: 0.01, R: 0.1}
	fields := ExtractFields(&p)

	byName := make(map[string]Field)
	for _, f := range fields {
		byName[f.Name] = f
	}
	if _, ok := byName["Prev"]; ok {
		t.Error("skip-tagged Prev was extracted")
	}
	if f := byName["Down"]; f.Widget != WidgetBool || f.Value != true {
		t.Errorf("Down = %+v, want bool widget with true", f)
	}
	if f := byName["ID"]; f.Widget != WidgetLabel || f.Value != 3 {
		t.Errorf("ID = %+v", f)
	}
	if f := byName["DeltaX"]; f.Widget != WidgetBar || f.Options["min"] != "-0.05" {
		t.Errorf("DeltaX = %+v", f)
	}
}

func TestExtractFieldsRejectsNonStruct(t *testing.T) {
	if got := ExtractFields(42); got != nil {
		t.Errorf("ExtractFields(int) = %v, want nil", got)
	}
	var p *components.Pointer
	if got := ExtractFields(p); got != nil {
		t.Errorf("ExtractFields(nil ptr) = %v, want nil", got)
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		v    float32
		opts map[string]string
		want float32
	}{
		{"default range", 0.25, nil, 0.25},
		{"clamped high", 3, nil, 1},
		{"clamped low", -3, nil, 0},
		{"signed zero", 0, map[string]string{"min": "-1", "max": "1"}, 0.5},
		{"custom max", 50, map[string]string{"max": "200"}, 0.25},
		{"empty range", 1, map[string]string{"min": "2", "max": "2"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.v, tt.opts); got != tt.want {
				t.Errorf("Ratio(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(float32(1.234), ""); got != "1.23" {
		t.Errorf("float32 = %q", got)
	}
	if got := FormatValue(7, ""); got != "7" {
		t.Errorf("int = %q", got)
	}
	pos := components.Texcoord{X: 0.5, Y: 0.25}
	if got := FormatValue(pos, "%.3v"); got != "{0.5 0.25}" {
		t.Errorf("texcoord = %q", got)
	}
}

func TestGetFloatSlice(t *testing.T) {
	got, ok := GetFloatSlice([3]float32{1, 2, 3})
	if !ok || len(got) != 3 || got[2] != 3 {
		t.Errorf("array = %v, %v", got, ok)
	}
	if _, ok := GetFloatSlice([]string{"a"}); ok {
		t.Error("string slice should not convert")
	}
	if _, ok := GetFloatSlice(1.0); ok {
		t.Error("scalar should not convert")
	}
}

func TestPointerSectionsOrderAndCap(t *testing.T) {
	pointers := []components.Pointer{
		{ID: -1},
		{ID: 4, Down: true},
	}
	autos := make([]components.AutoSplatter, 10)

	sections := PointerSections(pointers, autos)
	if len(sections) != maxSections {
		t.Fatalf("sections = %d, want cap %d", len(sections), maxSections)
	}
	if sections[0].Title != "touch 4" || sections[1].Title != "mouse" {
		t.Errorf("order = %q, %q; want pressed touch first", sections[0].Title, sections[1].Title)
	}
	if sections[2].Title != "auto #0" {
		t.Errorf("third section = %q", sections[2].Title)
	}
	if sections[0].Height() <= 20 {
		t.Errorf("section height %d has no fields", sections[0].Height())
	}
}
