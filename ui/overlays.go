package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayHUD      OverlayID = "hud"
	OverlayPerf     OverlayID = "perf"
	OverlayQuality  OverlayID = "quality"
	OverlayPointers OverlayID = "pointers"

	OverlayVelocity   OverlayID = "velocity"
	OverlayPressure   OverlayID = "pressure"
	OverlayDivergence OverlayID = "divergence"
	OverlayCurl       OverlayID = "curl"
	OverlayBloom      OverlayID = "bloom"
	OverlaySunrays    OverlayID = "sunrays"
)

// FieldOverlays are the overlays that replace the composite with a raw
// field. At most one is enabled at a time.
var FieldOverlays = []OverlayID{
	OverlayVelocity, OverlayPressure, OverlayDivergence,
	OverlayCurl, OverlayBloom, OverlaySunrays,
}

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "P", "1")
	Category    string      // Grouping ("panels", "fields")
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID // Maintains insertion order for display
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayHUD,
		Name:        "HUD",
		Description: "Tier, frame rate and field sizes",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "panels",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Pass Timing",
		Description: "Average time per solver pass",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "panels",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayQuality,
		Name:        "Quality",
		Description: "Effective tier settings and frame-rate drift",
		Key:         rl.KeyQ,
		KeyLabel:    "Q",
		Category:    "panels",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayPointers,
		Name:        "Pointers",
		Description: "Live pointer and auto-splat state",
		Key:         rl.KeyI,
		KeyLabel:    "I",
		Category:    "panels",
	})

	fields := []struct {
		id   OverlayID
		name string
		desc string
	}{
		{OverlayVelocity, "Velocity", "Velocity field, xy as red/green"},
		{OverlayPressure, "Pressure", "Pressure after the Jacobi solve"},
		{OverlayDivergence, "Divergence", "Velocity divergence before projection"},
		{OverlayCurl, "Curl", "Vorticity magnitude"},
		{OverlayBloom, "Bloom", "Bloom buffer before compositing"},
		{OverlaySunrays, "Sunrays", "Light-shaft buffer"},
	}
	for i, f := range fields {
		var excl []OverlayID
		for _, other := range FieldOverlays {
			if other != f.id {
				excl = append(excl, other)
			}
		}
		r.Register(OverlayDescriptor{
			ID:          f.id,
			Name:        f.name,
			Description: f.desc,
			Key:         int32(rl.KeyOne) + int32(i),
			KeyLabel:    string(rune('1' + i)),
			Category:    "fields",
			Exclusive:   excl,
		})
	}
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Get returns an overlay descriptor by ID.
func (r *OverlayRegistry) Get(id OverlayID) (OverlayDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, id := range r.order {
		if r.enabled[id] {
			result = append(result, id)
		}
	}
	return result
}

// ActiveField returns the enabled field overlay, if any.
func (r *OverlayRegistry) ActiveField() (OverlayID, bool) {
	for _, id := range FieldOverlays {
		if r.enabled[id] {
			return id, true
		}
	}
	return "", false
}
