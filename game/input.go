package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluidbg/config"
	"github.com/pthm-cable/fluidbg/fluid"
	"github.com/pthm-cable/fluidbg/ui"
)

type point struct{ X, Y float32 }

type touchKind int

const (
	touchDown touchKind = iota
	touchMove
	touchUp
)

type touchEvent struct {
	kind touchKind
	id   int32
	pos  point
}

// diffTouches turns the current touch points into down/move/up events
// against the previous frame's points, and updates prev in place.
func diffTouches(prev map[int32]point, cur map[int32]point) []touchEvent {
	var events []touchEvent
	for id, p := range cur {
		old, ok := prev[id]
		switch {
		case !ok:
			events = append(events, touchEvent{touchDown, id, p})
		case old != p:
			events = append(events, touchEvent{touchMove, id, p})
		}
		prev[id] = p
	}
	for id, p := range prev {
		if _, ok := cur[id]; !ok {
			events = append(events, touchEvent{touchUp, id, p})
			delete(prev, id)
		}
	}
	return events
}

// handleInput processes keyboard, mouse, touch and window events.
func (g *Game) handleInput() {
	g.handleResize()
	g.sim.SetHidden(rl.IsWindowMinimized() || rl.IsWindowHidden())

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.cfg.Render.Paused = !g.cfg.Render.Paused
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.sim.QueueRandomBurst()
	}
	if rl.IsKeyPressed(rl.KeyF12) {
		g.wantSnapshot = true
	}
	if rl.IsKeyPressed(rl.KeyS) {
		if g.sim.Running() {
			g.sim.Stop()
		} else {
			g.sim.Start()
		}
	}

	// Manual tier stepping
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		if tier, ok := g.cfg.TierBelow(g.sim.Quality().Tier); ok {
			g.sim.SetTier(tier, "manual")
		}
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		if tier, ok := g.cfg.TierAbove(g.sim.Quality().Tier); ok {
			g.sim.SetTier(tier, "manual")
		}
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.keys.Toggle()
	}
	if key := rl.GetKeyPressed(); key != 0 {
		g.overlays.HandleKeyPress(key)
	}
	g.inspector.SetVisible(g.overlays.IsEnabled(ui.OverlayPointers))

	g.handlePointers()
}

// surfaceScale maps window coordinates to render pixels on HiDPI screens.
func surfaceScale() (sx, sy float32) {
	sx, sy = 1, 1
	if w := rl.GetScreenWidth(); w > 0 {
		sx = float32(rl.GetRenderWidth()) / float32(w)
	}
	if h := rl.GetScreenHeight(); h > 0 {
		sy = float32(rl.GetRenderHeight()) / float32(h)
	}
	return sx, sy
}

// handlePointers forwards the mouse and touch points to the simulation.
// On desktop raylib mirrors the pressed mouse as touch point 0, so touches
// are only read when the mouse is up or more than one point is down.
func (g *Game) handlePointers() {
	sx, sy := surfaceScale()

	mouse := rl.GetMousePosition()
	mx, my := mouse.X*sx, mouse.Y*sy
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.sim.PointerDown(fluid.MousePointer, mx, my)
	}
	if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
		g.sim.PointerMove(fluid.MousePointer, mx, my)
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		g.sim.PointerUp(fluid.MousePointer)
	}

	count := rl.GetTouchPointCount()
	cur := make(map[int32]point, count)
	if !rl.IsMouseButtonDown(rl.MouseButtonLeft) || count > 1 {
		for i := int32(0); i < count; i++ {
			p := rl.GetTouchPosition(i)
			cur[rl.GetTouchPointId(i)] = point{p.X * sx, p.Y * sy}
		}
	}
	for _, ev := range diffTouches(g.touches, cur) {
		id := int(ev.id)
		switch ev.kind {
		case touchDown:
			g.sim.PointerDown(id, ev.pos.X, ev.pos.Y)
		case touchMove:
			g.sim.PointerMove(id, ev.pos.X, ev.pos.Y)
		case touchUp:
			g.sim.PointerUp(id)
		}
	}
}

// handleResize propagates window size changes.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w == g.screenW && h == g.screenH {
		return
	}
	g.screenW, g.screenH = w, h
	g.sim.Resize(rl.GetRenderWidth(), rl.GetRenderHeight())
	g.inspector.Resize(w)
	g.qualityPanel.SetPosition(10, 100)
	g.perfPanel.SetPosition(w-270, h-260)
}

// tierLabel shows the tier with its ceiling when they differ.
func tierLabel(active, top string) string {
	if config.TierRank(active) < config.TierRank(top) {
		return active + " (max " + top + ")"
	}
	return active
}
