package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluidbg/fluid"
	"github.com/pthm-cable/fluidbg/inspector"
	"github.com/pthm-cable/fluidbg/renderer"
	"github.com/pthm-cable/fluidbg/ui"
)

const controlsLegend = "[Tab] keys  [P] pause  [Space] burst"

var keyActions = []ui.KeyAction{
	{Key: "P", Label: "Pause"},
	{Key: "Space", Label: "Random burst"},
	{Key: "S", Label: "Start / stop"},
	{Key: "[ ]", Label: "Tier down / up"},
	{Key: "F12", Label: "Snapshot"},
	{Key: "F11", Label: "Fullscreen"},
}

func (g *Game) initUI() {
	g.screenW, g.screenH = int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	g.overlays = ui.NewOverlayRegistry()
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(g.screenW-270, g.screenH-260)
	g.qualityPanel = ui.NewQualityPanel(10, 100, 260)
	g.keys = ui.NewKeysPanel(10, 100, 220, keyActions)
	g.inspector = inspector.NewInspector(g.screenW)
}

// Draw runs one simulation frame into the window and draws the overlays.
func (g *Game) Draw() {
	if g.headless {
		return
	}
	rl.BeginDrawing()

	ran := g.sim.Frame(time.Now())
	switch frameFollowUp(ran, g.sim.Resources().Released()) {
	case followRecord:
		g.afterFrame(float64(rl.GetFrameTime()))
	case followRedraw:
		g.sim.Render(nil)
	}

	g.drawFieldOverlay()
	g.drawPanels()

	rl.EndDrawing()
}

type followUp int

const (
	followNone   followUp = iota
	followRecord          // telemetry for a frame that ran
	followRedraw          // stopped or hidden: keep showing the last composite
)

// frameFollowUp decides what Draw does after Frame. Released fields have
// nothing to redraw, and skipped frames are never recorded.
func frameFollowUp(ran, released bool) followUp {
	switch {
	case ran:
		return followRecord
	case !released:
		return followRedraw
	}
	return followNone
}

// fieldTarget returns the target an overlay shows, or nil when the field
// is not allocated at the current quality.
func fieldTarget(r *fluid.Resources, id ui.OverlayID) fluid.Target {
	if r == nil || r.Released() || r.Velocity == nil {
		return nil
	}
	switch id {
	case ui.OverlayVelocity:
		return r.Velocity.Read()
	case ui.OverlayPressure:
		return r.Pressure.Read()
	case ui.OverlayDivergence:
		return r.Divergence
	case ui.OverlayCurl:
		return r.Curl
	case ui.OverlayBloom:
		return r.Bloom
	case ui.OverlaySunrays:
		return r.Sunrays
	}
	return nil
}

// drawFieldOverlay stretches the selected raw field over the window.
func (g *Game) drawFieldOverlay() {
	id, ok := g.overlays.ActiveField()
	if !ok {
		return
	}
	t, ok := fieldTarget(g.sim.Resources(), id).(*renderer.Target)
	if !ok || t == nil {
		return
	}
	tex := t.Texture()
	// Render textures are stored bottom-up
	src := rl.Rectangle{Width: float32(tex.Width), Height: -float32(tex.Height)}
	dst := rl.Rectangle{Width: float32(g.screenW), Height: float32(g.screenH)}
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
	rl.DrawText(string(id), g.screenW/2-40, 10, 20, rl.White)
}

func (g *Game) drawPanels() {
	r := g.sim.Resources()

	if g.overlays.IsEnabled(ui.OverlayHUD) {
		data := ui.HUDData{
			Tier:     tierLabel(g.sim.Quality().Tier, g.sim.TopTier()),
			FPS:      g.sim.FPS(),
			Frame:    g.sim.Frames(),
			Pointers: g.sim.PointerCount(),
			Paused:   g.cfg.Render.Paused || !g.sim.Running(),
			Backend:  g.sim.Capabilities().API,
		}
		if !r.Released() && r.Velocity != nil {
			data.SimW, data.SimH = r.Velocity.Width(), r.Velocity.Height()
			data.DyeW, data.DyeH = r.Dye.Width(), r.Dye.Height()
		}
		g.hud.Draw(data)
		g.hud.DrawControls(g.screenH, controlsLegend)
	}

	y := int32(100)
	if g.keys.IsVisible() {
		y = g.keys.Draw(g.overlays) + 10
	}
	if g.overlays.IsEnabled(ui.OverlayQuality) {
		g.qualityPanel.SetPosition(10, y)
		g.qualityPanel.Draw(&ui.QualityData{
			Quality:      g.sim.Quality(),
			TopTier:      g.sim.TopTier(),
			Format:       g.sim.Capabilities().TextureFormat.String(),
			FPS:          g.sim.FPS(),
			FrameStdMs:   g.sim.FrameStdDev(),
			DowngradeFPS: g.cfg.Quality.DowngradeFPS,
			UpgradeFPS:   g.cfg.Quality.UpgradeFPS,
			BackColor:    g.cfg.Derived.BackColor,
		})
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perf.Stats())
	}

	g.inspector.Update(g.sim.Pointers(), g.sim.AutoSplatters())
	g.inspector.Draw()
}
