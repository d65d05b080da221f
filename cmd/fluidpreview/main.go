// Fluid preview tool - live solver with sliders for the tuning parameters.
//
// Usage: go run ./cmd/fluidpreview [-config fluid.yaml] [-save tuned.yaml]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/fluidbg/config"
	"github.com/pthm-cable/fluidbg/fluid"
	"github.com/pthm-cable/fluidbg/renderer"
)

const (
	windowWidth  = 1200
	windowHeight = 720
	panelWidth   = 320
	sliderWidth  = panelWidth - 110
)

// param is one slider bound to a config field.
type param struct {
	label  string
	value  *float64
	lo, hi float32
	format string
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	savePath := flag.String("save", "fluid-tuned.yaml", "Where the Save button writes the config")
	quality := flag.String("quality", "", "Force a quality tier")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Quality.Adaptive = false

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(windowWidth, windowHeight, "Fluid Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	gpu, err := renderer.NewGPU(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create gpu backend: %v\n", err)
		os.Exit(1)
	}
	defer gpu.Unload()

	sim, err := fluid.NewSimulation(gpu, cfg, fluid.Options{Quality: *quality, Seed: time.Now().UnixNano()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create simulation: %v\n", err)
		os.Exit(1)
	}
	defer sim.Close()
	sim.Start()

	params := []param{
		{"Curl", &cfg.Sim.Curl, 0, 50, "%.0f"},
		{"Splat radius %", &cfg.Sim.SplatRadius, 0.01, 1, "%.2f"},
		{"Splat force", &cfg.Sim.SplatForce, 1000, 12000, "%.0f"},
		{"Dye fade", &cfg.Sim.DensityDissipation, 0, 4, "%.2f"},
		{"Velocity fade", &cfg.Sim.VelocityDissipation, 0, 4, "%.2f"},
		{"Pressure", &cfg.Sim.Pressure, 0, 1, "%.2f"},
		{"Bloom intensity", &cfg.Bloom.Intensity, 0.1, 2, "%.2f"},
		{"Bloom threshold", &cfg.Bloom.Threshold, 0, 1, "%.2f"},
		{"Sunrays weight", &cfg.Sunrays.Weight, 0.3, 1, "%.2f"},
	}

	status := ""
	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			sim.Resize(rl.GetRenderWidth(), rl.GetRenderHeight())
		}
		mouse := rl.GetMousePosition()
		inPanel := mouse.X > float32(rl.GetScreenWidth()-panelWidth)
		if !inPanel {
			if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
				sim.PointerDown(fluid.MousePointer, mouse.X, mouse.Y)
			}
			if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
				sim.PointerMove(fluid.MousePointer, mouse.X, mouse.Y)
			}
		}
		if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
			sim.PointerUp(fluid.MousePointer)
		}

		rl.BeginDrawing()
		sim.Frame(time.Now())

		// Control panel
		panelX := float32(rl.GetScreenWidth() - panelWidth)
		rl.DrawRectangle(int32(panelX), 0, panelWidth, int32(rl.GetScreenHeight()), rl.Fade(rl.Black, 0.7))
		panelX += 10
		panelY := float32(10)
		rl.DrawText(fmt.Sprintf("Fluid Parameters  %d fps", rl.GetFPS()), int32(panelX), int32(panelY), 18, rl.RayWhite)
		panelY += 30

		for _, p := range params {
			rl.DrawText(p.label, int32(panelX), int32(panelY), 14, rl.LightGray)
			panelY += 18
			newValue := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: sliderWidth, Height: 18},
				"", "",
				float32(*p.value), p.lo, p.hi,
			)
			rl.DrawText(fmt.Sprintf(p.format, *p.value), int32(panelX+sliderWidth+10), int32(panelY+2), 14, rl.RayWhite)
			if newValue != float32(*p.value) {
				*p.value = float64(newValue)
				// Splat radius is read from the derived config
				cfg.Refresh()
			}
			panelY += 30
		}

		// Feature toggles reallocate, so they go through ApplyConfig
		panelY += 5
		toggles := []struct {
			label string
			on    *bool
		}{
			{"Shading", &cfg.Render.Shading},
			{"Colorful", &cfg.Render.Colorful},
			{"Bloom", &cfg.Bloom.Enabled},
			{"Sunrays", &cfg.Sunrays.Enabled},
		}
		for i, tg := range toggles {
			x := panelX + float32(i%2)*150
			if gui.Button(rl.Rectangle{X: x, Y: panelY, Width: 140, Height: 26}, fmt.Sprintf("%s: %s", tg.label, toggleText(*tg.on, "on", "off"))) {
				*tg.on = !*tg.on
				if err := sim.ApplyConfig(); err != nil {
					status = err.Error()
				}
			}
			if i%2 == 1 {
				panelY += 32
			}
		}

		panelY += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 140, Height: 30}, toggleText(cfg.Render.Paused, "Resume", "Pause")) {
			cfg.Render.Paused = !cfg.Render.Paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 150, Y: panelY, Width: 140, Height: 30}, "Random Splats") {
			sim.QueueRandomBurst()
		}
		panelY += 38

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 140, Height: 30}, "Tier Down") {
			if tier, ok := cfg.TierBelow(sim.Quality().Tier); ok {
				sim.SetTier(tier, "manual")
			}
		}
		if gui.Button(rl.Rectangle{X: panelX + 150, Y: panelY, Width: 140, Height: 30}, "Tier Up") {
			if tier, ok := cfg.TierAbove(sim.Quality().Tier); ok {
				sim.SetTier(tier, "manual")
			}
		}
		panelY += 38

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 140, Height: 30}, "Save Config") {
			if err := cfg.WriteYAML(*savePath); err != nil {
				status = err.Error()
			} else {
				status = "saved " + *savePath
			}
		}
		if gui.Button(rl.Rectangle{X: panelX + 150, Y: panelY, Width: 140, Height: 30}, "Reset All") {
			if fresh, err := config.Load(*configPath); err == nil {
				fresh.Quality.Adaptive = false
				*cfg = *fresh
				if err := sim.ApplyConfig(); err != nil {
					status = err.Error()
				}
			}
		}
		panelY += 40

		rl.DrawText(sim.Quality().String(), int32(panelX), int32(panelY), 10, rl.LightGray)
		rl.DrawText(status, int32(panelX), int32(panelY+16), 12, rl.Yellow)

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
