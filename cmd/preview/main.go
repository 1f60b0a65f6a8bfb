// Background tuning tool - live simulation with sliders for the main knobs.
//
// Usage: go run ./cmd/preview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/molecule/config"
	"github.com/pthm-cable/molecule/game"
	"github.com/pthm-cable/molecule/systems"
	"github.com/pthm-cable/molecule/window"
)

const (
	windowWidth  = 1200
	windowHeight = 760
	panelWidth   = 320
	sliderWidth  = panelWidth - 100
)

// TuneParams are the values exposed on the panel.
type TuneParams struct {
	Count              float32
	ConnectionDistance float32
	InfluenceRadius    float32
	Repulsion          float32
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	config.MustInit(*configPath)
	cfg := config.Cfg()

	base, err := game.OptionsFromConfig(cfg)
	if err != nil {
		slog.Error("invalid options", "error", err)
		os.Exit(1)
	}
	base.Seed = *seed

	defaults := paramsFrom(base)
	params := defaults

	flags := uint32(rl.FlagMsaa4xHint)
	if cfg.Screen.HighDPI {
		flags |= rl.FlagWindowHighdpi
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(windowWidth, windowHeight, "Molecular Background Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	host, err := window.NewHost(apply(base, params))
	if err != nil {
		slog.Error("mount failed", "error", err)
		os.Exit(1)
	}

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		host.Frame()

		next, reset := drawPanel(host, params, defaults)
		if next != params || reset {
			params = next
			if reset {
				base = base.Reseeded()
			}
			host.Close()
			host, err = window.NewHost(apply(base, params))
			if err != nil {
				rl.EndDrawing()
				slog.Error("remount failed", "error", err)
				os.Exit(1)
			}
		}
		rl.EndDrawing()
	}
	host.Close()
}

// drawPanel draws the control panel and returns the edited params and
// whether the simulation should be reseeded.
func drawPanel(host *window.Host, params, defaults TuneParams) (TuneParams, bool) {
	panelX := float32(windowWidth - panelWidth)
	rl.DrawRectangle(int32(panelX), 0, panelWidth, windowHeight, rl.Fade(rl.Black, 0.6))

	x := panelX + 15
	y := float32(15)
	rl.DrawText("Background Parameters", int32(x), int32(y), 20, rl.RayWhite)
	y += 35

	slider := func(label, format string, v, lo, hi float32) float32 {
		rl.DrawText(label, int32(x), int32(y), 14, rl.LightGray)
		y += 18
		nv := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: sliderWidth, Height: 20},
			"", "",
			v, lo, hi,
		)
		rl.DrawText(fmt.Sprintf(format, v), int32(x+sliderWidth+10), int32(y+2), 16, rl.RayWhite)
		y += 35
		return nv
	}

	next := params
	next.Count = float32(int(slider("Particle count", "%.0f", params.Count, 0, 300)))
	next.ConnectionDistance = slider("Connection distance (px)", "%.0f", params.ConnectionDistance, 10, 400)
	next.InfluenceRadius = slider("Pointer influence radius (px)", "%.0f", params.InfluenceRadius, 10, 300)
	next.Repulsion = slider("Repulsion strength", "%.3f", params.Repulsion, 0, 0.1)

	rl.DrawLine(int32(x), int32(y), int32(x)+panelWidth-30, int32(y), rl.Gray)
	y += 15

	st := host.Controller().Snapshot()
	links := systems.CountConnections(st.Particles, float64(params.ConnectionDistance))
	rl.DrawText(fmt.Sprintf("Frame: %d", host.Controller().Frames()), int32(x), int32(y), 16, rl.LightGray)
	y += 20
	rl.DrawText(fmt.Sprintf("Particles: %d  Links: %d", st.Len(), links), int32(x), int32(y), 16, rl.LightGray)
	y += 20
	rl.DrawText(fmt.Sprintf("FPS: %d", rl.GetFPS()), int32(x), int32(y), 16, rl.LightGray)
	y += 35

	reset := gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 30}, "Reseed")
	if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 120, Height: 30}, "Defaults") {
		next = defaults
	}
	return next, reset
}

func paramsFrom(opts game.Options) TuneParams {
	return TuneParams{
		Count:              float32(opts.Count),
		ConnectionDistance: float32(opts.Style.ConnectionDistance),
		InfluenceRadius:    float32(opts.Physics.InfluenceRadius),
		Repulsion:          float32(opts.Physics.Repulsion),
	}
}

func apply(base game.Options, p TuneParams) game.Options {
	opts := base
	opts.Count = int(p.Count)
	opts.Style.ConnectionDistance = float64(p.ConnectionDistance)
	opts.Physics.InfluenceRadius = float64(p.InfluenceRadius)
	opts.Physics.Repulsion = float64(p.Repulsion)
	return opts
}
