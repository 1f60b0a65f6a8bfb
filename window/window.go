// Package window hosts the background in a raylib window: the window is the
// drawing surface, the mouse is the pointer and window resizes are viewport
// changes.
package window

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/molecule/config"
	"github.com/pthm-cable/molecule/game"
	"github.com/pthm-cable/molecule/systems"
)

// Host owns the frame pump and input polling for one controller.
type Host struct {
	ctl   *game.Controller
	sched *game.ManualScheduler
	opts  game.Options
	title string

	width, height float32
	pointerInside bool
	lastPointer   rl.Vector2
	showHUD       bool
}

// NewHost mounts a controller for the already-open window.
func NewHost(opts game.Options) (*Host, error) {
	sched := game.NewManualScheduler()
	ctl := game.NewController(sched, opts)

	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if err := ctl.Mount(NewRaylibSurface(opts.Style.Background), float64(w), float64(h)); err != nil {
		return nil, err
	}
	return &Host{ctl: ctl, sched: sched, opts: opts, width: w, height: h}, nil
}

// Controller returns the mounted controller.
func (h *Host) Controller() *game.Controller {
	return h.ctl
}

// Frame polls input and runs the pending simulation frame.
// It must be called between rl.BeginDrawing and rl.EndDrawing.
func (h *Host) Frame() {
	h.handleInput()
	h.sched.RunPending()
	if h.showHUD {
		h.drawHUD()
	}
}

// SetTitle sets the heading shown on the stats overlay.
func (h *Host) SetTitle(title string) {
	h.title = title
}

func (h *Host) drawHUD() {
	st := h.ctl.Snapshot()
	DrawHUD(HUDData{
		Title:         h.title,
		Particles:     st.Len(),
		Links:         systems.CountConnections(st.Particles, h.opts.Style.ConnectionDistance),
		Frame:         h.ctl.Frames(),
		FPS:           rl.GetFPS(),
		PointerActive: h.pointerInside,
		ScreenHeight:  int32(h.height),
	})
}

// Close stops the controller.
func (h *Host) Close() {
	h.ctl.Unmount()
}

// handleInput processes keyboard, mouse and resize input.
func (h *Host) handleInput() {
	h.handleResize()
	h.handlePointer()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		h.showHUD = !h.showHUD
	}
	if rl.IsKeyPressed(rl.KeyR) {
		h.ctl.Reset()
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (h *Host) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	ht := float32(rl.GetScreenHeight())
	if w == h.width && ht == h.height {
		return
	}
	h.width = w
	h.height = ht
	h.ctl.Resize(float64(w), float64(ht))
}

// handlePointer forwards mouse motion and translates leaving the window
// into a pointer-leave.
func (h *Host) handlePointer() {
	if !rl.IsCursorOnScreen() {
		if h.pointerInside {
			h.pointerInside = false
			h.ctl.PointerLeave()
		}
		return
	}

	pos := rl.GetMousePosition()
	if h.pointerInside && pos == h.lastPointer {
		return
	}
	h.pointerInside = true
	h.lastPointer = pos
	h.ctl.PointerMove(float64(pos.X), float64(pos.Y))
}

// Run opens a window and drives the background until it is closed.
func Run(cfg *config.Config, opts game.Options) error {
	rl.SetConfigFlags(windowFlags(cfg.Screen))
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	host, err := NewHost(opts)
	if err != nil {
		return err
	}
	defer host.Close()
	host.SetTitle(cfg.Screen.Title)

	slog.Info("window_open",
		"width", cfg.Screen.Width,
		"height", cfg.Screen.Height,
		"target_fps", cfg.Screen.TargetFPS,
	)

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		host.Frame()
		rl.EndDrawing()
	}
	return nil
}

// windowFlags maps screen settings onto raylib config flags.
func windowFlags(sc config.ScreenConfig) uint32 {
	flags := uint32(rl.FlagMsaa4xHint)
	if sc.Resizable {
		flags |= rl.FlagWindowResizable
	}
	if sc.HighDPI {
		flags |= rl.FlagWindowHighdpi
	}
	return flags
}
