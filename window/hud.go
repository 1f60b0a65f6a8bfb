package window

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// hudControls is the key legend drawn along the bottom edge.
const hudControls = "F: stats | R: reseed | F11: fullscreen | Esc: quit"

// HUDData holds everything the stats overlay shows.
type HUDData struct {
	Title         string
	Particles     int
	Links         int
	Frame         uint64
	FPS           int32
	PointerActive bool
	ScreenHeight  int32
}

// DrawHUD renders the stats overlay in the top-left corner.
func DrawHUD(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Links: %d", data.Particles, data.Links),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Frame: %d | FPS: %d", data.Frame, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	pointer := "pointer: none"
	if data.PointerActive {
		pointer = "pointer: active"
	}
	rl.DrawText(pointer, 10, 75, 16, rl.Yellow)

	rl.DrawText(hudControls, 10, data.ScreenHeight-25, 14, rl.Gray)
}
