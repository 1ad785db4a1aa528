package systems

import (
	"github.com/automoto/tilechunk/components"
	"github.com/automoto/tilechunk/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi/ecs"
)

const (
	minZoom = 0.25
	maxZoom = 8
)

// UpdateCamera scrolls with the arrow keys or WASD and zooms with +/-.
func UpdateCamera(e *ecs.ECS) {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	camera := components.Camera.Get(cameraEntry)

	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		dx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		dx++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		dy++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		dy--
	}
	ScrollCamera(camera, dx, dy)

	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		camera.Zoom = min(camera.Zoom*2, maxZoom)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		camera.Zoom = max(camera.Zoom/2, minZoom)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		config.Render.DebugColliders = !config.Render.DebugColliders
	}
}

// ScrollCamera moves the camera by (dx, dy) times the scroll speed, given
// in screen pixels so scrolling feels the same at every zoom.
func ScrollCamera(camera *components.CameraData, dx, dy float64) {
	zoom := camera.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	step := config.Render.ScrollSpeed / (config.Render.PixelsPerUnit * zoom)
	camera.Position.X += dx * step
	camera.Position.Y += dy * step
}
