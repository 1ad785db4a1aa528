package systems

import (
	"github.com/automoto/tilechunk/components"
	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/render"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/yohamta/donburi/ecs"
)

// CurrentView is the camera's view of the world at the configured screen
// size. ok is false until a camera exists.
func CurrentView(e *ecs.ECS) (render.View, bool) {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return render.View{}, false
	}
	camera := components.Camera.Get(cameraEntry)
	zoom := camera.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return render.View{
		Center:        geom.V(camera.Position.X, camera.Position.Y),
		PixelsPerUnit: config.Render.PixelsPerUnit * zoom,
		Width:         config.Render.Width,
		Height:        config.Render.Height,
	}, true
}
