package systems

import (
	"github.com/automoto/tilechunk/components"
	"github.com/automoto/tilechunk/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
)

// DrawMap renders the map layers through the camera with animated tiles
// swapped for their current frame.
func DrawMap(e *ecs.ECS, screen *ebiten.Image) {
	mapEntry, ok := components.Map.First(e.World)
	if !ok {
		return
	}
	view, ok := CurrentView(e)
	if !ok {
		return
	}
	data := components.Map.Get(mapEntry)
	anim := components.Animation.Get(mapEntry)

	if bg := data.Map.Background; bg.A > 0 {
		screen.Fill(bg)
	} else {
		screen.Fill(config.Render.BackgroundColor)
	}
	data.Renderer.Draw(screen, view, anim.Frame)
}
