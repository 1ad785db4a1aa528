package components

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
)

type CameraData struct {
	Position math.Vec2 // world units, y up
	Zoom     float64   // multiplies config.Render.PixelsPerUnit
}

var Camera = donburi.NewComponentType[CameraData]()
