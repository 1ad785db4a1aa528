package factory

import (
	"github.com/automoto/tilechunk/archetypes"
	"github.com/automoto/tilechunk/components"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/math"
)

func CreateCamera(ecs *ecs.ECS, at geom.Vec2) *donburi.Entry {
	camera := archetypes.Camera.Spawn(ecs)
	components.Camera.Set(camera, &components.CameraData{
		Position: math.NewVec2(at.X, at.Y),
		Zoom:     1,
	})
	return camera
}
