package systems

import (
	"github.com/automoto/tilechunk/components"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
)

// UpdatePhysics steps worlds that simulate.
func UpdatePhysics(e *ecs.ECS) {
	entry, ok := components.Physics.First(e.World)
	if !ok {
		return
	}
	if s, ok := components.Physics.Get(entry).World.(components.Stepper); ok {
		s.Step(1 / float64(ebiten.TPS()))
	}
}
