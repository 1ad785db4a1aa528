package systems

import (
	"github.com/automoto/tilechunk/components"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateAnimations advances every tile animator by one tick.
func UpdateAnimations(e *ecs.ECS) {
	dt := float32(1 / float64(ebiten.TPS()))
	components.Animation.Each(e.World, func(entry *donburi.Entry) {
		for _, anim := range components.Animation.Get(entry).Animators {
			anim.Update(dt)
		}
	})
}
