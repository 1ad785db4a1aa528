package components

import (
	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/physics/resolvspace"
	"github.com/yohamta/donburi"
)

// PhysicsData holds the world chunk bodies are created in.
type PhysicsData struct {
	World physics.World
}

// Stepper is implemented by worlds that simulate, such as physics/b2.
type Stepper interface {
	Step(dt float64)
}

var Physics = donburi.NewComponentType[PhysicsData]()

// Space is the resolv space markers live in.
var Space = donburi.NewComponentType[resolvspace.World]()
