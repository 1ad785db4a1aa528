package archetypes

import (
	"github.com/automoto/tilechunk/components"
	cfg "github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Map = newArchetype(
		tags.Map,
		components.Map,
		components.Animation,
	)
	Chunk = newArchetype(
		tags.Chunk,
		components.Chunk,
	)
	Marker = newArchetype(
		tags.Marker,
		components.Marker,
	)
	Space = newArchetype(
		components.Space,
	)
	Physics = newArchetype(
		components.Physics,
	)
	Camera = newArchetype(
		components.Camera,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}
