package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/tilechunk/components"
	cfg "github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/physics/b2"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/systems"
	"github.com/automoto/tilechunk/systems/factory"
	"github.com/automoto/tilechunk/tiled/tilemap"
)

// ViewerScene owns the ECS of one open map.
type ViewerScene struct {
	ecs *ecs.ECS
}

// NewViewerScene builds the world for m. physicsKind selects where chunk
// bodies go: "b2" for a Box2D world, "resolv" for the marker space, "none"
// for an in-memory world that only records them.
func NewViewerScene(name string, m *tilemap.Map, physicsKind string) (*ViewerScene, error) {
	ecs := ecs.NewECS(donburi.NewWorld())

	ecs.AddSystem(systems.UpdateCamera)
	ecs.AddSystem(systems.UpdateAnimations)
	ecs.AddSystem(systems.UpdateChunks)
	ecs.AddSystem(systems.UpdatePhysics)

	ecs.AddRenderer(cfg.Default, systems.DrawMap)
	ecs.AddRenderer(cfg.Default, systems.DrawDebug)
	ecs.AddRenderer(cfg.Default, systems.DrawHUD)

	factory.CreateMap(ecs, name, m)
	spaceEntry := factory.CreateSpace(ecs, m)
	space := components.Space.Get(spaceEntry)
	factory.CreateMarkers(ecs, space, m)

	var world physics.World
	switch physicsKind {
	case "b2":
		world = b2.NewWorld()
	case "resolv":
		world = space
	case "none":
		world = physics.NewMemoryWorld()
	default:
		return nil, fmt.Errorf("unknown physics world %q", physicsKind)
	}
	factory.CreatePhysics(ecs, world)
	factory.CreateCamera(ecs, startPosition(m))

	return &ViewerScene{ecs: ecs}, nil
}

// startPosition is the first spawn marker, else the centre of the map.
func startPosition(m *tilemap.Map) geom.Vec2 {
	u := cfg.Map.UnitsPerTile
	if spawns := m.MarkersOfType("spawn"); len(spawns) > 0 {
		return spawns[0].Pos.Scale(u)
	}
	lo, hi := factory.MapBounds(m, u)
	return lo.Add(hi).Scale(0.5)
}

func (s *ViewerScene) Update() {
	s.ecs.Update()
}

func (s *ViewerScene) Draw(screen *ebiten.Image) {
	s.ecs.Draw(screen)
}
