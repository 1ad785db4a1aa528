package factory

import (
	"github.com/automoto/tilechunk/archetypes"
	"github.com/automoto/tilechunk/components"
	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/physics/resolvspace"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/tilemap"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateSpace spawns the resolv space covering the map's tiles and markers.
func CreateSpace(ecs *ecs.ECS, m *tilemap.Map) *donburi.Entry {
	lo, hi := MapBounds(m, config.Map.UnitsPerTile)
	space := archetypes.Space.Spawn(ecs)
	components.Space.Set(space, resolvspace.NewWorld(lo, hi))
	return space
}

// CreatePhysics spawns the entity holding the world chunk bodies go into.
func CreatePhysics(ecs *ecs.ECS, world physics.World) *donburi.Entry {
	entry := archetypes.Physics.Spawn(ecs)
	components.Physics.Set(entry, &components.PhysicsData{World: world})
	return entry
}

// MapBounds is the world rectangle covering every chunk and marker, at
// least one unit in size.
func MapBounds(m *tilemap.Map, unitsPerTile float64) (lo, hi geom.Vec2) {
	lo, hi, ok := m.WorldBounds(unitsPerTile)
	for _, mk := range m.Markers {
		a, b := markerArea(mk, unitsPerTile)
		if !ok {
			lo, hi, ok = a, b, true
			continue
		}
		lo = geom.V(min(lo.X, a.X), min(lo.Y, a.Y))
		hi = geom.V(max(hi.X, b.X), max(hi.Y, b.Y))
	}
	if !ok {
		return geom.V(0, -1), geom.V(1, 0)
	}
	return lo, geom.V(max(hi.X, lo.X+1), max(hi.Y, lo.Y+1))
}
