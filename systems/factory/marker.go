package factory

import (
	"github.com/automoto/tilechunk/archetypes"
	"github.com/automoto/tilechunk/components"
	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/physics/resolvspace"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tags"
	"github.com/automoto/tilechunk/tiled/tilemap"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateMarker spawns a marker entity and adds its area to space, tagged
// with the marker tag and the marker's type.
func CreateMarker(ecs *ecs.ECS, space *resolvspace.World, mk tilemap.Marker) *donburi.Entry {
	entry := archetypes.Marker.Spawn(ecs)

	lo, hi := markerArea(mk, config.Map.UnitsPerTile)
	markerTags := []string{tags.ResolvMarker}
	if mk.Type != "" {
		markerTags = append(markerTags, mk.Type)
	}
	obj := space.NewObject(lo, hi, markerTags...)
	obj.Data = entry // Link for O(1) lookup
	space.Space.Add(obj)

	components.Marker.Set(entry, &components.MarkerData{
		Marker: mk,
		Object: obj,
	})
	return entry
}

// CreateMarkers spawns every marker of m.
func CreateMarkers(ecs *ecs.ECS, space *resolvspace.World, m *tilemap.Map) {
	for _, mk := range m.Markers {
		CreateMarker(ecs, space, mk)
	}
}

// markerArea is the world rectangle of a marker, ignoring rotation.
func markerArea(mk tilemap.Marker, unitsPerTile float64) (lo, hi geom.Vec2) {
	if len(mk.Points) > 0 {
		lo, hi = mk.Points[0], mk.Points[0]
		for _, p := range mk.Points[1:] {
			lo = geom.V(min(lo.X, p.X), min(lo.Y, p.Y))
			hi = geom.V(max(hi.X, p.X), max(hi.Y, p.Y))
		}
	} else {
		lo = geom.V(mk.Pos.X, mk.Pos.Y-mk.Size.Y)
		hi = geom.V(mk.Pos.X+mk.Size.X, mk.Pos.Y)
	}
	return lo.Scale(unitsPerTile), hi.Scale(unitsPerTile)
}
