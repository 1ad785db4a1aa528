package systems

import (
	"github.com/automoto/tilechunk/components"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// MarkersAt returns the marker entities whose area covers a world position.
// With types only markers of those types are returned.
func MarkersAt(e *ecs.ECS, at geom.Vec2, types ...string) []*donburi.Entry {
	spaceEntry, ok := components.Space.First(e.World)
	if !ok {
		return nil
	}
	space := components.Space.Get(spaceEntry)

	probe := space.NewObject(at, at)
	space.Space.Add(probe)
	defer space.Space.Remove(probe)

	if len(types) == 0 {
		types = []string{tags.ResolvMarker}
	}
	check := probe.Check(0, 0, types...)
	if check == nil {
		return nil
	}
	px := space.ToSpace(at)
	var out []*donburi.Entry
	for _, obj := range check.Objects {
		if px.X < obj.X || px.X > obj.X+obj.W || px.Y < obj.Y || px.Y > obj.Y+obj.H {
			continue
		}
		if entry, ok := obj.Data.(*donburi.Entry); ok && entry.HasComponent(components.Marker) {
			out = append(out, entry)
		}
	}
	return out
}
