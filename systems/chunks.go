package systems

import (
	"log"

	"github.com/automoto/tilechunk/components"
	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tags"
	"github.com/automoto/tilechunk/tiled/tilemap"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateChunks keeps physics bodies for the colliding chunks near the
// camera and releases the rest. Chunks already live are left untouched.
func UpdateChunks(e *ecs.ECS) {
	mapEntry, ok := components.Map.First(e.World)
	if !ok {
		return
	}
	m := components.Map.Get(mapEntry).Map
	physicsEntry, ok := components.Physics.First(e.World)
	if !ok {
		return
	}
	world := components.Physics.Get(physicsEntry).World
	view, ok := CurrentView(e)
	if !ok {
		return
	}

	u := config.Map.UnitsPerTile
	lo, hi := view.Visible()
	margin := float64(config.Render.StreamMargin*tilemap.ChunkSize) * u
	lo = lo.Sub(geom.V(margin, margin))
	hi = hi.Add(geom.V(margin, margin))

	var enter, leave []*donburi.Entry
	tags.Chunk.Each(e.World, func(entry *donburi.Entry) {
		c := components.Chunk.Get(entry)
		near := c.Layer.Collides() && overlaps(chunkArea(c, u), lo, hi)
		live := entry.HasComponent(tags.Active)
		switch {
		case near && !live:
			enter = append(enter, entry)
		case !near && live:
			leave = append(leave, entry)
		}
	})

	for _, entry := range leave {
		components.Chunk.Get(entry).Chunk.Release(world)
		entry.RemoveComponent(tags.Active)
	}
	for _, entry := range enter {
		c := components.Chunk.Get(entry)
		if _, err := c.Chunk.EnsurePhysics(world, m.Tilesets, tilemap.LayerChunkOrigin(c.Layer, c.Pos, u)); err != nil {
			log.Printf("[chunks] layer %q chunk %v: %v", c.Layer.Name, c.Pos, err)
			continue
		}
		entry.AddComponent(tags.Active)
	}
}

// chunkArea is the world rectangle of a chunk.
func chunkArea(c *components.ChunkData, u float64) [2]geom.Vec2 {
	origin := tilemap.LayerChunkOrigin(c.Layer, c.Pos, u)
	size := float64(tilemap.ChunkSize) * u
	return [2]geom.Vec2{origin.Sub(geom.V(0, size)), origin.Add(geom.V(size, 0))}
}

func overlaps(r [2]geom.Vec2, lo, hi geom.Vec2) bool {
	return r[0].X < hi.X && r[1].X > lo.X && r[0].Y < hi.Y && r[1].Y > lo.Y
}
