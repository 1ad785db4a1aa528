package factory

import (
	"github.com/automoto/tilechunk/archetypes"
	"github.com/automoto/tilechunk/components"
	"github.com/automoto/tilechunk/render"
	"github.com/automoto/tilechunk/tiled/tilemap"
	"github.com/automoto/tilechunk/tiled/tileset"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateMap spawns the map entity plus one entity per chunk of every tile
// layer.
func CreateMap(ecs *ecs.ECS, name string, m *tilemap.Map) *donburi.Entry {
	entry := archetypes.Map.Spawn(ecs)
	components.Map.Set(entry, &components.MapData{
		Name:     name,
		Map:      m,
		Renderer: render.NewRenderer(m),
	})
	components.Animation.Set(entry, &components.AnimationData{
		Animators: animators(m.Tilesets),
	})

	for _, l := range m.Layers {
		for _, pos := range l.Data.Positions() {
			chunk := archetypes.Chunk.Spawn(ecs)
			components.Chunk.Set(chunk, &components.ChunkData{
				Layer: l,
				Pos:   pos,
				Chunk: l.Data.Chunks[pos],
			})
		}
	}
	return entry
}

func animators(sets *tilemap.Tilesets) map[tilemap.TileID]*tileset.Animator {
	out := make(map[tilemap.TileID]*tileset.Animator)
	for _, id := range sets.IDs() {
		ts := sets.Get(id)
		for i := range ts.Tiles {
			if anim := ts.Tiles[i].Animation; anim != nil && len(anim.Frames) > 0 {
				out[tilemap.NewTileID(id, tilemap.LocalTileID(i))] = tileset.NewAnimator(anim)
			}
		}
	}
	return out
}
