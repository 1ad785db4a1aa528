package systems

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/automoto/tilechunk/components"
	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/fonts"
	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/render"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tags"
	"github.com/automoto/tilechunk/tiled/tilemap"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var markerColor = color.RGBA{255, 200, 0, 255}

// DrawDebug outlines the fixtures of live chunks and the marker areas when
// config.Render.DebugColliders is set.
func DrawDebug(e *ecs.ECS, screen *ebiten.Image) {
	if !config.Render.DebugColliders {
		return
	}
	view, ok := CurrentView(e)
	if !ok {
		return
	}
	mapEntry, ok := components.Map.First(e.World)
	if !ok {
		return
	}
	m := components.Map.Get(mapEntry).Map

	tags.Active.Each(e.World, func(entry *donburi.Entry) {
		c := components.Chunk.Get(entry)
		body := c.Chunk.Body()
		if body == nil {
			return
		}
		render.DrawFixtures(screen, view, body.Position(), ChunkFixtures(m, c.Chunk))
	})

	spaceEntry, ok := components.Space.First(e.World)
	if !ok {
		return
	}
	space := components.Space.Get(spaceEntry)
	components.Marker.Each(e.World, func(entry *donburi.Entry) {
		obj := components.Marker.Get(entry).Object
		a := view.ToScreen(space.FromSpace(geom.V(obj.X, obj.Y)))
		b := view.ToScreen(space.FromSpace(geom.V(obj.X+obj.W, obj.Y+obj.H)))
		w, h := float32(b.X-a.X), float32(b.Y-a.Y)

		// Draw outline
		vector.FillRect(screen, float32(a.X), float32(a.Y), w, 1, markerColor, false)   // Top
		vector.FillRect(screen, float32(a.X), float32(b.Y)-1, w, 1, markerColor, false) // Bottom
		vector.FillRect(screen, float32(a.X), float32(a.Y), 1, h, markerColor, false)   // Left
		vector.FillRect(screen, float32(b.X)-1, float32(a.Y), 1, h, markerColor, false) // Right
	})
}

// ChunkFixtures rebuilds the fixture list of a chunk in body space.
func ChunkFixtures(m *tilemap.Map, c *tilemap.Chunk) []physics.FixtureDef {
	var out []physics.FixtureDef
	for i, id := range c.Data {
		tile := m.Tilesets.GetTile(id)
		if tile == nil {
			continue
		}
		ts := m.Tilesets.Get(id.Tileset())
		out = append(out, tile.Fixtures(ts.PlacementAt(i%tilemap.ChunkSize, i/tilemap.ChunkSize))...)
	}
	return out
}

// DrawHUD prints the map name, the tile under the cursor and the markers
// there.
func DrawHUD(e *ecs.ECS, screen *ebiten.Image) {
	mapEntry, ok := components.Map.First(e.World)
	if !ok {
		return
	}
	view, ok := CurrentView(e)
	if !ok {
		return
	}
	data := components.Map.Get(mapEntry)

	cx, cy := ebiten.CursorPosition()
	at := view.ToWorld(geom.V(float64(cx), float64(cy)))
	tile := tilemap.TilePosAt(at, config.Map.UnitsPerTile)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  tile %d,%d", data.Name, tile.X, tile.Y)
	for _, l := range data.Map.Layers {
		local := tilemap.TilePosAt(at.Sub(l.Offset.Scale(config.Map.UnitsPerTile)), config.Map.UnitsPerTile)
		if id := l.Data.Get(local); !id.IsEmpty() {
			fmt.Fprintf(&b, "\n%s: set %d tile %d", l.Name, id.Tileset(), id.Tile())
		}
	}
	for _, entry := range MarkersAt(e, at) {
		mk := components.Marker.Get(entry).Marker
		fmt.Fprintf(&b, "\nmarker %q type %q (%s)", mk.Name, mk.Type, mk.Kind)
	}
	face := fonts.HUD.Get()
	op := &text.DrawOptions{}
	op.GeoM.Translate(4, 2)
	op.LineSpacing = fonts.Size[fonts.HUD] * 1.4
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, b.String(), face, op)
}
