package render

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/tilemap"
	"github.com/automoto/tilechunk/tiled/tileset"
)

// FrameFunc picks the tile actually drawn for a tile id, e.g. the current
// animation frame. A nil FrameFunc draws ids as they are.
type FrameFunc func(tilemap.TileID) tilemap.TileID

// Renderer draws one map. Layers are drawn in document order.
type Renderer struct {
	Map    *tilemap.Map
	Atlas  *Atlas
	op     ebiten.DrawImageOptions
	images map[*tilemap.ImageLayer]*ebiten.Image
}

func NewRenderer(m *tilemap.Map) *Renderer {
	return &Renderer{
		Map:    m,
		Atlas:  NewAtlas(m.Tilesets),
		images: make(map[*tilemap.ImageLayer]*ebiten.Image),
	}
}

// Draw renders every visible layer.
func (r *Renderer) Draw(screen *ebiten.Image, view View, frame FrameFunc) {
	type item struct {
		order int
		draw  func()
	}
	var items []item
	for _, l := range r.Map.Layers {
		if l.Visible {
			items = append(items, item{l.Order, func() { r.DrawLayer(screen, l, view, frame) }})
		}
	}
	for _, l := range r.Map.Images {
		if l.Visible {
			items = append(items, item{l.Order, func() { r.drawImageLayer(screen, l, view) }})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].order < items[j].order })
	for _, it := range items {
		it.draw()
	}
}

// DrawLayer renders the chunks of l that overlap the view.
func (r *Renderer) DrawLayer(screen *ebiten.Image, l *tilemap.TileLayer, view View, frame FrameFunc) {
	u := config.Map.UnitsPerTile
	visible := view.ChunkRange(u, 0)
	for _, pos := range l.Data.Positions() {
		if !pos.In(visible) {
			continue
		}
		c := l.Data.Chunks[pos]
		origin := tilemap.LayerChunkOrigin(l, pos, u)
		for i, instances := range c.EnsureInstances() {
			set := c.UsedTilesets[i]
			ts := r.Map.Tilesets.Get(set)
			for _, inst := range instances {
				id := tilemap.NewTileID(set, inst.Tile)
				if frame != nil {
					id = frame(id)
				}
				img := r.Atlas.Tile(id)
				if img == nil {
					continue
				}
				r.drawTile(screen, img, ts, TileTopLeft(origin, int(inst.X), int(inst.Y), ts, r.Map.TileSize(), u), view, l.Opacity)
			}
		}
	}
}

// TileTopLeft is the world position of the top-left corner of a tile image
// drawn in cell (x, y) of a chunk at origin. Tiles taller than the map grid
// are aligned to the bottom of their cell.
func TileTopLeft(origin geom.Vec2, x, y int, ts *tileset.Tileset, mapTile geom.Vec2, unitsPerTile float64) geom.Vec2 {
	off := geom.V(float64(ts.Offset.X), float64(ts.Offset.Y)).Div(mapTile).FlipY()
	cell := geom.V(float64(x), -float64(y+1)+ts.TileScale.Y)
	return origin.Add(cell.Add(off).Scale(unitsPerTile))
}

func (r *Renderer) drawTile(screen, img *ebiten.Image, ts *tileset.Tileset, at geom.Vec2, view View, opacity float64) {
	u := config.Map.UnitsPerTile
	mapTile := r.Map.TileSize()
	p := view.ToScreen(at)

	r.op.GeoM.Reset()
	r.op.GeoM.Scale(view.PixelsPerUnit*u/mapTile.X, view.PixelsPerUnit*u/mapTile.Y)
	r.op.GeoM.Translate(p.X, p.Y)
	r.op.ColorScale.Reset()
	r.op.ColorScale.ScaleAlpha(float32(opacity))
	screen.DrawImage(img, &r.op)
}

func (r *Renderer) drawImageLayer(screen *ebiten.Image, l *tilemap.ImageLayer, view View) {
	img, ok := r.images[l]
	if !ok {
		img = Image(l.Image)
		r.images[l] = img
	}
	if img == nil {
		return
	}
	u := config.Map.UnitsPerTile
	mapTile := r.Map.TileSize()
	p := view.ToScreen(l.Offset.Scale(u))

	r.op.GeoM.Reset()
	r.op.GeoM.Scale(view.PixelsPerUnit*u/mapTile.X, view.PixelsPerUnit*u/mapTile.Y)
	r.op.GeoM.Translate(p.X, p.Y)
	r.op.ColorScale.Reset()
	r.op.ColorScale.ScaleAlpha(float32(l.Opacity))
	screen.DrawImage(img, &r.op)
}
