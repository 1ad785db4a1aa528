// Package tileset resolves raw tileset documents into the per-tile data the
// map needs at runtime: flags, pre-triangulated colliders, animations and
// the texture rectangle of every tile.
package tileset

import (
	"fmt"
	"image"
	"math"

	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/raw"
	"github.com/automoto/tilechunk/tiled/source"
)

// LocalTileID indexes a tile inside one tileset.
type LocalTileID uint16

// MaxTiles is the largest tile count a LocalTileID can address.
const MaxTiles = math.MaxUint16 + 1

// ValidationError reports a tileset that parsed but is inconsistent.
type ValidationError struct {
	Tileset string
	Msg     string
	Err     error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("tileset %q: %s", e.Tileset, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Tile is the resolved data of one tile. Most tiles have no colliders and
// no animation.
type Tile struct {
	Type      string
	Flags     TileFlags
	Colliders []Collider
	Animation *Animation
}

// Image is the tileset sheet. Pixels are loaded by the renderer.
type Image struct {
	Source source.Source
	Width  int
	Height int
}

// Tileset is a resolved tileset. Tiles has one entry per tile in the sheet.
type Tileset struct {
	Name       string
	Source     source.Source
	TileWidth  int
	TileHeight int
	Columns    int
	Rows       int
	Margin     int
	Spacing    int
	Offset     image.Point // drawing offset in pixels
	TileScale  geom.Vec2   // tile size relative to the map tile size
	Image      Image
	Tiles      []Tile
}

// FromRaw resolves r. mapTileSize is the map's tile size in pixels; collision
// shapes are normalized by it.
func FromRaw(r *raw.Tileset, mapTileSize geom.Vec2) (*Tileset, error) {
	fail := func(err error, format string, args ...any) error {
		return &ValidationError{Tileset: r.Name, Msg: fmt.Sprintf(format, args...), Err: err}
	}

	if r.Image == nil {
		return nil, fail(nil, "image collection tilesets are not supported")
	}
	if r.Columns <= 0 {
		return nil, fail(nil, "columns must be positive, got %d", r.Columns)
	}
	if r.TileCount <= 0 || r.TileCount > MaxTiles {
		return nil, fail(nil, "tile count %d out of range", r.TileCount)
	}

	ts := &Tileset{
		Name:       r.Name,
		Source:     r.Source,
		TileWidth:  r.TileWidth,
		TileHeight: r.TileHeight,
		Columns:    r.Columns,
		Rows:       r.Rows(),
		Margin:     r.Margin,
		Spacing:    r.Spacing,
		Offset:     image.Pt(r.Offset.X, r.Offset.Y),
		TileScale:  geom.V(float64(r.TileWidth), float64(r.TileHeight)).Div(mapTileSize),
		Image:      Image{Source: r.Image.Source, Width: r.Image.Width, Height: r.Image.Height},
		Tiles:      make([]Tile, r.TileCount),
	}

	for _, rt := range r.Tiles {
		if int(rt.ID) >= len(ts.Tiles) {
			return nil, fail(nil, "tile id %d out of range (%d tiles)", rt.ID, len(ts.Tiles))
		}
		tile, err := tileFromRaw(rt, mapTileSize, len(ts.Tiles))
		if err != nil {
			return nil, fail(err, "tile %d", rt.ID)
		}
		ts.Tiles[rt.ID] = tile
	}

	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return ts, nil
}

func tileFromRaw(rt *raw.Tile, mapTileSize geom.Vec2, count int) (Tile, error) {
	flags, err := FlagsFromProperties(rt.Properties)
	if err != nil {
		return Tile{}, err
	}
	tile := Tile{Type: rt.Type, Flags: flags}

	if rt.Objects != nil {
		for _, obj := range rt.Objects.Objects {
			cs, err := CollidersFromRaw(obj, mapTileSize, flags)
			if err != nil {
				return Tile{}, err
			}
			tile.Colliders = append(tile.Colliders, cs...)
		}
	}

	if rt.Animation != nil && len(rt.Animation.Frames) > 0 {
		a := &Animation{Frames: make([]Frame, len(rt.Animation.Frames))}
		for i, f := range rt.Animation.Frames {
			if uint64(f.TileID) >= uint64(count) {
				return Tile{}, fmt.Errorf("animation frame %d out of range (%d tiles)", f.TileID, count)
			}
			a.Frames[i] = Frame{Tile: LocalTileID(f.TileID), Duration: f.Duration}
		}
		tile.Animation = a
	}
	return tile, nil
}

// Validate checks the layout against the image and every tile's colliders
// and animation frames. It is safe to call repeatedly.
func (ts *Tileset) Validate() error {
	fail := func(err error, format string, args ...any) error {
		return &ValidationError{Tileset: ts.Name, Msg: fmt.Sprintf(format, args...), Err: err}
	}

	if ts.Columns <= 0 || ts.Rows <= 0 {
		return fail(nil, "empty grid %dx%d", ts.Columns, ts.Rows)
	}
	maxCount := ts.Rows * ts.Columns
	minCount := maxCount - ts.Columns + 1
	if n := len(ts.Tiles); n < minCount || n > maxCount {
		return fail(nil, "tile count %d does not match %d rows of %d columns", n, ts.Rows, ts.Columns)
	}

	usedWidth := ts.Margin + ts.Columns*ts.TileWidth + (ts.Columns-1)*ts.Spacing
	usedHeight := ts.Margin + ts.Rows*ts.TileHeight + (ts.Rows-1)*ts.Spacing
	if usedWidth > ts.Image.Width || usedHeight > ts.Image.Height {
		return fail(nil, "image %dx%d is too small for the tile layout (%dx%d)",
			ts.Image.Width, ts.Image.Height, usedWidth, usedHeight)
	}

	for id, tile := range ts.Tiles {
		for _, c := range tile.Colliders {
			if err := c.Validate(); err != nil {
				return fail(err, "tile %d collider", id)
			}
		}
		if tile.Animation == nil {
			continue
		}
		for _, f := range tile.Animation.Frames {
			if int(f.Tile) >= len(ts.Tiles) {
				return fail(nil, "tile %d animation frame %d out of range", id, f.Tile)
			}
		}
	}
	return nil
}

// Anchor is the top-left corner of a tile image relative to its map cell,
// in map tiles with y down. Tiles taller than the grid sit on the cell's
// bottom edge and the drawing offset shifts them further.
func (ts *Tileset) Anchor() geom.Vec2 {
	if ts.TileScale.X == 0 || ts.TileScale.Y == 0 {
		return geom.Vec2{}
	}
	mapTile := geom.V(float64(ts.TileWidth), float64(ts.TileHeight)).Div(ts.TileScale)
	off := geom.V(float64(ts.Offset.X), float64(ts.Offset.Y)).Div(mapTile)
	return off.Add(geom.V(0, 1-ts.TileScale.Y))
}

// PlacementAt is the package PlacementAt shifted by the tileset's anchor.
func (ts *Tileset) PlacementAt(col, row int) Placement {
	p := PlacementAt(col, row)
	p.Anchor = ts.Anchor()
	return p
}

// TileCount is the number of tiles in the sheet.
func (ts *Tileset) TileCount() int {
	return len(ts.Tiles)
}

// Get returns the tile with the given id, or nil.
func (ts *Tileset) Get(id LocalTileID) *Tile {
	if int(id) >= len(ts.Tiles) {
		return nil
	}
	return &ts.Tiles[id]
}

// PixelRect is the area of tile id inside the sheet image.
func (ts *Tileset) PixelRect(id LocalTileID) image.Rectangle {
	col := int(id) % ts.Columns
	row := int(id) / ts.Columns
	x := ts.Margin + col*(ts.TileWidth+ts.Spacing)
	y := ts.Margin + row*(ts.TileHeight+ts.Spacing)
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight)
}

// UVRect is a tile rectangle in normalized texture coordinates.
type UVRect struct {
	Left, Top, Right, Bottom float32
}

// RectTable returns one UV rectangle per grid cell, row by row.
func (ts *Tileset) RectTable() []UVRect {
	w := float32(ts.Image.Width)
	h := float32(ts.Image.Height)
	out := make([]UVRect, 0, ts.Rows*ts.Columns)
	for i := 0; i < ts.Rows*ts.Columns; i++ {
		r := ts.PixelRect(LocalTileID(i))
		out = append(out, UVRect{
			Left:   float32(r.Min.X) / w,
			Top:    float32(r.Min.Y) / h,
			Right:  float32(r.Max.X) / w,
			Bottom: float32(r.Max.Y) / h,
		})
	}
	return out
}
