package tilemap

import (
	"cmp"
	"image"
	"math"
	"slices"

	"github.com/automoto/tilechunk/shared/geom"
)

// TileData is the chunked tile grid of one layer. A missing chunk is
// entirely empty.
type TileData struct {
	Chunks map[image.Point]*Chunk
}

func NewTileData() TileData {
	return TileData{Chunks: make(map[image.Point]*Chunk)}
}

// ChunkPos returns the chunk holding tile, using floor division so negative
// tiles land in negative chunks.
func ChunkPos(tile image.Point) image.Point {
	return image.Pt(geom.FloorDiv(tile.X, ChunkSize), geom.FloorDiv(tile.Y, ChunkSize))
}

// CellPos returns the position of tile inside its chunk.
func CellPos(tile image.Point) image.Point {
	return image.Pt(geom.FloorMod(tile.X, ChunkSize), geom.FloorMod(tile.Y, ChunkSize))
}

// TilePosAt converts a y-up world position into the y-down tile grid.
func TilePosAt(world geom.Vec2, unitsPerTile float64) image.Point {
	return image.Pt(
		int(math.Floor(world.X/unitsPerTile)),
		int(math.Floor(-world.Y/unitsPerTile)),
	)
}

// ChunkPosOf returns the chunk under a world position.
func ChunkPosOf(world geom.Vec2, unitsPerTile float64) image.Point {
	return ChunkPos(TilePosAt(world, unitsPerTile))
}

// ChunkOrigin is the world position of the top-left corner of chunk pos.
func ChunkOrigin(pos image.Point, unitsPerTile float64) geom.Vec2 {
	return geom.V(float64(pos.X*ChunkSize), -float64(pos.Y*ChunkSize)).Scale(unitsPerTile)
}

// Get returns the tile at a tile position, or EmptyTile.
func (d *TileData) Get(tile image.Point) TileID {
	c, ok := d.Chunks[ChunkPos(tile)]
	if !ok {
		return EmptyTile
	}
	cell := CellPos(tile)
	return c.At(cell.X, cell.Y)
}

// Validate validates every chunk.
func (d *TileData) Validate(sets *Tilesets) error {
	for _, pos := range d.Positions() {
		if err := d.Chunks[pos].Validate(sets); err != nil {
			return &ValidationError{What: "tile data", Msg: "chunk " + pos.String(), Err: err}
		}
	}
	return nil
}

// Positions lists chunk positions row by row, top to bottom.
func (d *TileData) Positions() []image.Point {
	out := make([]image.Point, 0, len(d.Chunks))
	for pos := range d.Chunks {
		out = append(out, pos)
	}
	slices.SortFunc(out, func(a, b image.Point) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return out
}

// Bounds is the tile rectangle covered by the stored chunks.
func (d *TileData) Bounds() image.Rectangle {
	var r image.Rectangle
	for pos := range d.Chunks {
		at := pos.Mul(ChunkSize)
		r = r.Union(image.Rectangle{Min: at, Max: at.Add(image.Pt(ChunkSize, ChunkSize))})
	}
	return r
}

// builder scatters tiles at arbitrary positions into chunks.
type builder struct {
	chunks map[image.Point][]TileID
}

func newBuilder() *builder {
	return &builder{chunks: make(map[image.Point][]TileID)}
}

func (b *builder) set(tile image.Point, id TileID) {
	if id.IsEmpty() {
		return
	}
	pos := ChunkPos(tile)
	data, ok := b.chunks[pos]
	if !ok {
		data = make([]TileID, ChunkTiles)
		b.chunks[pos] = data
	}
	cell := CellPos(tile)
	data[cell.Y*ChunkSize+cell.X] = id
}

func (b *builder) build() TileData {
	d := NewTileData()
	for pos, data := range b.chunks {
		d.Chunks[pos] = NewChunk(data)
	}
	return d
}
