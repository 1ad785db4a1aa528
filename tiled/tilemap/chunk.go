package tilemap

import (
	"fmt"
	"slices"

	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/shared/geom"
)

// ChunkSize is the edge length of a chunk in tiles.
const ChunkSize = 16

// ChunkTiles is the number of tiles in a chunk.
const ChunkTiles = ChunkSize * ChunkSize

// Instance is one tile to draw, at a cell of its chunk.
type Instance struct {
	X, Y uint8
	Tile LocalTileID
}

// Chunk is a ChunkSize x ChunkSize block of a tile layer, row by row.
//
// The render instances and the physics body are created on first use and
// are never serialized.
type Chunk struct {
	Data         []TileID
	UsedTilesets []TilesetID

	instances [][]Instance
	body      physics.Body
}

// NewChunk wraps data and records the tilesets it uses.
func NewChunk(data []TileID) *Chunk {
	var used []TilesetID
	for _, id := range data {
		if set := id.Tileset(); set != 0 && !slices.Contains(used, set) {
			used = append(used, set)
		}
	}
	return &Chunk{Data: data, UsedTilesets: used}
}

// Validate checks the size of the chunk and that its tileset list agrees
// with its tiles and with sets.
func (c *Chunk) Validate(sets *Tilesets) error {
	if len(c.Data) != ChunkTiles {
		return invalid("chunk", "contains %d tiles, want %d", len(c.Data), ChunkTiles)
	}
	for _, set := range c.UsedTilesets {
		if sets.Get(set) == nil {
			return invalid("chunk", "references unknown tileset %d", set)
		}
	}
	for i, id := range c.Data {
		if id.IsEmpty() {
			continue
		}
		if !slices.Contains(c.UsedTilesets, id.Tileset()) {
			return invalid("chunk", "tile %d uses tileset %d missing from the used list", i, id.Tileset())
		}
		ts := sets.Get(id.Tileset())
		if ts != nil && ts.Get(id.Tile()) == nil {
			return invalid("chunk", "tile %d is out of range for tileset %d", i, id.Tileset())
		}
	}
	return nil
}

// Empty reports whether the chunk holds no tiles.
func (c *Chunk) Empty() bool {
	return len(c.UsedTilesets) == 0
}

// At returns the tile at cell (x, y).
func (c *Chunk) At(x, y int) TileID {
	return c.Data[y*ChunkSize+x]
}

// EnsureInstances builds, once, the draw list of every used tileset, in the
// order of UsedTilesets.
func (c *Chunk) EnsureInstances() [][]Instance {
	if c.instances != nil {
		return c.instances
	}
	c.instances = make([][]Instance, len(c.UsedTilesets))
	for i, set := range c.UsedTilesets {
		for j, id := range c.Data {
			if id.Tileset() != set {
				continue
			}
			c.instances[i] = append(c.instances[i], Instance{
				X:    uint8(j % ChunkSize),
				Y:    uint8(j / ChunkSize),
				Tile: id.Tile(),
			})
		}
	}
	return c.instances
}

// EnsurePhysics creates, once, a static body at origin holding the fixtures
// of every tile in the chunk. Calling it again returns the same body.
func (c *Chunk) EnsurePhysics(world physics.World, sets *Tilesets, origin geom.Vec2) (physics.Body, error) {
	if c.body != nil {
		return c.body, nil
	}

	body, err := world.CreateStaticBody(origin)
	if err != nil {
		return nil, fmt.Errorf("chunk body: %w", err)
	}
	for i, id := range c.Data {
		tile := sets.GetTile(id)
		if tile == nil || len(tile.Colliders) == 0 {
			continue
		}
		ts := sets.Get(id.Tileset())
		if err := tile.CreateFixtures(body, ts.PlacementAt(i%ChunkSize, i/ChunkSize)); err != nil {
			world.DestroyBody(body)
			return nil, fmt.Errorf("chunk tile %d: %w", i, err)
		}
	}
	c.body = body
	return body, nil
}

// Body is the physics body, or nil before EnsurePhysics.
func (c *Chunk) Body() physics.Body {
	return c.body
}

// Release destroys the physics body and drops the render instances.
func (c *Chunk) Release(world physics.World) {
	if c.body != nil {
		world.DestroyBody(c.body)
		c.body = nil
	}
	c.instances = nil
}
