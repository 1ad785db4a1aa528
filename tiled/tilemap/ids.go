// Package tilemap builds the runtime map model: global tile ids resolved to
// (tileset, tile) pairs, tile layers split into fixed-size chunks, and the
// per-chunk physics bodies and render instances derived from them.
package tilemap

import "github.com/automoto/tilechunk/tiled/tileset"

// TilesetID numbers a map's tilesets from 1. Zero means no tileset.
type TilesetID uint16

type LocalTileID = tileset.LocalTileID

// TileID packs a TilesetID into the high 16 bits and a LocalTileID into the
// low 16 bits. The zero TileID is the empty tile.
type TileID uint32

const EmptyTile TileID = 0

func NewTileID(set TilesetID, tile LocalTileID) TileID {
	return TileID(set)<<16 | TileID(tile)
}

func (id TileID) Tileset() TilesetID {
	return TilesetID(id >> 16)
}

func (id TileID) Tile() LocalTileID {
	return LocalTileID(id & 0xffff)
}

func (id TileID) IsEmpty() bool {
	return id.Tileset() == 0
}
