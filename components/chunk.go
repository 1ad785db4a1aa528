package components

import (
	"image"

	"github.com/automoto/tilechunk/tiled/tilemap"
	"github.com/yohamta/donburi"
)

// ChunkData is one chunk of one tile layer.
type ChunkData struct {
	Layer *tilemap.TileLayer
	Pos   image.Point
	Chunk *tilemap.Chunk
}

var Chunk = donburi.NewComponentType[ChunkData]()
