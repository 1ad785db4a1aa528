package components

import (
	"github.com/automoto/tilechunk/tiled/tilemap"
	"github.com/automoto/tilechunk/tiled/tileset"
	"github.com/yohamta/donburi"
)

// AnimationData drives every animated tile of a map, one Animator per
// animated tile id.
type AnimationData struct {
	Animators map[tilemap.TileID]*tileset.Animator
}

// Frame returns the tile currently shown in place of id.
func (a *AnimationData) Frame(id tilemap.TileID) tilemap.TileID {
	anim, ok := a.Animators[id]
	if !ok {
		return id
	}
	return tilemap.NewTileID(id.Tileset(), anim.Tile())
}

var Animation = donburi.NewComponentType[AnimationData]()
