package components

import (
	"github.com/automoto/tilechunk/render"
	"github.com/automoto/tilechunk/tiled/tilemap"
	"github.com/yohamta/donburi"
)

type MapData struct {
	Name     string
	Map      *tilemap.Map
	Renderer *render.Renderer
}

var Map = donburi.NewComponentType[MapData]()
