package components

import (
	"github.com/automoto/tilechunk/tiled/tilemap"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// MarkerData is an object layer marker. Object covers the marker's area in
// the map's resolv space.
type MarkerData struct {
	Marker tilemap.Marker
	Object *resolv.Object
}

var Marker = donburi.NewComponentType[MarkerData]()
