package tags

import (
	"github.com/automoto/tilechunk/physics/resolvspace"
	"github.com/yohamta/donburi"
)

var (
	Map    = donburi.NewTag().SetName("Map")
	Chunk  = donburi.NewTag().SetName("Chunk")
	Marker = donburi.NewTag().SetName("Marker")

	// Active marks chunks that currently hold a physics body.
	Active = donburi.NewTag().SetName("Active")
)

// Resolv tags
const (
	ResolvSolid  = resolvspace.TagSolid
	ResolvSensor = resolvspace.TagSensor
	ResolvMarker = "marker"
)
