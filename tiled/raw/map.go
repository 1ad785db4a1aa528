package raw

import (
	"encoding/xml"
	"fmt"
	"image/color"
)

type Orientation string

const (
	Orthogonal Orientation = "orthogonal"
	Isometric  Orientation = "isometric"
	Staggered  Orientation = "staggered"
	Hexagonal  Orientation = "hexagonal"
)

type RenderOrder string

const (
	RightDown RenderOrder = "right-down"
	RightUp   RenderOrder = "right-up"
	LeftDown  RenderOrder = "left-down"
	LeftUp    RenderOrder = "left-up"
)

// Map is a parsed <map> document.
type Map struct {
	Version         string
	TiledVersion    string
	Orientation     Orientation
	RenderOrder     RenderOrder
	Width           int
	Height          int
	TileWidth       int
	TileHeight      int
	Infinite        bool
	HexSideLength   Optional[float64]
	StaggerAxis     Optional[string]
	StaggerIndex    Optional[string]
	BackgroundColor Optional[color.NRGBA]
	NextLayerID     int
	NextObjectID    int
	Properties      Properties

	Tilesets []*MapTileset
	Layers   []Layer
}

func parseMap(ctx *Context, el xml.StartElement) (*Map, error) {
	m := &Map{RenderOrder: RightDown}
	var (
		orientation, renderorder string
		set                      layerSet
	)
	children := append(set.children(),
		On("tileset", func(ctx *Context, el xml.StartElement) error {
			ts, err := parseMapTileset(ctx, el)
			if err != nil {
				return err
			}
			m.Tilesets = append(m.Tilesets, ts)
			return nil
		}),
		On("properties", func(ctx *Context, el xml.StartElement) error {
			props, err := parseProperties(ctx, el)
			m.Properties = props
			return err
		}),
	)

	err := ctx.Parse(el, Schema{
		Attrs: []Attr{
			Req("version", String(&m.Version)),
			Opt("tiledversion", String(&m.TiledVersion)),
			Req("orientation", String(&orientation)),
			Opt("renderorder", String(&renderorder)),
			Req("width", Int(&m.Width)),
			Req("height", Int(&m.Height)),
			Req("tilewidth", Int(&m.TileWidth)),
			Req("tileheight", Int(&m.TileHeight)),
			Opt("infinite", Flag(&m.Infinite)),
			Opt("hexsidelength", Maybe(&m.HexSideLength, parseFloat)),
			Opt("staggeraxis", Maybe(&m.StaggerAxis, oneOf("x", "y"))),
			Opt("staggerindex", Maybe(&m.StaggerIndex, oneOf("odd", "even"))),
			Opt("backgroundcolor", Maybe(&m.BackgroundColor, ParseColor)),
			Opt("nextlayerid", Int(&m.NextLayerID)),
			Opt("nextobjectid", Int(&m.NextObjectID)),
		},
		Children: children,
	})
	if err != nil {
		return nil, err
	}

	switch o := Orientation(orientation); o {
	case Orthogonal, Isometric, Staggered, Hexagonal:
		m.Orientation = o
	default:
		return nil, ctx.errorf("map", nil, "unknown orientation %q", orientation)
	}
	if renderorder != "" {
		switch r := RenderOrder(renderorder); r {
		case RightDown, RightUp, LeftDown, LeftUp:
			m.RenderOrder = r
		default:
			return nil, ctx.errorf("map", nil, "unknown renderorder %q", renderorder)
		}
	}

	m.Layers = set.combine()
	return m, nil
}

func oneOf(allowed ...string) func(string) (string, error) {
	return func(s string) (string, error) {
		for _, a := range allowed {
			if s == a {
				return s, nil
			}
		}
		return "", fmt.Errorf("%q is not one of %q", s, allowed)
	}
}
