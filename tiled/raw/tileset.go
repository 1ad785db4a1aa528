package raw

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/automoto/tilechunk/tiled/source"
)

// MapTileset is a map's <tileset> reference. Tilesets loaded from the same
// external file share one *Tileset.
type MapTileset struct {
	FirstGID GlobalTileID
	External Optional[source.Source]
	Tileset  *Tileset
}

// Tileset is a parsed tileset definition.
type Tileset struct {
	Source     source.Source
	Name       string
	TileWidth  int
	TileHeight int
	TileCount  int
	Columns    int
	Spacing    int
	Margin     int
	Offset     TileOffset
	Image      *Image
	Properties Properties
	Tiles      []*Tile
}

// Rows is the number of tile rows in the sheet, rounded up.
func (ts *Tileset) Rows() int {
	if ts.Columns <= 0 {
		return 0
	}
	return (ts.TileCount + ts.Columns - 1) / ts.Columns
}

// TileOffset shifts every tile when drawn, in pixels.
type TileOffset struct {
	X, Y int
}

// Tile is a sparse per-tile override.
type Tile struct {
	ID          LocalTileID
	Type        string
	Terrain     string
	Probability Optional[float64]
	Properties  Properties
	Image       *Image
	Animation   *Animation
	Objects     *ObjectGroup
}

type Animation struct {
	Frames []Frame
}

type Frame struct {
	TileID   LocalTileID
	Duration time.Duration
}

func parseMapTileset(ctx *Context, el xml.StartElement) (*MapTileset, error) {
	var (
		mt  MapTileset
		ref Optional[string]
		gid uint32
	)
	err := ctx.Attrs(el,
		Req("firstgid", Into(&gid, parseUint32)),
		Opt("source", Maybe(&ref, parseString)),
	)
	if err != nil {
		return nil, err
	}
	mt.FirstGID = GlobalTileID(gid)

	rel, external := ref.Get()
	if !external {
		mt.Tileset, err = parseTileset(ctx, el)
		if err != nil {
			return nil, err
		}
		return &mt, nil
	}

	if err := ctx.Empty(el); err != nil {
		return nil, err
	}
	src, err := ctx.Source.Relative(rel)
	if err != nil {
		return nil, ctx.errorf("tileset", err, "tileset source %q", rel)
	}
	mt.External = Some(src)
	mt.Tileset, err = loadTileset(ctx, src)
	if err != nil {
		return nil, err
	}
	return &mt, nil
}

// loadTileset returns the cached tileset for src or parses it in a
// sub-context and caches it.
func loadTileset(ctx *Context, src source.Source) (*Tileset, error) {
	if ts, ok := ctx.shared.tilesets[src]; ok {
		return ts, nil
	}
	ts, err := subparse[*Tileset](ctx, src, "tileset", parseTileset)
	if err != nil {
		return nil, fmt.Errorf("tileset %s: %w", src, err)
	}
	ctx.shared.tilesets[src] = ts
	return ts, nil
}

func parseTileset(ctx *Context, el xml.StartElement) (*Tileset, error) {
	ts := &Tileset{Source: ctx.Source}
	err := ctx.Parse(el, Schema{
		Attrs: []Attr{
			Req("name", String(&ts.Name)),
			Req("tilewidth", Int(&ts.TileWidth)),
			Req("tileheight", Int(&ts.TileHeight)),
			Req("tilecount", Int(&ts.TileCount)),
			Req("columns", Int(&ts.Columns)),
			Opt("spacing", Int(&ts.Spacing)),
			Opt("margin", Int(&ts.Margin)),
		},
		Children: []Child{
			On("tileoffset", func(ctx *Context, el xml.StartElement) error {
				return ctx.Parse(el, Schema{Attrs: []Attr{
					Req("x", Int(&ts.Offset.X)),
					Req("y", Int(&ts.Offset.Y)),
				}})
			}),
			On("image", func(ctx *Context, el xml.StartElement) error {
				img, err := parseImage(ctx, el)
				ts.Image = img
				return err
			}),
			On("properties", func(ctx *Context, el xml.StartElement) error {
				props, err := parseProperties(ctx, el)
				ts.Properties = props
				return err
			}),
			On("tile", func(ctx *Context, el xml.StartElement) error {
				t, err := parseTile(ctx, el)
				if err != nil {
					return err
				}
				ts.Tiles = append(ts.Tiles, t)
				return nil
			}),
		},
	})
	if err != nil {
		return nil, err
	}
	return ts, nil
}

func parseTile(ctx *Context, el xml.StartElement) (*Tile, error) {
	t := &Tile{}
	var id uint32
	err := ctx.Parse(el, Schema{
		Attrs: []Attr{
			Req("id", Into(&id, parseUint32)),
			Opt("type", String(&t.Type)),
			Opt("class", String(&t.Type)),
			Opt("terrain", String(&t.Terrain)),
			Opt("probability", Maybe(&t.Probability, parseFloat)),
		},
		Children: []Child{
			On("properties", func(ctx *Context, el xml.StartElement) error {
				props, err := parseProperties(ctx, el)
				t.Properties = props
				return err
			}),
			On("image", func(ctx *Context, el xml.StartElement) error {
				img, err := parseImage(ctx, el)
				t.Image = img
				return err
			}),
			On("animation", func(ctx *Context, el xml.StartElement) error {
				a, err := parseAnimation(ctx, el)
				t.Animation = a
				return err
			}),
			On("objectgroup", func(ctx *Context, el xml.StartElement) error {
				g, err := parseObjectGroup(ctx, el)
				t.Objects = g
				return err
			}),
		},
	})
	if err != nil {
		return nil, err
	}
	t.ID = LocalTileID(id)
	return t, nil
}

func parseAnimation(ctx *Context, el xml.StartElement) (*Animation, error) {
	a := &Animation{}
	err := ctx.Parse(el, Schema{
		Children: []Child{
			On("frame", func(ctx *Context, el xml.StartElement) error {
				var (
					id uint32
					ms float64
				)
				err := ctx.Parse(el, Schema{Attrs: []Attr{
					Req("tileid", Into(&id, parseUint32)),
					Req("duration", Float(&ms)),
				}})
				if err != nil {
					return err
				}
				a.Frames = append(a.Frames, Frame{
					TileID:   LocalTileID(id),
					Duration: time.Duration(ms * float64(time.Millisecond)),
				})
				return nil
			}),
		},
	})
	return a, err
}
