package tilemap

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/hashicorp/go-msgpack/v2/codec"

	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/source"
	"github.com/automoto/tilechunk/tiled/tileset"
)

// FormatVersion is written into every compiled map. Loading any other
// version fails with ErrFormatVersion.
const FormatVersion = 1

var ErrFormatVersion = errors.New("unsupported compiled map version")

type mapWire struct {
	Version    int               `json:"version" codec:"version"`
	Width      int               `json:"width" codec:"width"`
	Height     int               `json:"height" codec:"height"`
	TileWidth  int               `json:"tileWidth" codec:"tileWidth"`
	TileHeight int               `json:"tileHeight" codec:"tileHeight"`
	Infinite   bool              `json:"infinite,omitempty" codec:"infinite,omitempty"`
	Background [4]uint8          `json:"background" codec:"background"`
	Properties map[string]string `json:"properties,omitempty" codec:"properties,omitempty"`
	Tilesets   []tilesetWire     `json:"tilesets" codec:"tilesets"`
	Ranges     []rangeWire       `json:"ranges" codec:"ranges"`
	Layers     []layerWire       `json:"layers" codec:"layers"`
	Images     []imageLayerWire  `json:"images,omitempty" codec:"images,omitempty"`
	Markers    []Marker          `json:"markers,omitempty" codec:"markers,omitempty"`
}

// rangeWire points at the unique tileset list so that shared tilesets are
// written once.
type rangeWire struct {
	Start uint32 `json:"start" codec:"start"`
	End   uint32 `json:"end" codec:"end"`
	Set   int    `json:"set" codec:"set"`
}

type tilesetWire struct {
	Name       string        `json:"name" codec:"name"`
	Source     source.Source `json:"source" codec:"source"`
	TileWidth  int           `json:"tileWidth" codec:"tileWidth"`
	TileHeight int           `json:"tileHeight" codec:"tileHeight"`
	Columns    int           `json:"columns" codec:"columns"`
	Rows       int           `json:"rows" codec:"rows"`
	Margin     int           `json:"margin,omitempty" codec:"margin,omitempty"`
	Spacing    int           `json:"spacing,omitempty" codec:"spacing,omitempty"`
	Offset     image.Point   `json:"offset" codec:"offset"`
	TileScale  geom.Vec2     `json:"tileScale" codec:"tileScale"`
	Image      tileset.Image `json:"image" codec:"image"`
	Count      int           `json:"count" codec:"count"`
	Tiles      []tileWire    `json:"tiles,omitempty" codec:"tiles,omitempty"`
}

// tileWire is only written for tiles that differ from the zero tile.
type tileWire struct {
	ID        int               `json:"id" codec:"id"`
	Type      string            `json:"type,omitempty" codec:"type,omitempty"`
	Flags     tileset.TileFlags `json:"flags,omitempty" codec:"flags,omitempty"`
	Colliders []colliderWire    `json:"colliders,omitempty" codec:"colliders,omitempty"`
	Frames    []tileset.Frame   `json:"frames,omitempty" codec:"frames,omitempty"`
}

type colliderWire struct {
	Kind     string            `json:"kind" codec:"kind"`
	Points   []geom.Vec2       `json:"points" codec:"points"`
	RadiusX  float64           `json:"rx,omitempty" codec:"rx,omitempty"`
	RadiusY  float64           `json:"ry,omitempty" codec:"ry,omitempty"`
	Rotation float64           `json:"rotation,omitempty" codec:"rotation,omitempty"`
	Origin   geom.Vec2         `json:"origin" codec:"origin"`
	Flags    tileset.TileFlags `json:"flags,omitempty" codec:"flags,omitempty"`
}

type layerWire struct {
	Order   int         `json:"order" codec:"order"`
	ID      int         `json:"id" codec:"id"`
	Name    string      `json:"name" codec:"name"`
	Flags   LayerFlags  `json:"flags,omitempty" codec:"flags,omitempty"`
	Opacity float64     `json:"opacity" codec:"opacity"`
	Visible bool        `json:"visible" codec:"visible"`
	Offset  geom.Vec2   `json:"offset" codec:"offset"`
	Chunks  []chunkWire `json:"chunks" codec:"chunks"`
}

type chunkWire struct {
	X    int      `json:"x" codec:"x"`
	Y    int      `json:"y" codec:"y"`
	Data []TileID `json:"data" codec:"data"`
}

type imageLayerWire struct {
	Order   int            `json:"order" codec:"order"`
	ID      int            `json:"id" codec:"id"`
	Name    string         `json:"name" codec:"name"`
	Opacity float64        `json:"opacity" codec:"opacity"`
	Visible bool           `json:"visible" codec:"visible"`
	Offset  geom.Vec2      `json:"offset" codec:"offset"`
	Image   *tileset.Image `json:"image,omitempty" codec:"image,omitempty"`
}

// SaveJSON writes m as indented JSON. Physics bodies and render instances
// are runtime state and are not written.
func (m *Map) SaveJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.wire()); err != nil {
		return fmt.Errorf("encode map: %w", err)
	}
	return nil
}

// LoadJSON reads a map written by SaveJSON.
func LoadJSON(r io.Reader) (*Map, error) {
	var w mapWire
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}
	return fromWire(&w)
}

// SaveBinary writes m as gzip compressed msgpack.
func (m *Map) SaveBinary(w io.Writer) error {
	zw := gzip.NewWriter(w)
	if err := codec.NewEncoder(zw, &codec.MsgpackHandle{}).Encode(m.wire()); err != nil {
		zw.Close()
		return fmt.Errorf("encode map: %w", err)
	}
	return zw.Close()
}

// LoadBinary reads a map written by SaveBinary.
func LoadBinary(r io.Reader) (*Map, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}
	defer zr.Close()
	var w mapWire
	if err := codec.NewDecoder(zr, &codec.MsgpackHandle{}).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}
	return fromWire(&w)
}

func (m *Map) wire() *mapWire {
	bg := m.Background
	w := &mapWire{
		Version:    FormatVersion,
		Width:      m.Width,
		Height:     m.Height,
		TileWidth:  m.TileWidth,
		TileHeight: m.TileHeight,
		Infinite:   m.Infinite,
		Background: [4]uint8{bg.R, bg.G, bg.B, bg.A},
		Properties: m.Properties,
		Markers:    m.Markers,
	}

	unique := make(map[*tileset.Tileset]int)
	for _, id := range m.Tilesets.IDs() {
		ts := m.Tilesets.Get(id)
		idx, ok := unique[ts]
		if !ok {
			idx = len(w.Tilesets)
			unique[ts] = idx
			w.Tilesets = append(w.Tilesets, tilesetToWire(ts))
		}
		rng, _ := m.Tilesets.Range(id)
		w.Ranges = append(w.Ranges, rangeWire{Start: rng.Start, End: rng.End, Set: idx})
	}

	for _, l := range m.Layers {
		lw := layerWire{
			Order: l.Order, ID: l.ID, Name: l.Name, Flags: l.Flags,
			Opacity: l.Opacity, Visible: l.Visible, Offset: l.Offset,
		}
		for _, pos := range l.Data.Positions() {
			lw.Chunks = append(lw.Chunks, chunkWire{X: pos.X, Y: pos.Y, Data: l.Data.Chunks[pos].Data})
		}
		w.Layers = append(w.Layers, lw)
	}
	for _, l := range m.Images {
		w.Images = append(w.Images, imageLayerWire{
			Order: l.Order, ID: l.ID, Name: l.Name,
			Opacity: l.Opacity, Visible: l.Visible, Offset: l.Offset, Image: l.Image,
		})
	}
	return w
}

func fromWire(w *mapWire) (*Map, error) {
	if w.Version != FormatVersion {
		return nil, fmt.Errorf("%w %d", ErrFormatVersion, w.Version)
	}
	m := &Map{
		Width:      w.Width,
		Height:     w.Height,
		TileWidth:  w.TileWidth,
		TileHeight: w.TileHeight,
		Infinite:   w.Infinite,
		Background: color.NRGBA{R: w.Background[0], G: w.Background[1], B: w.Background[2], A: w.Background[3]},
		Properties: w.Properties,
		Tilesets:   &Tilesets{},
		Markers:    w.Markers,
	}

	sets := make([]*tileset.Tileset, len(w.Tilesets))
	for i := range w.Tilesets {
		ts, err := tilesetFromWire(&w.Tilesets[i])
		if err != nil {
			return nil, fmt.Errorf("tileset %d: %w", i, err)
		}
		sets[i] = ts
	}
	for _, r := range w.Ranges {
		if r.Set < 0 || r.Set >= len(sets) {
			return nil, invalid("tilesets", "range %v names tileset %d of %d", Range{r.Start, r.End}, r.Set, len(sets))
		}
		m.Tilesets.Add(Range{Start: r.Start, End: r.End}, sets[r.Set])
	}

	for _, lw := range w.Layers {
		l := &TileLayer{
			Order: lw.Order, ID: lw.ID, Name: lw.Name, Flags: lw.Flags,
			Opacity: lw.Opacity, Visible: lw.Visible, Offset: lw.Offset,
			Data: NewTileData(),
		}
		for _, cw := range lw.Chunks {
			pos := image.Pt(cw.X, cw.Y)
			if _, dup := l.Data.Chunks[pos]; dup {
				return nil, invalid("layer", "%q has chunk %v twice", lw.Name, pos)
			}
			l.Data.Chunks[pos] = NewChunk(cw.Data)
		}
		m.Layers = append(m.Layers, l)
	}
	for _, iw := range w.Images {
		m.Images = append(m.Images, &ImageLayer{
			Order: iw.Order, ID: iw.ID, Name: iw.Name,
			Opacity: iw.Opacity, Visible: iw.Visible, Offset: iw.Offset, Image: iw.Image,
		})
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func tilesetToWire(ts *tileset.Tileset) tilesetWire {
	w := tilesetWire{
		Name: ts.Name, Source: ts.Source,
		TileWidth: ts.TileWidth, TileHeight: ts.TileHeight,
		Columns: ts.Columns, Rows: ts.Rows, Margin: ts.Margin, Spacing: ts.Spacing,
		Offset: ts.Offset, TileScale: ts.TileScale, Image: ts.Image,
		Count: len(ts.Tiles),
	}
	for i := range ts.Tiles {
		t := &ts.Tiles[i]
		if t.Type == "" && t.Flags == tileset.FlagsNone && len(t.Colliders) == 0 && t.Animation == nil {
			continue
		}
		tw := tileWire{ID: i, Type: t.Type, Flags: t.Flags}
		for _, c := range t.Colliders {
			tw.Colliders = append(tw.Colliders, colliderToWire(c))
		}
		if t.Animation != nil {
			tw.Frames = t.Animation.Frames
		}
		w.Tiles = append(w.Tiles, tw)
	}
	return w
}

func tilesetFromWire(w *tilesetWire) (*tileset.Tileset, error) {
	if w.Count < 0 || w.Count > tileset.MaxTiles {
		return nil, invalid("tileset", "%q has %d tiles", w.Name, w.Count)
	}
	ts := &tileset.Tileset{
		Name: w.Name, Source: w.Source,
		TileWidth: w.TileWidth, TileHeight: w.TileHeight,
		Columns: w.Columns, Rows: w.Rows, Margin: w.Margin, Spacing: w.Spacing,
		Offset: w.Offset, TileScale: w.TileScale, Image: w.Image,
		Tiles: make([]tileset.Tile, w.Count),
	}
	for _, tw := range w.Tiles {
		if tw.ID < 0 || tw.ID >= w.Count {
			return nil, invalid("tileset", "%q tile %d out of range", w.Name, tw.ID)
		}
		t := &ts.Tiles[tw.ID]
		t.Type, t.Flags = tw.Type, tw.Flags
		for _, cw := range tw.Colliders {
			c, err := colliderFromWire(cw)
			if err != nil {
				return nil, fmt.Errorf("tile %d: %w", tw.ID, err)
			}
			t.Colliders = append(t.Colliders, c)
		}
		if len(tw.Frames) > 0 {
			t.Animation = &tileset.Animation{Frames: tw.Frames}
		}
	}
	return ts, nil
}

func colliderToWire(c tileset.Collider) colliderWire {
	w := colliderWire{Rotation: c.Rotation, Origin: c.Origin, Flags: c.Flags}
	switch s := c.Shape.(type) {
	case tileset.Rect:
		w.Kind, w.Points = "rect", []geom.Vec2{s.Min, s.Max}
	case tileset.Point:
		w.Kind, w.Points = "point", []geom.Vec2{s.Pos}
	case tileset.Ellipse:
		w.Kind, w.Points = "ellipse", []geom.Vec2{s.Center}
		w.RadiusX, w.RadiusY = s.RadiusX, s.RadiusY
	case tileset.Triangle:
		w.Kind, w.Points = "triangle", []geom.Vec2{s.Vertices[0], s.Vertices[1], s.Vertices[2]}
	case tileset.Chain:
		w.Kind, w.Points = "chain", s.Points
	}
	return w
}

func colliderFromWire(w colliderWire) (tileset.Collider, error) {
	c := tileset.Collider{Rotation: w.Rotation, Origin: w.Origin, Flags: w.Flags}
	need := map[string]int{"rect": 2, "point": 1, "ellipse": 1, "triangle": 3}
	if n, ok := need[w.Kind]; ok && len(w.Points) != n {
		return c, fmt.Errorf("%s collider has %d points", w.Kind, len(w.Points))
	}
	switch w.Kind {
	case "rect":
		c.Shape = tileset.Rect{Min: w.Points[0], Max: w.Points[1]}
	case "point":
		c.Shape = tileset.Point{Pos: w.Points[0]}
	case "ellipse":
		c.Shape = tileset.Ellipse{Center: w.Points[0], RadiusX: w.RadiusX, RadiusY: w.RadiusY}
	case "triangle":
		c.Shape = tileset.Triangle{Vertices: geom.Triangle{w.Points[0], w.Points[1], w.Points[2]}}
	case "chain":
		c.Shape = tileset.Chain{Points: w.Points}
	default:
		return c, fmt.Errorf("unknown collider kind %q", w.Kind)
	}
	return c, nil
}
