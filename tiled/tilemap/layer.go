package tilemap

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/raw"
	"github.com/automoto/tilechunk/tiled/tileset"
)

// LayerFlags is read from a tile layer's "flags" property.
type LayerFlags uint32

const (
	LayerNoCollide LayerFlags = 1 << iota

	LayerFlagsNone LayerFlags = 0
)

// ParseLayerFlags reads a pipe-delimited list of NOCOLLIDE and NONE.
func ParseLayerFlags(s string) (LayerFlags, error) {
	flags := LayerFlagsNone
	for _, tok := range strings.Split(s, "|") {
		switch tok = strings.TrimSpace(tok); tok {
		case "", "NONE":
		case "NOCOLLIDE":
			flags |= LayerNoCollide
		default:
			return LayerFlagsNone, fmt.Errorf("%w %q on layer", tileset.ErrUnknownFlag, tok)
		}
	}
	return flags, nil
}

func (f LayerFlags) String() string {
	if f&LayerNoCollide != 0 {
		return "NOCOLLIDE"
	}
	return "NONE"
}

// TileLayer is a resolved tile layer. Layers inside groups are flattened
// into the map with the group's opacity, visibility and offset applied.
//
// Offset is in tiles, y up, like everything else in the map model; multiply
// by the units-per-tile setting to get world units.
type TileLayer struct {
	Order   int
	ID      int
	Name    string
	Flags   LayerFlags
	Opacity float64
	Visible bool
	Offset  geom.Vec2
	Data    TileData
}

// Collides reports whether the layer gets physics bodies.
func (l *TileLayer) Collides() bool {
	return l.Flags&LayerNoCollide == 0
}

// ImageLayer is a single image drawn at Offset.
type ImageLayer struct {
	Order   int
	ID      int
	Name    string
	Opacity float64
	Visible bool
	Offset  geom.Vec2
	Image   *tileset.Image
}

type MarkerKind uint8

const (
	MarkerRect MarkerKind = iota
	MarkerPoint
	MarkerEllipse
	MarkerPolygon
	MarkerPolyline
	MarkerTile
	MarkerText
)

var markerKindNames = [...]string{"rect", "point", "ellipse", "polygon", "polyline", "tile", "text"}

func (k MarkerKind) String() string {
	if int(k) < len(markerKindNames) {
		return markerKindNames[k]
	}
	return "MarkerKind(" + strconv.Itoa(int(k)) + ")"
}

// Marker is an object from an object layer, such as a spawn point or a
// trigger area. Pos, Size and Points are in tiles, y up.
type Marker struct {
	Layer      string
	ID         int
	Name       string
	Type       string
	Kind       MarkerKind
	Pos        geom.Vec2
	Size       geom.Vec2
	Rotation   float64
	Points     []geom.Vec2
	Tile       TileID
	Text       string
	Properties map[string]string
}

// group carries the inherited state while walking nested layers.
type group struct {
	name    string
	opacity float64
	visible bool
	offset  geom.Vec2 // pixels, y down
}

func rootGroup() group {
	return group{opacity: 1, visible: true}
}

func (g group) enter(h *raw.LayerHeader) group {
	name := h.Name
	if g.name != "" {
		name = g.name + "/" + h.Name
	}
	return group{
		name:    name,
		opacity: g.opacity * h.Opacity,
		visible: g.visible && h.Visible,
		offset:  g.offset.Add(geom.V(h.OffsetX, h.OffsetY)),
	}
}

// layerWalker flattens a layer tree into the map.
type layerWalker struct {
	m        *Map
	tileSize geom.Vec2
	order    int
}

func (w *layerWalker) toMap(px geom.Vec2) geom.Vec2 {
	return px.Div(w.tileSize).FlipY()
}

func (w *layerWalker) walk(layers []raw.Layer, parent group) error {
	for _, l := range layers {
		g := parent.enter(l.Header())
		var err error
		switch l := l.(type) {
		case *raw.TileLayer:
			err = w.tileLayer(l, g)
		case *raw.ObjectGroup:
			err = w.objectGroup(l, g)
		case *raw.ImageLayer:
			w.imageLayer(l, g)
		case *raw.GroupLayer:
			err = w.walk(l.Layers, g)
		default:
			err = fmt.Errorf("unknown layer %T", l)
		}
		if err != nil {
			return fmt.Errorf("layer %q: %w", g.name, err)
		}
	}
	return nil
}

func (w *layerWalker) next() int {
	w.order++
	return w.order
}

func (w *layerWalker) tileLayer(r *raw.TileLayer, g group) error {
	var flags LayerFlags
	if s, ok := r.Properties.String("flags"); ok {
		var err error
		if flags, err = ParseLayerFlags(s); err != nil {
			return err
		}
	}

	sets := w.m.Tilesets
	b := newBuilder()
	if r.Data.Chunked() {
		for _, c := range r.Data.Chunks {
			for i, gid := range c.Tiles {
				b.set(image.Pt(c.X+i%c.Width, c.Y+i/c.Width), sets.TileFromRaw(gid))
			}
		}
	} else {
		if len(r.Data.Tiles) != r.Width*r.Height {
			return invalid("layer", "%d tiles for a %dx%d layer", len(r.Data.Tiles), r.Width, r.Height)
		}
		for i, gid := range r.Data.Tiles {
			b.set(image.Pt(i%r.Width, i/r.Width), sets.TileFromRaw(gid))
		}
	}

	w.m.Layers = append(w.m.Layers, &TileLayer{
		Order:   w.next(),
		ID:      r.ID,
		Name:    g.name,
		Flags:   flags,
		Opacity: g.opacity,
		Visible: g.visible,
		Offset:  w.toMap(g.offset),
		Data:    b.build(),
	})
	return nil
}

func (w *layerWalker) imageLayer(r *raw.ImageLayer, g group) {
	l := &ImageLayer{
		Order:   w.next(),
		ID:      r.ID,
		Name:    g.name,
		Opacity: g.opacity,
		Visible: g.visible,
		Offset:  w.toMap(g.offset),
	}
	if r.Image != nil {
		l.Image = &tileset.Image{Source: r.Image.Source, Width: r.Image.Width, Height: r.Image.Height}
	}
	w.m.Images = append(w.m.Images, l)
}

func (w *layerWalker) objectGroup(r *raw.ObjectGroup, g group) error {
	for _, obj := range r.Objects {
		pos := g.offset.Add(geom.V(obj.X, obj.Y))
		mk := Marker{
			Layer:      g.name,
			ID:         obj.ID,
			Name:       obj.Name,
			Type:       obj.Type,
			Pos:        w.toMap(pos),
			Size:       geom.V(obj.Width, obj.Height).Div(w.tileSize),
			Rotation:   geom.NormalizeAngle(obj.Rotation * math.Pi / 180),
			Properties: propertyStrings(obj.Properties),
		}
		switch s := obj.Shape.(type) {
		case raw.Rectangle:
			mk.Kind = MarkerRect
		case raw.Point:
			mk.Kind = MarkerPoint
		case raw.Ellipse:
			mk.Kind = MarkerEllipse
		case raw.Polygon:
			mk.Kind = MarkerPolygon
			mk.Points = w.points(pos, s.Points)
		case raw.Polyline:
			mk.Kind = MarkerPolyline
			mk.Points = w.points(pos, s.Points)
		}
		if gid, ok := obj.GID.Get(); ok {
			mk.Kind = MarkerTile
			mk.Tile = w.m.Tilesets.TileFromRaw(gid)
		}
		if obj.Text != nil {
			mk.Kind = MarkerText
			mk.Text = obj.Text.Content
		}
		w.m.Markers = append(w.m.Markers, mk)
	}
	return nil
}

func (w *layerWalker) points(origin geom.Vec2, rel []geom.Vec2) []geom.Vec2 {
	out := make([]geom.Vec2, len(rel))
	for i, p := range rel {
		out[i] = w.toMap(origin.Add(p))
	}
	return out
}

// propertyStrings flattens typed properties into their text form.
func propertyStrings(props raw.Properties) map[string]string {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]string, len(props))
	for name, p := range props {
		switch p.Kind {
		case raw.PropString, raw.PropFile:
			out[name] = p.Str
		case raw.PropInt, raw.PropObject:
			out[name] = strconv.FormatInt(p.Int, 10)
		case raw.PropFloat:
			out[name] = strconv.FormatFloat(p.Float, 'g', -1, 64)
		case raw.PropBool:
			out[name] = strconv.FormatBool(p.Bool)
		case raw.PropColor:
			out[name] = colorHex(p.Color)
		}
	}
	return out
}

func colorHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}
