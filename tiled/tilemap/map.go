package tilemap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/raw"
)

// ErrUnsupportedOrientation is returned for isometric, staggered and
// hexagonal maps.
var ErrUnsupportedOrientation = errors.New("only orthogonal maps are supported")

// Map is a fully resolved map: shared tilesets, chunked tile layers, image
// layers and object markers. Build one with FromRaw or LoadFile.
type Map struct {
	Width      int // tiles, zero for infinite maps
	Height     int
	TileWidth  int // pixels
	TileHeight int
	Infinite   bool
	Background color.NRGBA // zero when the map sets none
	Properties map[string]string

	Tilesets *Tilesets
	Layers   []*TileLayer
	Images   []*ImageLayer
	Markers  []Marker
}

// TileSize is the map tile size in pixels.
func (m *Map) TileSize() geom.Vec2 {
	return geom.V(float64(m.TileWidth), float64(m.TileHeight))
}

// FromRaw resolves a parsed map document. Unless config.Map.SkipValidation
// is set the result is validated before it is returned.
func FromRaw(r *raw.Map) (*Map, error) {
	if r.Orientation != raw.Orthogonal {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedOrientation, r.Orientation)
	}
	if r.TileWidth <= 0 || r.TileHeight <= 0 {
		return nil, invalid("map", "tile size %dx%d", r.TileWidth, r.TileHeight)
	}
	m := &Map{
		TileWidth:  r.TileWidth,
		TileHeight: r.TileHeight,
		Infinite:   r.Infinite,
		Background: r.BackgroundColor.Or(color.NRGBA{}),
		Properties: propertyStrings(r.Properties),
	}
	if !r.Infinite {
		m.Width, m.Height = r.Width, r.Height
	}

	var err error
	if m.Tilesets, err = TilesetsFromRaw(r.Tilesets, m.TileSize()); err != nil {
		return nil, err
	}
	w := &layerWalker{m: m, tileSize: m.TileSize()}
	if err := w.walk(r.Layers, rootGroup()); err != nil {
		return nil, err
	}

	if !config.Map.SkipValidation {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// LoadFile parses and resolves the TMX document at path. Parser warnings
// are returned alongside the map.
func LoadFile(path string, opts ...raw.Option) (*Map, []string, error) {
	res, err := raw.ParseMap(path, opts...)
	if err != nil {
		return nil, nil, err
	}
	m, err := FromRaw(res.Value)
	if err != nil {
		return nil, res.Warnings, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("[tilemap] loaded %s: %d tile layers, %d tilesets, %d markers", path, len(m.Layers), m.Tilesets.Len(), len(m.Markers))
	return m, res.Warnings, nil
}

// Validate checks the tilesets and every chunk of every layer.
func (m *Map) Validate() error {
	if m.Tilesets == nil {
		return invalid("map", "no tileset table")
	}
	if err := m.Tilesets.Validate(); err != nil {
		return err
	}
	for _, l := range m.Layers {
		if err := l.Data.Validate(m.Tilesets); err != nil {
			return fmt.Errorf("layer %q: %w", l.Name, err)
		}
	}
	return nil
}

// Layer returns the tile layer with the given flattened name.
func (m *Map) Layer(name string) *TileLayer {
	for _, l := range m.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// MarkersOfType returns the markers whose Type is typ.
func (m *Map) MarkersOfType(typ string) []Marker {
	var out []Marker
	for _, mk := range m.Markers {
		if mk.Type == typ {
			out = append(out, mk)
		}
	}
	return out
}

// LayerChunkOrigin is the world position of a chunk's body in layer l.
func LayerChunkOrigin(l *TileLayer, pos image.Point, unitsPerTile float64) geom.Vec2 {
	return ChunkOrigin(pos, unitsPerTile).Add(l.Offset.Scale(unitsPerTile))
}

// EnsurePhysics creates a static body for every chunk of every colliding
// layer. Chunks that already have a body are left alone.
func (m *Map) EnsurePhysics(world physics.World) error {
	u := config.Map.UnitsPerTile
	for _, l := range m.Layers {
		if !l.Collides() {
			continue
		}
		for _, pos := range l.Data.Positions() {
			if _, err := l.Data.Chunks[pos].EnsurePhysics(world, m.Tilesets, LayerChunkOrigin(l, pos, u)); err != nil {
				return fmt.Errorf("layer %q chunk %v: %w", l.Name, pos, err)
			}
		}
	}
	return nil
}

// Release destroys every chunk body created by EnsurePhysics.
func (m *Map) Release(world physics.World) {
	for _, l := range m.Layers {
		for _, c := range l.Data.Chunks {
			c.Release(world)
		}
	}
}

// WorldBounds is the world rectangle, y up, covering every chunk of every
// tile layer. ok is false when the map has no tiles.
func (m *Map) WorldBounds(unitsPerTile float64) (lo, hi geom.Vec2, ok bool) {
	for _, l := range m.Layers {
		r := l.Data.Bounds()
		if r.Empty() {
			continue
		}
		off := l.Offset.Scale(unitsPerTile)
		a := geom.V(float64(r.Min.X), -float64(r.Max.Y)).Scale(unitsPerTile).Add(off)
		b := geom.V(float64(r.Max.X), -float64(r.Min.Y)).Scale(unitsPerTile).Add(off)
		if !ok {
			lo, hi, ok = a, b, true
			continue
		}
		lo = geom.V(min(lo.X, a.X), min(lo.Y, a.Y))
		hi = geom.V(max(hi.X, b.X), max(hi.Y, b.Y))
	}
	return lo, hi, ok
}
