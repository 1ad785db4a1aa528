// Package resolvspace backs physics.World with a github.com/solarlune/resolv
// space for overlap queries. Every fixture becomes an axis-aligned object
// covering its bounds, tagged with its tile flags, and keeps the exact
// fixture in Object.Data.
package resolvspace

import (
	"math"
	"strings"

	"github.com/solarlune/resolv"

	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/tileset"
)

const (
	TagSolid  = "solid"
	TagSensor = "sensor"
)

// World is a resolv space in pixels, y down, laid over a world rectangle.
type World struct {
	Space  *resolv.Space
	origin geom.Vec2 // world position of pixel (0, 0)
	ppu    float64
}

// NewWorld covers the world rectangle from lo to hi, y up, using
// config.Physics.PixelsPerUnit and ResolvCellSize.
func NewWorld(lo, hi geom.Vec2) *World {
	ppu := config.Physics.PixelsPerUnit
	cell := config.Physics.ResolvCellSize
	w := int(math.Ceil((hi.X - lo.X) * ppu))
	h := int(math.Ceil((hi.Y - lo.Y) * ppu))
	return &World{
		Space:  resolv.NewSpace(max(w, cell), max(h, cell), cell, cell),
		origin: geom.V(lo.X, hi.Y),
		ppu:    ppu,
	}
}

// ToSpace converts a world position to space pixels.
func (w *World) ToSpace(p geom.Vec2) geom.Vec2 {
	return geom.V((p.X-w.origin.X)*w.ppu, (w.origin.Y-p.Y)*w.ppu)
}

// FromSpace converts space pixels back to a world position.
func (w *World) FromSpace(px geom.Vec2) geom.Vec2 {
	return geom.V(px.X/w.ppu+w.origin.X, w.origin.Y-px.Y/w.ppu)
}

func (w *World) CreateStaticBody(pos geom.Vec2) (physics.Body, error) {
	return &Body{world: w, pos: pos}, nil
}

func (w *World) DestroyBody(b physics.Body) {
	body, ok := b.(*Body)
	if !ok {
		return
	}
	for _, obj := range body.Objects {
		w.Space.Remove(obj)
	}
	body.Objects = nil
}

// Query returns the fixtures whose cells overlap the world rectangle from
// lo to hi. With tags only objects carrying one of them are returned.
func (w *World) Query(lo, hi geom.Vec2, tags ...string) []physics.FixtureDef {
	probe := w.NewObject(lo, hi)
	w.Space.Add(probe)
	defer w.Space.Remove(probe)

	check := probe.Check(0, 0, tags...)
	if check == nil {
		return nil
	}
	var out []physics.FixtureDef
	for _, obj := range check.Objects {
		if def, ok := obj.Data.(physics.FixtureDef); ok {
			out = append(out, def)
		}
	}
	return out
}

// NewObject builds a resolv object over a world rectangle without adding it
// to the space. Degenerate extents are widened to one pixel.
func (w *World) NewObject(lo, hi geom.Vec2, tags ...string) *resolv.Object {
	tl := w.ToSpace(geom.V(lo.X, hi.Y))
	size := hi.Sub(lo).Scale(w.ppu)
	sw, sh := max(size.X, 1), max(size.Y, 1)
	obj := resolv.NewObject(tl.X, tl.Y, sw, sh, tags...)
	obj.SetShape(resolv.NewRectangle(0, 0, sw, sh))
	return obj
}

// Body is a set of resolv objects sharing a world position.
type Body struct {
	world   *World
	pos     geom.Vec2
	Objects []*resolv.Object
}

func (b *Body) Position() geom.Vec2 {
	return b.pos
}

func (b *Body) CreateFixture(def physics.FixtureDef) error {
	if err := def.Validate(); err != nil {
		return err
	}
	lo, hi := bounds(def.Shape)
	obj := b.world.NewObject(lo.Add(b.pos), hi.Add(b.pos), fixtureTags(def)...)
	obj.Data = def
	b.world.Space.Add(obj)
	b.Objects = append(b.Objects, obj)
	return nil
}

// fixtureTags is solid or sensor plus one tag per tile flag, e.g. "LADDER".
func fixtureTags(def physics.FixtureDef) []string {
	tags := []string{TagSolid}
	if def.Sensor {
		tags[0] = TagSensor
	}
	if flags, ok := def.Data.(tileset.TileFlags); ok && flags != tileset.FlagsNone {
		tags = append(tags, strings.Split(flags.String(), "|")...)
	}
	return tags
}

// bounds of a validated shape in body space.
func bounds(s physics.Shape) (lo, hi geom.Vec2) {
	var pts []geom.Vec2
	switch s := s.(type) {
	case physics.Polygon:
		pts = s.Vertices
	case physics.Chain:
		pts = s.Vertices
	case physics.Circle:
		r := geom.V(s.Radius, s.Radius)
		return s.Center.Sub(r), s.Center.Add(r)
	}
	lo, hi = pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = geom.V(min(lo.X, p.X), min(lo.Y, p.Y))
		hi = geom.V(max(hi.X, p.X), max(hi.Y, p.Y))
	}
	return lo, hi
}
