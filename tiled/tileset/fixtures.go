package tileset

import (
	"fmt"

	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/shared/geom"
)

// Placement locates a tile inside its chunk body.
type Placement struct {
	Tile         geom.Vec2 // column and row inside the chunk, y down
	Anchor       geom.Vec2 // image top-left relative to the cell, see Tileset.Anchor
	UnitsPerTile float64
	Density      float64
	Divisions    int // ellipse loop segments
}

// PlacementAt builds a placement for the tile at (col, row) from the global
// config.
func PlacementAt(col, row int) Placement {
	return Placement{
		Tile:         geom.V(float64(col), float64(row)),
		UnitsPerTile: config.Map.UnitsPerTile,
		Density:      config.Physics.Density,
		Divisions:    config.Map.EllipseDivisions,
	}
}

// transform maps collider space into body space: rotate about the origin,
// move to the tile image, then flip into the y-up world and scale to world units.
func (c Collider) transform(p Placement) geom.Affine {
	u := p.UnitsPerTile
	return geom.Rotation(c.Rotation, c.Origin).
		Then(geom.Translation(p.Tile.Add(p.Anchor))).
		Then(geom.Scaling(geom.V(u, -u)))
}

// Fixtures returns the fixture requests for c placed at p. Points yield none.
func (c Collider) Fixtures(p Placement) []physics.FixtureDef {
	m := c.transform(p)
	def := physics.FixtureDef{
		Sensor:  c.Flags.IsSensor(),
		Density: p.Density,
		Data:    c.Flags,
	}
	with := func(s physics.Shape, density float64) physics.FixtureDef {
		d := def
		d.Shape = s
		d.Density = density
		return d
	}

	switch s := c.Shape.(type) {
	case Rect:
		corners := []geom.Vec2{s.Min, geom.V(s.Max.X, s.Min.Y), s.Max, geom.V(s.Min.X, s.Max.Y)}
		verts := geom.CounterClockwise(m.ApplyAll(corners))
		return []physics.FixtureDef{with(physics.Polygon{Vertices: verts}, p.Density)}

	case Ellipse:
		center := m.Apply(s.Center)
		minor := min(s.RadiusX, s.RadiusY)
		major := max(s.RadiusX, s.RadiusY)
		circle := physics.Circle{Center: center, Radius: minor * p.UnitsPerTile}
		if s.Circular() {
			return []physics.FixtureDef{with(circle, p.Density)}
		}
		ring := geom.CounterClockwise(m.ApplyAll(geom.EllipseRing(s.Center, s.RadiusX, s.RadiusY, p.Divisions)))
		return []physics.FixtureDef{
			with(physics.Chain{Vertices: ring, Loop: true}, p.Density),
			// The inner circle carries the mass of the whole ellipse.
			with(circle, p.Density*major/minor),
		}

	case Triangle:
		verts := geom.CounterClockwise(m.ApplyAll(s.Vertices[:]))
		return []physics.FixtureDef{with(physics.Polygon{Vertices: verts}, p.Density)}

	case Chain:
		return []physics.FixtureDef{with(physics.Chain{Vertices: m.ApplyAll(s.Points)}, p.Density)}
	}
	return nil
}

// Fixtures returns the fixture requests for every collider of t.
func (t *Tile) Fixtures(p Placement) []physics.FixtureDef {
	var out []physics.FixtureDef
	for _, c := range t.Colliders {
		out = append(out, c.Fixtures(p)...)
	}
	return out
}

// CreateFixtures attaches t's fixtures to body.
func (t *Tile) CreateFixtures(body physics.Body, p Placement) error {
	for _, def := range t.Fixtures(p) {
		if err := body.CreateFixture(def); err != nil {
			return fmt.Errorf("tile fixture: %w", err)
		}
	}
	return nil
}
