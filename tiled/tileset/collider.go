package tileset

import (
	"fmt"
	"math"

	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/raw"
)

// Shape is one of Rect, Point, Ellipse, Triangle or Chain.
//
// Shape coordinates are in tile units relative to the tile's top-left
// corner, y pointing down as in the document.
type Shape interface {
	isShape()
}

type Rect struct {
	Min, Max geom.Vec2
}

// Point is metadata only and never becomes a fixture.
type Point struct {
	Pos geom.Vec2
}

type Ellipse struct {
	Center           geom.Vec2
	RadiusX, RadiusY float64
}

// Circular reports whether both radii are equal.
func (e Ellipse) Circular() bool {
	return math.Abs(e.RadiusX-e.RadiusY) <= 1e-9*math.Max(e.RadiusX, e.RadiusY)
}

// Triangle is one piece of a triangulated polygon.
type Triangle struct {
	Vertices geom.Triangle
}

// Chain is an open polyline.
type Chain struct {
	Points []geom.Vec2
}

func (Rect) isShape()     {}
func (Point) isShape()    {}
func (Ellipse) isShape()  {}
func (Triangle) isShape() {}
func (Chain) isShape()    {}

// Collider is one collision primitive of a tile. Rotation is in radians,
// clockwise in document space, about Origin.
type Collider struct {
	Shape    Shape
	Rotation float64
	Origin   geom.Vec2
	Flags    TileFlags
}

// CollidersFromRaw converts one collision object. Polygons come back as one
// collider per triangle. tileSize is the map tile size in pixels and flags
// are the owning tile's flags, merged with the object's own.
func CollidersFromRaw(obj *raw.Object, tileSize geom.Vec2, flags TileFlags) ([]Collider, error) {
	own, err := FlagsFromProperties(obj.Properties)
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", obj.ID, err)
	}

	pos := geom.V(obj.X, obj.Y).Div(tileSize)
	size := geom.V(obj.Width, obj.Height).Div(tileSize)
	base := Collider{
		Rotation: geom.NormalizeAngle(obj.Rotation * math.Pi / 180),
		Origin:   pos,
		Flags:    flags.Union(own),
	}
	with := func(s Shape) Collider {
		c := base
		c.Shape = s
		return c
	}
	points := func(rel []geom.Vec2) []geom.Vec2 {
		out := make([]geom.Vec2, len(rel))
		for i, p := range rel {
			out[i] = pos.Add(p.Div(tileSize))
		}
		return out
	}

	switch s := obj.Shape.(type) {
	case raw.Rectangle:
		if size.X == 0 || size.Y == 0 {
			// Older documents encode points as empty rectangles.
			return []Collider{with(Point{Pos: pos})}, nil
		}
		return []Collider{with(Rect{Min: pos, Max: pos.Add(size)})}, nil

	case raw.Point:
		return []Collider{with(Point{Pos: pos})}, nil

	case raw.Ellipse:
		radius := size.Scale(0.5)
		e := Ellipse{Center: pos.Add(radius), RadiusX: math.Abs(radius.X), RadiusY: math.Abs(radius.Y)}
		if e.RadiusX == 0 || e.RadiusY == 0 {
			return nil, fmt.Errorf("object %d: ellipse has zero radius", obj.ID)
		}
		return []Collider{with(e)}, nil

	case raw.Polygon:
		pts := points(s.Points)
		tris, err := geom.Triangulate(pts)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", obj.ID, err)
		}
		out := make([]Collider, 0, len(tris))
		for _, tri := range tris {
			if tri.Degenerate() {
				continue
			}
			out = append(out, with(Triangle{Vertices: tri}))
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("object %d: polygon has no area", obj.ID)
		}
		return out, nil

	case raw.Polyline:
		if len(s.Points) < 2 {
			return nil, fmt.Errorf("object %d: polyline with %d points", obj.ID, len(s.Points))
		}
		return []Collider{with(Chain{Points: points(s.Points)})}, nil
	}
	return nil, fmt.Errorf("object %d: unsupported shape %T", obj.ID, obj.Shape)
}

// Validate checks the collider can be turned into fixtures.
func (c Collider) Validate() error {
	switch s := c.Shape.(type) {
	case Rect:
		if s.Max.X <= s.Min.X || s.Max.Y <= s.Min.Y {
			return fmt.Errorf("empty rectangle %v-%v", s.Min, s.Max)
		}
	case Point:
	case Ellipse:
		if s.RadiusX <= 0 || s.RadiusY <= 0 {
			return fmt.Errorf("ellipse radii %v, %v", s.RadiusX, s.RadiusY)
		}
	case Triangle:
		if s.Vertices.Degenerate() {
			return fmt.Errorf("degenerate triangle %v", s.Vertices)
		}
	case Chain:
		if len(s.Points) < 2 {
			return fmt.Errorf("chain with %d points", len(s.Points))
		}
	default:
		return fmt.Errorf("unsupported shape %T", c.Shape)
	}
	return nil
}
