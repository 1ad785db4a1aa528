// Package physics is the narrow contract between the map and a rigid-body
// engine: create a static body, attach fixtures, destroy the body.
//
// Fixture geometry is body-local and y-up. Implementations live in the
// b2 (Box2D) and resolvspace (resolv grid) subpackages; MemoryWorld records
// requests for tests and tooling.
package physics

import (
	"errors"
	"fmt"

	"github.com/automoto/tilechunk/shared/geom"
)

// ErrInvalidShape is returned for a fixture whose geometry cannot be built.
var ErrInvalidShape = errors.New("invalid shape")

// Shape is one of Polygon, Circle or Chain.
type Shape interface {
	isShape()
}

// Polygon is a convex polygon, counter-clockwise.
type Polygon struct {
	Vertices []geom.Vec2
}

type Circle struct {
	Center geom.Vec2
	Radius float64
}

// Chain is a sequence of edges. Loop closes the last vertex back to the
// first.
type Chain struct {
	Vertices []geom.Vec2
	Loop     bool
}

func (Polygon) isShape() {}
func (Circle) isShape()  {}
func (Chain) isShape()   {}

// FixtureDef is one fixture creation request. Data is passed through to the
// engine untouched; the map stores the tile flags there.
type FixtureDef struct {
	Shape   Shape
	Sensor  bool
	Density float64
	Data    any
}

// Validate checks the shape is something every engine can build.
func (d FixtureDef) Validate() error {
	switch s := d.Shape.(type) {
	case Polygon:
		if len(s.Vertices) < 3 {
			return fmt.Errorf("%w: polygon with %d vertices", ErrInvalidShape, len(s.Vertices))
		}
		if geom.SignedArea(s.Vertices) <= 0 {
			return fmt.Errorf("%w: polygon is not counter-clockwise", ErrInvalidShape)
		}
	case Circle:
		if s.Radius <= 0 {
			return fmt.Errorf("%w: circle radius %v", ErrInvalidShape, s.Radius)
		}
	case Chain:
		need := 2
		if s.Loop {
			need = 3
		}
		if len(s.Vertices) < need {
			return fmt.Errorf("%w: chain with %d vertices", ErrInvalidShape, len(s.Vertices))
		}
	case nil:
		return fmt.Errorf("%w: no shape", ErrInvalidShape)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidShape, s)
	}
	if d.Density < 0 {
		return fmt.Errorf("%w: negative density", ErrInvalidShape)
	}
	return nil
}

// Body is a static body owned by the caller that created it.
type Body interface {
	Position() geom.Vec2
	CreateFixture(def FixtureDef) error
}

// World creates and destroys bodies.
type World interface {
	CreateStaticBody(pos geom.Vec2) (Body, error)
	DestroyBody(b Body)
}
