// Package b2 backs physics.World with github.com/ByteArena/box2d.
package b2

import (
	"fmt"

	"github.com/ByteArena/box2d"

	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/shared/geom"
)

// World wraps a box2d world. Only static bodies are created from maps; the
// caller may add dynamic bodies through B2.
type World struct {
	world *box2d.B2World
}

// NewWorld creates a world with config.Physics.Gravity on the y axis.
func NewWorld() *World {
	w := box2d.MakeB2World(box2d.MakeB2Vec2(0, config.Physics.Gravity))
	return &World{world: &w}
}

// B2 exposes the underlying box2d world.
func (w *World) B2() *box2d.B2World {
	return w.world
}

// Step advances the simulation using the configured iteration counts.
func (w *World) Step(dt float64) {
	w.world.Step(dt, config.Physics.VelocityIterations, config.Physics.PositionIterations)
}

func (w *World) BodyCount() int {
	return w.world.GetBodyCount()
}

func (w *World) CreateStaticBody(pos geom.Vec2) (physics.Body, error) {
	def := box2d.MakeB2BodyDef()
	def.Type = box2d.B2BodyType.B2_staticBody
	def.Position.Set(pos.X, pos.Y)
	return &Body{body: w.world.CreateBody(&def)}, nil
}

func (w *World) DestroyBody(b physics.Body) {
	if body, ok := b.(*Body); ok && body.body != nil {
		w.world.DestroyBody(body.body)
		body.body = nil
	}
}

// Body is a box2d body.
type Body struct {
	body *box2d.B2Body
}

// B2 exposes the underlying box2d body, nil once destroyed.
func (b *Body) B2() *box2d.B2Body {
	return b.body
}

func (b *Body) Position() geom.Vec2 {
	p := b.body.GetPosition()
	return geom.V(p.X, p.Y)
}

// FixtureCount counts the fixtures attached to the body.
func (b *Body) FixtureCount() int {
	n := 0
	for f := b.body.GetFixtureList(); f != nil; f = f.GetNext() {
		n++
	}
	return n
}

func (b *Body) CreateFixture(def physics.FixtureDef) error {
	if err := def.Validate(); err != nil {
		return err
	}
	fd := box2d.MakeB2FixtureDef()
	fd.Density = def.Density
	fd.IsSensor = def.Sensor
	fd.UserData = def.Data

	switch s := def.Shape.(type) {
	case physics.Polygon:
		if len(s.Vertices) > box2d.B2_maxPolygonVertices {
			return fmt.Errorf("%w: polygon has %d vertices, box2d allows %d", physics.ErrInvalidShape, len(s.Vertices), box2d.B2_maxPolygonVertices)
		}
		if err := checkPolygon(s.Vertices); err != nil {
			return err
		}
		shape := box2d.MakeB2PolygonShape()
		shape.Set(vecs(s.Vertices), len(s.Vertices))
		fd.Shape = &shape
	case physics.Circle:
		shape := box2d.MakeB2CircleShape()
		shape.M_p.Set(s.Center.X, s.Center.Y)
		shape.M_radius = s.Radius
		fd.Shape = &shape
	case physics.Chain:
		if err := checkChain(s.Vertices, s.Loop); err != nil {
			return err
		}
		shape := box2d.MakeB2ChainShape()
		if s.Loop {
			shape.CreateLoop(vecs(s.Vertices), len(s.Vertices))
		} else {
			shape.CreateChain(vecs(s.Vertices), len(s.Vertices))
		}
		fd.Shape = &shape
	default:
		return fmt.Errorf("%w: %T", physics.ErrInvalidShape, def.Shape)
	}

	b.body.CreateFixtureFromDef(&fd)
	return nil
}

// weldDist is the distance under which box2d merges polygon vertices.
const weldDist = 0.5 * box2d.B2_linearSlop

// checkPolygon rejects polygons box2d would weld below a triangle or find
// without area. box2d asserts on those instead of returning an error.
func checkPolygon(pts []geom.Vec2) error {
	unique := 0
	for i, p := range pts {
		welded := false
		for _, q := range pts[:i] {
			if p.Sub(q).Len() < weldDist {
				welded = true
				break
			}
		}
		if !welded {
			unique++
		}
	}
	if unique < 3 {
		return fmt.Errorf("%w: polygon welds to %d vertices", physics.ErrInvalidShape, unique)
	}
	if geom.SignedArea(pts) <= weldDist*weldDist {
		return fmt.Errorf("%w: polygon has no area", physics.ErrInvalidShape)
	}
	return nil
}

// checkChain rejects chains with edges shorter than the linear slop.
func checkChain(pts []geom.Vec2, loop bool) error {
	n := len(pts) - 1
	if loop {
		n = len(pts)
	}
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%len(pts)]
		if a.Sub(b).Len() <= box2d.B2_linearSlop {
			return fmt.Errorf("%w: chain edge %d is shorter than %v", physics.ErrInvalidShape, i, box2d.B2_linearSlop)
		}
	}
	return nil
}

func vecs(pts []geom.Vec2) []box2d.B2Vec2 {
	out := make([]box2d.B2Vec2, len(pts))
	for i, p := range pts {
		out[i] = box2d.MakeB2Vec2(p.X, p.Y)
	}
	return out
}
