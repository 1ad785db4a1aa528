package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/shared/geom"
)

const circleSegments = 16

// Outline returns the closed or open point list tracing a fixture shape.
func Outline(s physics.Shape) (pts []geom.Vec2, closed bool) {
	switch s := s.(type) {
	case physics.Polygon:
		return s.Vertices, true
	case physics.Chain:
		return s.Vertices, s.Loop
	case physics.Circle:
		pts = make([]geom.Vec2, circleSegments)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / circleSegments
			pts[i] = s.Center.Add(geom.V(math.Cos(a), math.Sin(a)).Scale(s.Radius))
		}
		return pts, true
	}
	return nil, false
}

// DrawFixtures outlines the fixtures of a body at pos. Sensors use
// config.Render.SensorColor, everything else ColliderColor.
func DrawFixtures(screen *ebiten.Image, view View, pos geom.Vec2, defs []physics.FixtureDef) {
	for _, d := range defs {
		c := config.Render.ColliderColor
		if d.Sensor {
			c = config.Render.SensorColor
		}
		pts, closed := Outline(d.Shape)
		n := len(pts)
		if n < 2 {
			continue
		}
		segs := n - 1
		if closed {
			segs = n
		}
		for i := 0; i < segs; i++ {
			a := view.ToScreen(pts[i].Add(pos))
			b := view.ToScreen(pts[(i+1)%n].Add(pos))
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, c, false)
		}
	}
}
