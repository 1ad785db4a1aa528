package b2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/shared/geom"
)

func square(x, y float64) []geom.Vec2 {
	return []geom.Vec2{geom.V(x, y), geom.V(x+1, y), geom.V(x+1, y+1), geom.V(x, y+1)}
}

func TestStaticBodyFixtures(t *testing.T) {
	w := NewWorld()
	b, err := w.CreateStaticBody(geom.V(16, -32))
	require.NoError(t, err)
	assert.Equal(t, geom.V(16, -32), b.Position())
	assert.Equal(t, 1, w.BodyCount())

	defs := []physics.FixtureDef{
		{Shape: physics.Polygon{Vertices: square(0, 0)}, Density: 1, Data: "wall"},
		{Shape: physics.Circle{Center: geom.V(3, 3), Radius: 0.5}, Density: 2},
		{Shape: physics.Chain{Vertices: []geom.Vec2{geom.V(0, 0), geom.V(2, 0), geom.V(2, 2)}}, Sensor: true},
		{Shape: physics.Chain{Vertices: square(5, 5), Loop: true}},
	}
	for _, def := range defs {
		require.NoError(t, b.CreateFixture(def))
	}

	body := b.(*Body)
	assert.Equal(t, 4, body.FixtureCount())

	var sensors int
	var data []any
	for f := body.B2().GetFixtureList(); f != nil; f = f.GetNext() {
		if f.IsSensor() {
			sensors++
		}
		if d := f.GetUserData(); d != nil {
			data = append(data, d)
		}
	}
	assert.Equal(t, 1, sensors)
	assert.Equal(t, []any{"wall"}, data)

	w.Step(1.0 / 60)
	assert.Equal(t, geom.V(16, -32), b.Position(), "static bodies do not move")

	w.DestroyBody(b)
	assert.Equal(t, 0, w.BodyCount())
	assert.Nil(t, body.B2())
	w.DestroyBody(b)
}

func TestCreateFixtureRejects(t *testing.T) {
	w := NewWorld()
	b, err := w.CreateStaticBody(geom.V(0, 0))
	require.NoError(t, err)

	nine := make([]geom.Vec2, 9)
	for i := range nine {
		nine[i] = geom.V(float64(i), float64(i*i))
	}
	tests := []struct {
		name string
		def  physics.FixtureDef
	}{
		{"too many vertices", physics.FixtureDef{Shape: physics.Polygon{Vertices: geom.CounterClockwise(nine)}}},
		{"zero radius", physics.FixtureDef{Shape: physics.Circle{}}},
		{"no shape", physics.FixtureDef{}},
		{"welded triangle", physics.FixtureDef{Shape: physics.Polygon{Vertices: []geom.Vec2{geom.V(0, 0), geom.V(1, 0), geom.V(1, 0.00125)}}}},
		{"sliver", physics.FixtureDef{Shape: physics.Polygon{Vertices: []geom.Vec2{geom.V(0, 0), geom.V(1, 0), geom.V(2, 0.000001)}}}},
		{"repeated chain point", physics.FixtureDef{Shape: physics.Chain{Vertices: []geom.Vec2{geom.V(0, 0), geom.V(0, 0), geom.V(1, 0)}}}},
		{"short loop closing edge", physics.FixtureDef{Shape: physics.Chain{Vertices: []geom.Vec2{geom.V(0, 0), geom.V(1, 0), geom.V(1, 1), geom.V(0.001, 0)}, Loop: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, b.CreateFixture(tt.def), physics.ErrInvalidShape)
		})
	}
	assert.Equal(t, 0, b.(*Body).FixtureCount())
}
