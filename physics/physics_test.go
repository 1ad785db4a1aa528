package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automoto/tilechunk/shared/geom"
)

func TestFixtureDefValidate(t *testing.T) {
	square := []geom.Vec2{geom.V(0, 0), geom.V(1, 0), geom.V(1, 1), geom.V(0, 1)}

	tests := []struct {
		name  string
		def   FixtureDef
		valid bool
	}{
		{"ccw polygon", FixtureDef{Shape: Polygon{Vertices: square}}, true},
		{"cw polygon", FixtureDef{Shape: Polygon{Vertices: []geom.Vec2{square[3], square[2], square[1], square[0]}}}, false},
		{"two point polygon", FixtureDef{Shape: Polygon{Vertices: square[:2]}}, false},
		{"circle", FixtureDef{Shape: Circle{Radius: 0.5}}, true},
		{"zero circle", FixtureDef{Shape: Circle{}}, false},
		{"open chain", FixtureDef{Shape: Chain{Vertices: square[:2]}}, true},
		{"short loop", FixtureDef{Shape: Chain{Vertices: square[:2], Loop: true}}, false},
		{"no shape", FixtureDef{}, false},
		{"negative density", FixtureDef{Shape: Circle{Radius: 1}, Density: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidShape)
			}
		})
	}
}

func TestMemoryWorld(t *testing.T) {
	w := NewMemoryWorld()
	a, err := w.CreateStaticBody(geom.V(16, -16))
	require.NoError(t, err)
	b, err := w.CreateStaticBody(geom.V(0, 0))
	require.NoError(t, err)

	require.NoError(t, a.CreateFixture(FixtureDef{Shape: Circle{Radius: 1}, Data: "x"}))
	assert.Error(t, a.CreateFixture(FixtureDef{Shape: Circle{}}))
	assert.Equal(t, geom.V(16, -16), a.Position())
	assert.Len(t, w.Fixtures(), 1)

	w.DestroyBody(a)
	require.Len(t, w.Bodies, 1)
	assert.Same(t, b, Body(w.Bodies[0]))
	assert.Empty(t, w.Fixtures())
}
