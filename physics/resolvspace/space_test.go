package resolvspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/tileset"
)

func TestToSpace(t *testing.T) {
	w := NewWorld(geom.V(0, -32), geom.V(32, 0))
	assert.Equal(t, geom.V(0, 0), w.ToSpace(geom.V(0, 0)))
	assert.Equal(t, geom.V(16, 16), w.ToSpace(geom.V(1, -1)))
	assert.Equal(t, geom.V(1, -1), w.FromSpace(geom.V(16, 16)))
}

func TestQuery(t *testing.T) {
	w := NewWorld(geom.V(0, -32), geom.V(32, 0))
	b, err := w.CreateStaticBody(geom.V(0, 0))
	require.NoError(t, err)

	wall := physics.FixtureDef{
		Shape: physics.Polygon{Vertices: []geom.Vec2{geom.V(1, -2), geom.V(2, -2), geom.V(2, -1), geom.V(1, -1)}},
		Data:  "wall",
	}
	ladder := physics.FixtureDef{
		Shape:  physics.Chain{Vertices: []geom.Vec2{geom.V(10, -10), geom.V(12, -10)}},
		Sensor: true,
		Data:   tileset.FlagLadder | tileset.FlagUp,
	}
	ring := physics.FixtureDef{
		Shape: physics.Circle{Center: geom.V(20, -20), Radius: 1},
		Data:  "ring",
	}
	for _, def := range []physics.FixtureDef{wall, ladder, ring} {
		require.NoError(t, b.CreateFixture(def))
	}
	assert.Len(t, b.(*Body).Objects, 3)

	got := w.Query(geom.V(1.25, -1.75), geom.V(1.75, -1.25))
	require.Len(t, got, 1)
	assert.Equal(t, "wall", got[0].Data)
	assert.Empty(t, w.Query(geom.V(1.25, -1.75), geom.V(1.75, -1.25), TagSensor))

	got = w.Query(geom.V(10.5, -10.5), geom.V(11.5, -9.6), TagSensor)
	require.Len(t, got, 1)
	assert.Equal(t, tileset.FlagLadder|tileset.FlagUp, got[0].Data)
	assert.Len(t, w.Query(geom.V(10.5, -10.5), geom.V(11.5, -9.6), "UP"), 1)
	assert.Empty(t, w.Query(geom.V(10.5, -10.5), geom.V(11.5, -9.6), "WALL"))

	got = w.Query(geom.V(19.5, -20.5), geom.V(20.5, -19.5), TagSolid)
	require.Len(t, got, 1)
	assert.Equal(t, "ring", got[0].Data)

	assert.Empty(t, w.Query(geom.V(27, -27), geom.V(28, -26)))

	w.DestroyBody(b)
	assert.Empty(t, w.Query(geom.V(1.25, -1.75), geom.V(1.75, -1.25)))
	assert.Empty(t, w.Space.Objects())
}

func TestCreateFixtureValidates(t *testing.T) {
	w := NewWorld(geom.V(0, 0), geom.V(1, 1))
	b, err := w.CreateStaticBody(geom.V(0, 0))
	require.NoError(t, err)
	assert.ErrorIs(t, b.CreateFixture(physics.FixtureDef{Shape: physics.Circle{Radius: -1}}), physics.ErrInvalidShape)
	assert.Empty(t, w.Space.Objects())
}
