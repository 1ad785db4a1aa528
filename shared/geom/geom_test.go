package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{0, 16, 0},
		{15, 16, 0},
		{16, 16, 1},
		{-1, 16, -1},
		{-16, 16, -1},
		{-17, 16, -2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FloorDiv(tt.a, tt.b), "FloorDiv(%d, %d)", tt.a, tt.b)
		m := FloorMod(tt.a, tt.b)
		assert.Equal(t, tt.a, FloorDiv(tt.a, tt.b)*tt.b+m)
		assert.GreaterOrEqual(t, m, 0)
	}
}

func TestRotationAboutPivot(t *testing.T) {
	pivot := V(1, 1)
	m := Rotation(math.Pi/2, pivot)

	assert.True(t, m.Apply(pivot).ApproxEqual(pivot, 1e-12))
	// y-down: a quarter turn clockwise moves +x onto +y.
	assert.True(t, m.Apply(V(2, 1)).ApproxEqual(V(1, 2), 1e-12))
}

func TestAffineThenOrder(t *testing.T) {
	rot := Rotation(math.Pi/2, V(0, 0))
	move := Translation(V(10, 0))

	p := V(1, 0)
	assert.True(t, rot.Then(move).Apply(p).ApproxEqual(V(10, 1), 1e-12))
	assert.True(t, move.Then(rot).Apply(p).ApproxEqual(V(0, 11), 1e-12))
}

func TestTriangulate(t *testing.T) {
	tests := []struct {
		name string
		pts  []Vec2
	}{
		{"triangle", []Vec2{{0, 0}, {1, 0}, {0, 1}}},
		{"square ccw", []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		{"square cw", []Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}},
		{"concave L", []Vec2{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}}},
		{"collinear edge point", []Vec2{{0, 0}, {1, 0}, {2, 0}, {2, 2}, {0, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tris, err := Triangulate(tt.pts)
			require.NoError(t, err)
			assert.Len(t, tris, len(tt.pts)-2)

			var sum float64
			for _, tri := range tris {
				assert.False(t, tri.Degenerate())
				sum += tri.Area()
			}
			assert.InDelta(t, math.Abs(SignedArea(tt.pts)), sum, 1e-9)
		})
	}
}

func TestTriangulateTooFew(t *testing.T) {
	_, err := Triangulate([]Vec2{{0, 0}, {1, 1}})
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestCounterClockwise(t *testing.T) {
	cw := []Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	assert.Less(t, SignedArea(cw), 0.0)
	assert.Greater(t, SignedArea(CounterClockwise(cw)), 0.0)
}

func TestEllipseRing(t *testing.T) {
	pts := EllipseRing(V(1, 1), 2, 1, 8)
	require.Len(t, pts, 8)
	assert.True(t, pts[0].ApproxEqual(V(3, 1), 1e-12))
	assert.True(t, pts[2].ApproxEqual(V(1, 2), 1e-12))
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 3*math.Pi/2, NormalizeAngle(-math.Pi/2), 1e-12)
	assert.InDelta(t, 0, NormalizeAngle(2*math.Pi), 1e-12)
}
