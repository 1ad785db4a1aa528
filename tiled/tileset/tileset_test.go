package tileset

import (
	"errors"
	"image"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/raw"
)

var tile16 = geom.V(16, 16)

func flagProps(s string) raw.Properties {
	return raw.Properties{"flags": {Kind: raw.PropString, Str: s}}
}

func placement(col, row int) Placement {
	return Placement{Tile: geom.V(float64(col), float64(row)), UnitsPerTile: 1, Density: 1, Divisions: 36}
}

func assertPoints(t *testing.T, want, got []geom.Vec2) {
	t.Helper()
	require.Len(t, got, len(want))
	for _, w := range want {
		found := false
		for _, g := range got {
			if g.ApproxEqual(w, 1e-9) {
				found = true
				break
			}
		}
		assert.True(t, found, "missing %v in %v", w, got)
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		in   string
		want TileFlags
		err  bool
	}{
		{"", FlagsNone, false},
		{"NONE", FlagsNone, false},
		{"WALL", FlagWall, false},
		{" WALL | LADDER ", FlagWall | FlagLadder, false},
		{"LEFT|RIGHT|UP|DOWN", FlagLeft | FlagRight | FlagUp | FlagDown, false},
		{"NULL|CLIFF|VOID|PATH", FlagNull | FlagCliff | FlagVoid | FlagPath, false},
		{"WALL||NONE", FlagWall, false},
		{"WALL|JUMP", FlagsNone, true},
		{"wall", FlagsNone, true},
	}
	for _, tt := range tests {
		got, err := ParseFlags(tt.in)
		if tt.err {
			assert.ErrorIs(t, err, ErrUnknownFlag, "ParseFlags(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseFlags(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseFlags(%q)", tt.in)
	}

	assert.Equal(t, "WALL|LADDER", (FlagWall | FlagLadder).String())
	assert.Equal(t, "NONE", FlagsNone.String())
}

func TestIsSensor(t *testing.T) {
	assert.True(t, FlagLadder.IsSensor())
	assert.True(t, FlagPath.IsSensor())
	assert.True(t, (FlagWall | FlagPath).IsSensor())
	assert.False(t, FlagWall.IsSensor())
	assert.False(t, FlagsNone.IsSensor())
}

func TestCollidersFromRaw(t *testing.T) {
	tests := []struct {
		name  string
		obj   raw.Object
		count int
		shape Shape
		err   bool
	}{
		{
			name:  "rectangle",
			obj:   raw.Object{X: 8, Y: 0, Width: 8, Height: 16, Shape: raw.Rectangle{}},
			count: 1,
			shape: Rect{Min: geom.V(0.5, 0), Max: geom.V(1, 1)},
		},
		{
			name:  "empty rectangle is a point",
			obj:   raw.Object{X: 8, Y: 8, Shape: raw.Rectangle{}},
			count: 1,
			shape: Point{Pos: geom.V(0.5, 0.5)},
		},
		{
			name:  "point",
			obj:   raw.Object{X: 4, Y: 4, Shape: raw.Point{}},
			count: 1,
			shape: Point{Pos: geom.V(0.25, 0.25)},
		},
		{
			name:  "ellipse",
			obj:   raw.Object{X: 0, Y: 0, Width: 16, Height: 8, Shape: raw.Ellipse{}},
			count: 1,
			shape: Ellipse{Center: geom.V(0.5, 0.25), RadiusX: 0.5, RadiusY: 0.25},
		},
		{
			name: "zero ellipse",
			obj:  raw.Object{Width: 16, Shape: raw.Ellipse{}},
			err:  true,
		},
		{
			name:  "triangle",
			obj:   raw.Object{Shape: raw.Polygon{Points: []geom.Vec2{geom.V(0, 0), geom.V(16, 0), geom.V(16, 16)}}},
			count: 1,
		},
		{
			name: "pentagon",
			obj: raw.Object{Shape: raw.Polygon{Points: []geom.Vec2{
				geom.V(0, 0), geom.V(16, 0), geom.V(16, 8), geom.V(8, 16), geom.V(0, 8),
			}}},
			count: 3,
		},
		{
			name: "two point polygon",
			obj:  raw.Object{Shape: raw.Polygon{Points: []geom.Vec2{geom.V(0, 0), geom.V(16, 0)}}},
			err:  true,
		},
		{
			name:  "polyline",
			obj:   raw.Object{X: 0, Y: 16, Shape: raw.Polyline{Points: []geom.Vec2{geom.V(0, 0), geom.V(16, -16)}}},
			count: 1,
			shape: Chain{Points: []geom.Vec2{geom.V(0, 1), geom.V(1, 0)}},
		},
		{
			name: "single point polyline",
			obj:  raw.Object{Shape: raw.Polyline{Points: []geom.Vec2{geom.V(0, 0)}}},
			err:  true,
		},
		{
			name: "bad object flags",
			obj:  raw.Object{Width: 16, Height: 16, Shape: raw.Rectangle{}, Properties: flagProps("SPIKES")},
			err:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := CollidersFromRaw(&tt.obj, tile16, FlagsNone)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, cs, tt.count)
			if tt.shape != nil {
				assert.Equal(t, tt.shape, cs[0].Shape)
			}
			for _, c := range cs {
				assert.NoError(t, c.Validate())
			}
		})
	}
}

func TestPolygonTriangleCount(t *testing.T) {
	for n := 4; n <= 12; n++ {
		ring := geom.EllipseRing(geom.V(8, 8), 8, 8, n)
		obj := raw.Object{Shape: raw.Polygon{Points: ring}}

		cs, err := CollidersFromRaw(&obj, tile16, FlagsNone)
		require.NoError(t, err)
		assert.Len(t, cs, n-2, "%d-gon", n)
		for _, c := range cs {
			tri, ok := c.Shape.(Triangle)
			require.True(t, ok)
			assert.False(t, tri.Vertices.Degenerate())
		}
	}
}

func TestColliderRotationAndFlags(t *testing.T) {
	obj := raw.Object{
		X: 16, Y: 0, Width: 16, Height: 8, Rotation: -90,
		Shape:      raw.Rectangle{},
		Properties: flagProps("LEFT"),
	}
	cs, err := CollidersFromRaw(&obj, tile16, FlagWall)
	require.NoError(t, err)
	require.Len(t, cs, 1)

	assert.InDelta(t, 3*math.Pi/2, cs[0].Rotation, 1e-12)
	assert.Equal(t, geom.V(1, 0), cs[0].Origin)
	assert.Equal(t, FlagWall|FlagLeft, cs[0].Flags)
}

func TestRectFixtureWorldPlacement(t *testing.T) {
	c := Collider{Shape: Rect{Min: geom.V(0, 0), Max: geom.V(1, 1)}, Flags: FlagWall}

	defs := c.Fixtures(placement(2, 3))
	require.Len(t, defs, 1)
	poly, ok := defs[0].Shape.(physics.Polygon)
	require.True(t, ok)
	assertPoints(t, []geom.Vec2{geom.V(2, -3), geom.V(3, -3), geom.V(3, -4), geom.V(2, -4)}, poly.Vertices)
	assert.Greater(t, geom.SignedArea(poly.Vertices), 0.0)
	assert.False(t, defs[0].Sensor)
	assert.Equal(t, FlagWall, defs[0].Data)
	assert.NoError(t, defs[0].Validate())
}

func TestRotatedRectFixture(t *testing.T) {
	// A quarter turn clockwise about the top-left corner swings the
	// rectangle from pointing right to pointing down.
	c := Collider{Shape: Rect{Min: geom.V(0, 0), Max: geom.V(1, 0.5)}, Rotation: math.Pi / 2}

	defs := c.Fixtures(placement(0, 0))
	require.Len(t, defs, 1)
	poly := defs[0].Shape.(physics.Polygon)
	assertPoints(t, []geom.Vec2{geom.V(0, 0), geom.V(0, -1), geom.V(-0.5, -1), geom.V(-0.5, 0)}, poly.Vertices)
}

func TestRotationPivotsBeforeTranslation(t *testing.T) {
	c := Collider{Shape: Point{}, Rotation: math.Pi / 2, Origin: geom.V(0.5, 0.5)}
	m := c.transform(placement(4, 1))

	// The pivot itself only moves with the tile.
	assert.True(t, m.Apply(geom.V(0.5, 0.5)).ApproxEqual(geom.V(4.5, -1.5), 1e-12))
}

func TestEllipseFixtures(t *testing.T) {
	t.Run("circle", func(t *testing.T) {
		c := Collider{Shape: Ellipse{Center: geom.V(0.5, 0.5), RadiusX: 0.5, RadiusY: 0.5}}

		defs := c.Fixtures(placement(1, 1))
		require.Len(t, defs, 1)
		circle, ok := defs[0].Shape.(physics.Circle)
		require.True(t, ok)
		assert.True(t, circle.Center.ApproxEqual(geom.V(1.5, -1.5), 1e-12))
		assert.Equal(t, 0.5, circle.Radius)
		assert.Equal(t, 1.0, defs[0].Density)
	})

	t.Run("ellipse", func(t *testing.T) {
		c := Collider{Shape: Ellipse{Center: geom.V(0.5, 0.25), RadiusX: 0.5, RadiusY: 0.25}}

		defs := c.Fixtures(placement(0, 0))
		require.Len(t, defs, 2)

		chain, ok := defs[0].Shape.(physics.Chain)
		require.True(t, ok)
		assert.True(t, chain.Loop)
		assert.Len(t, chain.Vertices, 36)
		assert.Equal(t, 1.0, defs[0].Density)

		circle, ok := defs[1].Shape.(physics.Circle)
		require.True(t, ok)
		assert.Equal(t, 0.25, circle.Radius)
		assert.InDelta(t, 2.0, defs[1].Density, 1e-12)
		for _, d := range defs {
			assert.NoError(t, d.Validate())
		}
	})
}

func TestPolylineFixtureStaysOpen(t *testing.T) {
	c := Collider{Shape: Chain{Points: []geom.Vec2{geom.V(0, 1), geom.V(1, 0)}}, Flags: FlagLadder}

	defs := c.Fixtures(placement(0, 0))
	require.Len(t, defs, 1)
	chain := defs[0].Shape.(physics.Chain)
	assert.False(t, chain.Loop)
	assert.Equal(t, []geom.Vec2{geom.V(0, -1), geom.V(1, 0)}, chain.Vertices)
	assert.True(t, defs[0].Sensor)
}

func TestPointHasNoFixture(t *testing.T) {
	c := Collider{Shape: Point{Pos: geom.V(0.5, 0.5)}}
	assert.Empty(t, c.Fixtures(placement(0, 0)))
}

func rawSheet() *raw.Tileset {
	return &raw.Tileset{
		Name:       "sheet",
		TileWidth:  16,
		TileHeight: 16,
		TileCount:  6,
		Columns:    3,
		Margin:     1,
		Spacing:    2,
		Image:      &raw.Image{Width: 1 + 3*16 + 2*2, Height: 1 + 2*16 + 2},
		Tiles: []*raw.Tile{
			{
				ID:         1,
				Type:       "ladder",
				Properties: flagProps("LADDER"),
				Objects: &raw.ObjectGroup{Objects: []*raw.Object{
					{ID: 1, Width: 16, Height: 16, Shape: raw.Rectangle{}},
				}},
			},
			{
				ID: 4,
				Animation: &raw.Animation{Frames: []raw.Frame{
					{TileID: 4, Duration: 100 * time.Millisecond},
					{TileID: 5, Duration: 200 * time.Millisecond},
				}},
			},
		},
	}
}

func TestFromRaw(t *testing.T) {
	ts, err := FromRaw(rawSheet(), tile16)
	require.NoError(t, err)

	assert.Equal(t, 6, ts.TileCount())
	assert.Equal(t, 2, ts.Rows)
	assert.Equal(t, geom.V(1, 1), ts.TileScale)
	assert.Nil(t, ts.Get(6))

	ladder := ts.Get(1)
	require.NotNil(t, ladder)
	assert.Equal(t, FlagLadder, ladder.Flags)
	require.Len(t, ladder.Colliders, 1)
	assert.Equal(t, FlagLadder, ladder.Colliders[0].Flags)

	anim := ts.Get(4).Animation
	require.NotNil(t, anim)
	assert.Equal(t, 300*time.Millisecond, anim.Duration())

	assert.Equal(t, image.Rect(1, 1, 17, 17), ts.PixelRect(0))
	assert.Equal(t, image.Rect(37, 19, 53, 35), ts.PixelRect(5))

	rects := ts.RectTable()
	require.Len(t, rects, 6)
	assert.InDelta(t, 1.0/53, rects[0].Left, 1e-6)
	assert.InDelta(t, 1.0, rects[5].Right, 1e-6)
	assert.InDelta(t, 1.0, rects[5].Bottom, 1e-6)

	world := physics.NewMemoryWorld()
	body, err := world.CreateStaticBody(geom.V(0, 0))
	require.NoError(t, err)
	require.NoError(t, ladder.CreateFixtures(body, placement(0, 0)))
	fixtures := world.Fixtures()
	require.Len(t, fixtures, 1)
	assert.True(t, fixtures[0].Sensor)
}

func TestFromRawErrors(t *testing.T) {
	tests := []struct {
		name string
		edit func(r *raw.Tileset)
		msg  string
	}{
		{"override out of range", func(r *raw.Tileset) { r.Tiles[1].ID = 6 }, "tile id 6 out of range"},
		{"image too small", func(r *raw.Tileset) { r.Image.Width = 40 }, "too small"},
		{"no image", func(r *raw.Tileset) { r.Image = nil }, "image collection"},
		{"no columns", func(r *raw.Tileset) { r.Columns = 0 }, "columns"},
		{"bad flag", func(r *raw.Tileset) { r.Tiles[0].Properties = flagProps("BOUNCY") }, "tile 1"},
		{"frame out of range", func(r *raw.Tileset) { r.Tiles[1].Animation.Frames[1].TileID = 9 }, "animation frame 9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rawSheet()
			tt.edit(r)

			_, err := FromRaw(r, tile16)
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidateTileCount(t *testing.T) {
	ts, err := FromRaw(rawSheet(), tile16)
	require.NoError(t, err)
	require.NoError(t, ts.Validate())
	require.NoError(t, ts.Validate(), "validate is repeatable")

	ts.Tiles = ts.Tiles[:3]
	assert.ErrorContains(t, ts.Validate(), "tile count 3")
}

func TestAnimation(t *testing.T) {
	a := &Animation{Frames: []Frame{
		{Tile: 4, Duration: 100 * time.Millisecond},
		{Tile: 5, Duration: 200 * time.Millisecond},
	}}
	assert.Equal(t, LocalTileID(4), a.FrameAt(0))
	assert.Equal(t, LocalTileID(5), a.FrameAt(150*time.Millisecond))
	assert.Equal(t, LocalTileID(4), a.FrameAt(320*time.Millisecond))

	an := NewAnimator(a)
	assert.Equal(t, LocalTileID(4), an.Tile())
	assert.Equal(t, LocalTileID(4), an.Update(0.05))
	assert.Equal(t, LocalTileID(5), an.Update(0.1))
	assert.Equal(t, LocalTileID(5), an.Update(0.1))
	// Finishing the loop restarts on the first frame.
	assert.Equal(t, LocalTileID(4), an.Update(0.1))
	assert.Equal(t, LocalTileID(4), an.Update(0.05))
}

func TestFixturesFollowTileAnchor(t *testing.T) {
	tests := []struct {
		name   string
		ts     *Tileset
		rect   Rect
		anchor geom.Vec2
		want   []geom.Vec2
	}{
		{
			name:   "grid sized",
			ts:     &Tileset{TileWidth: 16, TileHeight: 16, TileScale: geom.V(1, 1)},
			rect:   Rect{Min: geom.V(0, 0), Max: geom.V(1, 1)},
			anchor: geom.V(0, 0),
			want:   []geom.Vec2{geom.V(0, 0), geom.V(1, 0), geom.V(1, -1), geom.V(0, -1)},
		},
		{
			name:   "double height sits on the cell bottom",
			ts:     &Tileset{TileWidth: 16, TileHeight: 32, TileScale: geom.V(1, 2)},
			rect:   Rect{Min: geom.V(0, 0), Max: geom.V(1, 2)},
			anchor: geom.V(0, -1),
			want:   []geom.Vec2{geom.V(0, 1), geom.V(1, 1), geom.V(1, -1), geom.V(0, -1)},
		},
		{
			name:   "drawing offset",
			ts:     &Tileset{TileWidth: 16, TileHeight: 16, TileScale: geom.V(1, 1), Offset: image.Pt(4, -8)},
			rect:   Rect{Min: geom.V(0, 0), Max: geom.V(1, 1)},
			anchor: geom.V(0.25, -0.5),
			want:   []geom.Vec2{geom.V(0.25, 0.5), geom.V(1.25, 0.5), geom.V(1.25, -0.5), geom.V(0.25, -0.5)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.ts.Anchor().ApproxEqual(tt.anchor, 1e-12), "anchor %v", tt.ts.Anchor())

			p := placement(0, 0)
			p.Anchor = tt.ts.Anchor()
			defs := Collider{Shape: tt.rect}.Fixtures(p)
			require.Len(t, defs, 1)
			assertPoints(t, tt.want, defs[0].Shape.(physics.Polygon).Vertices)
		})
	}

	assert.Equal(t, geom.Vec2{}, (&Tileset{}).Anchor())
}

func TestFrameIDBeyondLocalRange(t *testing.T) {
	r := rawSheet()
	r.Tiles[1].Animation.Frames[1].TileID = 1 << 16

	_, err := FromRaw(r, tile16)
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "animation frame 65536 out of range")
}
