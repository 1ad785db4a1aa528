package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/source"
	"github.com/automoto/tilechunk/tiled/tileset"
)

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})

	encoders := map[string]func(*os.File) error{
		"sheet.png": func(f *os.File) error { return png.Encode(f, img) },
		"sheet.bmp": func(f *os.File) error { return bmp.Encode(f, img) },
	}
	for name, encode := range encoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			f, err := os.Create(path)
			require.NoError(t, err)
			require.NoError(t, encode(f))
			require.NoError(t, f.Close())

			src, err := source.NewFile(path)
			require.NoError(t, err)
			got, err := LoadImage(src)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 3, 2), got.Bounds())
			r, _, _, _ := got.At(1, 1).RGBA()
			assert.Equal(t, uint32(0xffff), r)
		})
	}

	junk := filepath.Join(dir, "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("not an image"), 0o644))
	src, err := source.NewFile(junk)
	require.NoError(t, err)
	_, err = LoadImage(src)
	assert.ErrorContains(t, err, "decode")
}

func TestView(t *testing.T) {
	v := View{Center: geom.V(10, -5), PixelsPerUnit: 16, Width: 320, Height: 160}

	assert.Equal(t, geom.V(160, 80), v.ToScreen(geom.V(10, -5)))
	assert.Equal(t, geom.V(176, 64), v.ToScreen(geom.V(11, -4)))
	assert.Equal(t, geom.V(11, -4), v.ToWorld(geom.V(176, 64)))

	lo, hi := v.Visible()
	assert.Equal(t, geom.V(0, -10), lo)
	assert.Equal(t, geom.V(20, 0), hi)

	// tiles x 0..20, y 0..10 lie in chunks (0,0) and (1,0)
	assert.Equal(t, image.Rect(0, 0, 2, 1), v.ChunkRange(1, 0))
	assert.Equal(t, image.Rect(-1, -1, 3, 2), v.ChunkRange(1, 1))
}

func TestTileTopLeft(t *testing.T) {
	mapTile := geom.V(16, 16)
	ts := &tileset.Tileset{TileScale: geom.V(1, 1)}
	assert.Equal(t, geom.V(2, -3), TileTopLeft(geom.V(0, 0), 2, 3, ts, mapTile, 1))
	assert.Equal(t, geom.V(20, -6), TileTopLeft(geom.V(16, 0), 2, 3, ts, mapTile, 2))

	tall := &tileset.Tileset{TileScale: geom.V(1, 2), Offset: image.Pt(8, 0)}
	assert.Equal(t, geom.V(2.5, -2), TileTopLeft(geom.V(0, 0), 2, 3, tall, mapTile, 1))
}

func TestOutline(t *testing.T) {
	square := []geom.Vec2{geom.V(0, 0), geom.V(1, 0), geom.V(1, 1), geom.V(0, 1)}

	pts, closed := Outline(physics.Polygon{Vertices: square})
	assert.Equal(t, square, pts)
	assert.True(t, closed)

	_, closed = Outline(physics.Chain{Vertices: square})
	assert.False(t, closed)

	pts, closed = Outline(physics.Circle{Center: geom.V(1, 1), Radius: 2})
	assert.True(t, closed)
	require.Len(t, pts, circleSegments)
	for _, p := range pts {
		assert.InDelta(t, 2, p.Sub(geom.V(1, 1)).Len(), 1e-9)
	}
}
