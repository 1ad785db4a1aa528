package render

import (
	"image"

	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/tilemap"
)

// View maps world positions, y up, to screen pixels around a camera centre.
type View struct {
	Center        geom.Vec2
	PixelsPerUnit float64
	Width, Height int
}

func (v View) half() geom.Vec2 {
	return geom.V(float64(v.Width)/2, float64(v.Height)/2)
}

func (v View) ToScreen(p geom.Vec2) geom.Vec2 {
	d := p.Sub(v.Center).Scale(v.PixelsPerUnit).FlipY()
	return d.Add(v.half())
}

func (v View) ToWorld(px geom.Vec2) geom.Vec2 {
	return px.Sub(v.half()).FlipY().Scale(1 / v.PixelsPerUnit).Add(v.Center)
}

// Visible is the world rectangle on screen.
func (v View) Visible() (lo, hi geom.Vec2) {
	h := v.half().Scale(1 / v.PixelsPerUnit)
	return v.Center.Sub(h), v.Center.Add(h)
}

// ChunkRange is the rectangle of chunk positions overlapping the view,
// grown by margin chunks on every side. Max is exclusive.
func (v View) ChunkRange(unitsPerTile float64, margin int) image.Rectangle {
	lo, hi := v.Visible()
	a := tilemap.ChunkPosOf(geom.V(lo.X, hi.Y), unitsPerTile)
	b := tilemap.ChunkPosOf(geom.V(hi.X, lo.Y), unitsPerTile)
	m := image.Pt(margin, margin)
	return image.Rectangle{Min: a.Sub(m), Max: b.Add(m).Add(image.Pt(1, 1))}
}
