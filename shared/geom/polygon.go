package geom

import (
	"errors"
	"math"
)

// ErrTooFewPoints is returned when a polygon has fewer than three vertices.
var ErrTooFewPoints = errors.New("polygon needs at least 3 points")

// SignedArea is positive for counter-clockwise winding in a y-up space.
func SignedArea(pts []Vec2) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].Cross(pts[j])
	}
	return a / 2
}

// CounterClockwise returns pts wound counter-clockwise (y-up), reversing a
// copy when needed.
func CounterClockwise(pts []Vec2) []Vec2 {
	out := append([]Vec2(nil), pts...)
	if SignedArea(out) < 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Triangle is three vertices.
type Triangle [3]Vec2

func (t Triangle) Area() float64 {
	return math.Abs(SignedArea(t[:]))
}

// Degenerate reports whether the triangle has (near) zero area.
func (t Triangle) Degenerate() bool {
	return t.Area() < 1e-9
}

// Triangulate splits a simple polygon into len(pts)-2 triangles by ear
// clipping. Triangles keep the winding of the input.
func Triangulate(pts []Vec2) ([]Triangle, error) {
	n := len(pts)
	if n < 3 {
		return nil, ErrTooFewPoints
	}

	// Work on an index list wound counter-clockwise.
	idx := make([]int, n)
	ccw := SignedArea(pts) >= 0
	for i := range idx {
		if ccw {
			idx[i] = i
		} else {
			idx[i] = n - 1 - i
		}
	}

	tris := make([]Triangle, 0, n-2)
	emit := func(a, b, c int) {
		if ccw {
			tris = append(tris, Triangle{pts[a], pts[b], pts[c]})
		} else {
			tris = append(tris, Triangle{pts[c], pts[b], pts[a]})
		}
	}

	for len(idx) > 3 {
		m := len(idx)
		clipped := false
		for i := 0; i < m; i++ {
			a, b, c := idx[(i+m-1)%m], idx[i], idx[(i+1)%m]
			if !isEar(pts, idx, a, b, c) {
				continue
			}
			emit(a, b, c)
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Self-intersecting or fully collinear input. Clip the first
			// vertex anyway so the count stays n-2.
			emit(idx[m-1], idx[0], idx[1])
			idx = idx[1:]
		}
	}
	emit(idx[0], idx[1], idx[2])
	return tris, nil
}

func isEar(pts []Vec2, idx []int, a, b, c int) bool {
	pa, pb, pc := pts[a], pts[b], pts[c]
	if pb.Sub(pa).Cross(pc.Sub(pb)) <= 1e-12 {
		return false
	}
	for _, k := range idx {
		if k == a || k == b || k == c {
			continue
		}
		p := pts[k]
		if p == pa || p == pb || p == pc {
			continue
		}
		if pointInTriangle(p, pa, pb, pc) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c Vec2) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}

// EllipseRing returns divisions points evenly spaced in angle around an
// axis-aligned ellipse.
func EllipseRing(center Vec2, rx, ry float64, divisions int) []Vec2 {
	pts := make([]Vec2, divisions)
	for i := range pts {
		t := float64(i) / float64(divisions) * 2 * math.Pi
		pts[i] = Vec2{X: center.X + rx*math.Cos(t), Y: center.Y + ry*math.Sin(t)}
	}
	return pts
}
