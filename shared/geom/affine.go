package geom

import "math"

// Affine is a 2x3 affine transform. A point p maps to
//
//	x' = M11*x + M21*y + M31
//	y' = M12*x + M22*y + M32
type Affine struct {
	M11, M12 float64
	M21, M22 float64
	M31, M32 float64
}

func Identity() Affine {
	return Affine{M11: 1, M22: 1}
}

func Translation(v Vec2) Affine {
	return Affine{M11: 1, M22: 1, M31: v.X, M32: v.Y}
}

// Rotation rotates by rad radians around pivot. In a y-down space a positive
// angle turns clockwise on screen.
func Rotation(rad float64, pivot Vec2) Affine {
	sin, cos := math.Sincos(rad)
	r := Affine{M11: cos, M12: sin, M21: -sin, M22: cos}
	return Translation(pivot.Scale(-1)).Then(r).Then(Translation(pivot))
}

func Scaling(s Vec2) Affine {
	return Affine{M11: s.X, M22: s.Y}
}

// Then returns the transform that applies m first and o second.
func (m Affine) Then(o Affine) Affine {
	return Affine{
		M11: m.M11*o.M11 + m.M12*o.M21,
		M12: m.M11*o.M12 + m.M12*o.M22,
		M21: m.M21*o.M11 + m.M22*o.M21,
		M22: m.M21*o.M12 + m.M22*o.M22,
		M31: m.M31*o.M11 + m.M32*o.M21 + o.M31,
		M32: m.M31*o.M12 + m.M32*o.M22 + o.M32,
	}
}

func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.M11*p.X + m.M21*p.Y + m.M31,
		Y: m.M12*p.X + m.M22*p.Y + m.M32,
	}
}

// ApplyAll maps every point and returns a new slice.
func (m Affine) ApplyAll(pts []Vec2) []Vec2 {
	out := make([]Vec2, len(pts))
	for i, p := range pts {
		out[i] = m.Apply(p)
	}
	return out
}
