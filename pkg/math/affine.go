package math

import "math"

// Affine is a 2D affine transform stored as the top two rows of a 3x3
// matrix in row-major order:
//
//	[A B X]
//	[C D Y]
//	[0 0 1]
//
// A bone's world transform is an Affine composed from its local transform
// and all ancestor transforms.
type Affine struct {
	A, B, X float32
	C, D, Y float32
}

// AffineIdentity returns the identity transform.
func AffineIdentity() Affine {
	return Affine{A: 1, D: 1}
}

// AffineTranslate returns a pure translation transform.
func AffineTranslate(x, y float32) Affine {
	return Affine{A: 1, D: 1, X: x, Y: y}
}

// AffineRotate returns a pure rotation transform. Angle is in degrees,
// counterclockwise.
func AffineRotate(degrees float32) Affine {
	rad := float64(degrees) * math.Pi / 180
	cos := float32(math.Cos(rad))
	sin := float32(math.Sin(rad))
	return Affine{A: cos, B: -sin, C: sin, D: cos}
}

// AffineScale returns a pure scale transform.
func AffineScale(x, y float32) Affine {
	return Affine{A: x, D: y}
}

// Mul returns t * other (other is applied first).
func (t Affine) Mul(other Affine) Affine {
	return Affine{
		A: t.A*other.A + t.B*other.C,
		B: t.A*other.B + t.B*other.D,
		X: t.A*other.X + t.B*other.Y + t.X,
		C: t.C*other.A + t.D*other.C,
		D: t.C*other.B + t.D*other.D,
		Y: t.C*other.X + t.D*other.Y + t.Y,
	}
}

// Apply transforms a point.
func (t Affine) Apply(v Vec2) Vec2 {
	return Vec2{
		X: t.A*v.X + t.B*v.Y + t.X,
		Y: t.C*v.X + t.D*v.Y + t.Y,
	}
}

// ApplyXY transforms a point given as two scalars.
func (t Affine) ApplyXY(x, y float32) (float32, float32) {
	return t.A*x + t.B*y + t.X, t.C*x + t.D*y + t.Y
}

// Rotation returns the rotation of the X axis in degrees.
func (t Affine) Rotation() float32 {
	return float32(math.Atan2(float64(t.C), float64(t.A)) * 180 / math.Pi)
}

// ScaleX returns the length of the transformed X axis.
func (t Affine) ScaleX() float32 {
	return float32(math.Sqrt(float64(t.A*t.A + t.C*t.C)))
}

// ScaleY returns the length of the transformed Y axis.
func (t Affine) ScaleY() float32 {
	return float32(math.Sqrt(float64(t.B*t.B + t.D*t.D)))
}

// Det returns the determinant of the linear part.
func (t Affine) Det() float32 {
	return t.A*t.D - t.B*t.C
}

// Invert returns the inverse transform. A degenerate transform (zero
// determinant) returns the identity.
func (t Affine) Invert() Affine {
	det := t.Det()
	if det == 0 {
		return AffineIdentity()
	}
	inv := 1 / det
	return Affine{
		A: t.D * inv,
		B: -t.B * inv,
		C: -t.C * inv,
		D: t.A * inv,
		X: (t.B*t.Y - t.D*t.X) * inv,
		Y: (t.C*t.X - t.A*t.Y) * inv,
	}
}
