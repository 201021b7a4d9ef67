package math

import "math"

// DegRad converts degrees to radians.
const DegRad = math.Pi / 180

// RadDeg converts radians to degrees.
const RadDeg = 180 / math.Pi

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mod returns the floating-point remainder of a/b with the sign of b,
// so looping animation times always wrap into [0, b) for positive b.
func Mod(a, b float32) float32 {
	m := float32(math.Mod(float64(a), float64(b)))
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// WrapDeg wraps an angle delta into (-180, 180].
func WrapDeg(deg float32) float32 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}

// Sin is float32 sine with a radian argument.
func Sin(rad float32) float32 {
	return float32(math.Sin(float64(rad)))
}

// Cos is float32 cosine with a radian argument.
func Cos(rad float32) float32 {
	return float32(math.Cos(float64(rad)))
}

// Atan2 is float32 atan2.
func Atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}

// Abs returns the absolute value of v.
func Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
