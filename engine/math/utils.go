package math

import (
	stdmath "math"

	"golang.org/x/exp/constraints"
)

const (
	Pi             float32 = stdmath.Pi
	HalfPi         float32 = Pi * 0.5
	TwoPi          float32 = Pi * 2
	Deg2RadFactor  float32 = Pi / 180
	Rad2DegFactor  float32 = 180 / Pi
	FloatEpsilon   float32 = 1.192092896e-07
	FloatTolerance float32 = 0.0001
)

// Clamp returns f clamped to the range [low, high].
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

func DegToRad(degrees float32) float32 {
	return degrees * Deg2RadFactor
}

func RadToDeg(radians float32) float32 {
	return radians * Rad2DegFactor
}

func sin(x float32) float32  { return float32(stdmath.Sin(float64(x))) }
func cos(x float32) float32  { return float32(stdmath.Cos(float64(x))) }
func tan(x float32) float32  { return float32(stdmath.Tan(float64(x))) }
func acos(x float32) float32 { return float32(stdmath.Acos(float64(x))) }
func sqrt(x float32) float32 { return float32(stdmath.Sqrt(float64(x))) }

func abs[T constraints.Float | constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// nearlyEqual compares two floats within tolerance.
func nearlyEqual(a, b, tolerance float32) bool {
	return abs(a-b) <= tolerance
}
