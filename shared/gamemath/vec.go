// Package gamemath holds the float32 vector math shared by the simulation and
// the client. It has no graphics dependencies so the relay and tests stay
// headless.
//
// Every product is wrapped in an explicit float32 conversion. Go
// allows fusing x*y+z into one instruction unless the product is converted,
// and a fused result would differ between amd64 and arm64 peers.
package gamemath

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float32
}

var (
	Zero  = Vec2{}
	UnitX = Vec2{X: 1}
	UnitY = Vec2{Y: 1}
)

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Scale multiplies both components by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: float32(v.X * s), Y: float32(v.Y * s)}
}

func (v Vec2) Dot(o Vec2) float32 {
	return float32(v.X*o.X) + float32(v.Y*o.Y)
}

func (v Vec2) LengthSquared() float32 {
	return v.Dot(v)
}

// Length uses a float64 square root. IEEE sqrt is correctly rounded so the
// result is identical on every platform.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSquared())))
}

func (v Vec2) DistanceSquared(o Vec2) float32 {
	return v.Sub(o).LengthSquared()
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Zero
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// ClampAbs clamps both components to [-limit, limit].
func (v Vec2) ClampAbs(limit float32) Vec2 {
	return Vec2{X: Clamp(v.X, -limit, limit), Y: Clamp(v.Y, -limit, limit)}
}

// Clamp clamps a value to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Abs returns |x|.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
