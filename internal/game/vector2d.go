package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a point or velocity on the table plane (x across, z along the short side).
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Z float64 `json:"z" msgpack:"z"`
}

func NewVec2(x, z float64) Vec2 {
	return Vec2{X: x, Z: z}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Z: v.Z + o.Z}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Z: v.Z - o.Z}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: v.X * s, Z: v.Z * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Z*o.Z
}

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Z*v.Z)
}

func (v Vec2) MagnitudeSquared() float64 {
	return v.X*v.X + v.Z*v.Z
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Z == 0
}

// Lift places the point on the cloth at height y.
func (v Vec2) Lift(y float64) mgl64.Vec3 {
	return mgl64.Vec3{v.X, y, v.Z}
}

// clamp limits n to [lo, hi].
func clamp(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
