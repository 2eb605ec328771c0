package game

import "math"

// aimAngle returns the launch angle in radians, measured from the positive x axis,
// for a shot from the cue ball towards a point dx, dz away.
// The base angle comes from acos(|dx| / dist) and is then moved into the right
// quadrant from the signs of dx and dz.
func aimAngle(dx, dz float64) float64 {
	dist := math.Sqrt(dx*dx + dz*dz)
	theta := math.Acos(math.Abs(dx) / dist)

	switch {
	case dz <= 0 && dx >= 0:
		theta = -theta
	case dz >= 0 && dx <= 0:
		theta = math.Pi - theta
	case dz <= 0 && dx <= 0:
		theta = math.Pi + theta
	}
	return theta
}

// launchVelocity computes the cue ball velocity for an aim point. Speed grows
// with the planar distance to the aim point. ok is false when the aim point
// sits on the cue ball centre.
func launchVelocity(cue, target Vec2, power float64) (v Vec2, ok bool) {
	dx := target.X - cue.X
	dz := target.Z - cue.Z
	dist := math.Sqrt(dx*dx + dz*dz)
	if dist == 0 || math.IsNaN(dist) {
		return Vec2{}, false
	}

	theta := aimAngle(dx, dz)
	speed := dist * power
	return NewVec2(speed*math.Cos(theta), speed*math.Sin(theta)), true
}

// findBearing returns the angle in degrees from dx, dz.
func findBearing(dx, dz float64) float64 {
	return math.Atan2(dz, dx) * 180 / math.Pi
}
