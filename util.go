package main

import "math"

// Vec3 is a position or velocity in stage space. The play field is the XZ
// plane; Y is height and stays fixed for everything the engine spawns.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+o
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v*s
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// DistSq returns the squared 3-D distance between v and o
func (v Vec3) DistSq(o Vec3) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return dx*dx + dy*dy + dz*dz
}

// DistSqXZ returns the squared distance on the horizontal plane only
func (v Vec3) DistSqXZ(o Vec3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return dx*dx + dz*dz
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampHP floors health at zero for anything shown to collaborators
func ClampHP(hp int) int {
	if hp < 0 {
		return 0
	}
	return hp
}

// round2 trims floats to 2 decimals for snapshots
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
