package main

import "math"

const (
	WorldWidth  = 4000.0
	WorldHeight = 4000.0

	TankRadius   = 20.0
	BulletRadius = 5.0
)

// Obstacle is a static axis-aligned rectangle tanks and bullets cannot enter
type Obstacle struct {
	X, Y, W, H float64
}

// The four fixed obstacles. Coordinates are part of the client contract.
var Obstacles = [4]Obstacle{
	{X: 800, Y: 800, W: 400, H: 200},
	{X: 2800, Y: 700, W: 200, H: 500},
	{X: 1600, Y: 2200, W: 700, H: 250},
	{X: 900, Y: 3000, W: 300, H: 300},
}

// IsBlocked reports whether a circle at (x,y) with the given radius would
// leave the map or overlap an obstacle. Pure and deterministic; every mover
// goes through it.
func IsBlocked(x, y, radius float64) bool {
	if x < radius || x > WorldWidth-radius || y < radius || y > WorldHeight-radius {
		return true
	}
	for _, o := range Obstacles {
		// Closest point on the rect to the circle center
		cx := Clamp(x, o.X, o.X+o.W)
		cy := Clamp(y, o.Y, o.Y+o.H)
		dx := x - cx
		dy := y - cy
		if dx*dx+dy*dy < radius*radius {
			return true
		}
	}
	return false
}

// CheckCollision checks if two circles overlap
func CheckCollision(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	radSum := r1 + r2
	return dx*dx+dy*dy <= radSum*radSum
}

// DistanceSq returns the squared distance between two points
func DistanceSq(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
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
