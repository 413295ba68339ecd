// Package physics provides the circle geometry the game runs on.
package physics

import "math"

// DistanceSquared returns the squared distance between two points.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle reports whether a point lies in the circle. Points on the
// edge count as inside.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// Reflect keeps a circle of radius r inside [0, span] on one axis. When the
// edge crosses a wall the center is clamped and the velocity turned back
// inward. A circle wider than span is centered with its velocity unchanged.
func Reflect(pos, vel, r, span float64) (float64, float64) {
	switch {
	case 2*r >= span:
		return span / 2, vel
	case pos-r < 0:
		return r, math.Abs(vel)
	case pos+r > span:
		return span - r, -math.Abs(vel)
	}
	return pos, vel
}
