package geom

import "math"

// Vec2 is a planar vector in world units.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

func (v Vec2) Magnitude() float64  { return math.Hypot(v.X, v.Y) }
func (v Vec2) Magnitude2() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) Distance(o Vec2) float64  { return v.Sub(o).Magnitude() }
func (v Vec2) Distance2(o Vec2) float64 { return v.Sub(o).Magnitude2() }

// Normal is v rotated a quarter turn counter-clockwise.
func (v Vec2) Normal() Vec2 { return Vec2{-v.Y, v.X} }

// Angle is the signed angle from v to o in radians.
func (v Vec2) Angle(o Vec2) float64 {
	return math.Atan2(v.Cross(o), v.Dot(o))
}

func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// DirDist splits v into a unit direction and a length. Degenerate
// (near-zero) vectors report ok == false instead of producing NaNs.
func (v Vec2) DirDist() (dir Vec2, dist float64, ok bool) {
	dist = v.Magnitude()
	if dist < 1e-9 {
		return Vec2{}, 0, false
	}
	return v.Scale(1 / dist), dist, true
}

// Restrict clamps x into [min, max].
func Restrict(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
