package physics

import (
	"math"

	"gridtown.sim/internal/geom"
)

// Transform is a 2D pose: position plus orientation kept as a cosine/sine
// pair. Storing the pair instead of a raw angle avoids wrap-around error
// when integrating small rotations.
type Transform struct {
	pos      geom.Vec2
	cos, sin float64
}

func NewTransform(pos geom.Vec2) Transform {
	return Transform{pos: pos, cos: 1}
}

func (t *Transform) Position() geom.Vec2 { return t.pos }

func (t *Transform) SetPosition(p geom.Vec2) { t.pos = p }

func (t *Transform) Translate(off geom.Vec2) { t.pos = t.pos.Add(off) }

func (t *Transform) SetAngle(a float64) {
	t.cos = math.Cos(a)
	t.sin = math.Sin(a)
}

// SetDirection sets the orientation from a unit vector.
func (t *Transform) SetDirection(dir geom.Vec2) {
	t.cos = dir.X
	t.sin = dir.Y
}

func (t *Transform) Cos() float64 { return t.cos }
func (t *Transform) Sin() float64 { return t.sin }

func (t *Transform) Angle() float64 { return math.Atan2(t.sin, t.cos) }

// Direction is the unit facing vector.
func (t *Transform) Direction() geom.Vec2 { return geom.V(t.cos, t.sin) }

// Normal is the unit vector a quarter turn left of the facing direction.
func (t *Transform) Normal() geom.Vec2 { return geom.V(-t.sin, t.cos) }

// ApplyRotation rotates a local vector into world orientation.
func (t *Transform) ApplyRotation(v geom.Vec2) geom.Vec2 {
	return geom.V(v.X*t.cos-v.Y*t.sin, v.X*t.sin+v.Y*t.cos)
}

// Project maps a local offset to world space.
func (t *Transform) Project(local geom.Vec2) geom.Vec2 {
	return t.pos.Add(t.ApplyRotation(local))
}
