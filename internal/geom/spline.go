package geom

// Spline is a cubic Hermite segment between From and To with scaled
// tangent vectors at each end. Callers must not pass non-finite inputs.
type Spline struct {
	From, To                     Vec2
	FromDerivative, ToDerivative Vec2
}

// Get evaluates the segment at t in [0, 1]. Get(0) == From, Get(1) == To.
func (s Spline) Get(t float64) Vec2 {
	t2 := t * t
	t3 := t2 * t

	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	return s.From.Scale(h00).
		Add(s.FromDerivative.Scale(h10)).
		Add(s.To.Scale(h01)).
		Add(s.ToDerivative.Scale(h11))
}
