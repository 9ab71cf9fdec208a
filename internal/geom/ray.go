package geom

// Ray is a half-line: origin plus a unit direction.
type Ray struct {
	From Vec2
	Dir  Vec2
}

// BothDistToInter computes where two rays cross, returning each ray's
// distance to the crossing point. ok is false when the rays are parallel
// or the crossing lies behind either origin.
func BothDistToInter(a, b Ray) (distA, distB float64, ok bool) {
	div := a.Dir.Cross(b.Dir)
	if div > -1e-9 && div < 1e-9 {
		return 0, 0, false
	}

	diff := b.From.Sub(a.From)
	distA = diff.Cross(b.Dir) / div
	distB = diff.Cross(a.Dir) / div

	if distA < 0 || distB < 0 {
		return 0, 0, false
	}
	return distA, distB, true
}
