package geom

// PolyLine is an ordered sequence of path points.
type PolyLine []Vec2

func (p PolyLine) NPoints() int { return len(p) }

func (p PolyLine) Length() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		total += p[i].Distance(p[i-1])
	}
	return total
}

func (p PolyLine) Get(i int) (Vec2, bool) {
	if i < 0 || i >= len(p) {
		return Vec2{}, false
	}
	return p[i], true
}

func (p PolyLine) First() (Vec2, bool) {
	if len(p) == 0 {
		return Vec2{}, false
	}
	return p[0], true
}

func (p PolyLine) Last() (Vec2, bool) {
	if len(p) == 0 {
		return Vec2{}, false
	}
	return p[len(p)-1], true
}

// Reversed returns a copy with the point order flipped.
func (p PolyLine) Reversed() PolyLine {
	out := make(PolyLine, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}
