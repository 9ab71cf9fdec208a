package geom

import (
	"math"
	"testing"
)

func TestSpline_Endpoints(t *testing.T) {
	s := Spline{
		From:           V(0, 0),
		To:             V(10, 5),
		FromDerivative: V(5, 0),
		ToDerivative:   V(0, 5),
	}
	if got := s.Get(0); got != s.From {
		t.Fatalf("Get(0) = %v, want %v", got, s.From)
	}
	if got := s.Get(1); got.Distance(s.To) > 1e-9 {
		t.Fatalf("Get(1) = %v, want %v", got, s.To)
	}
}

func TestSpline_FiniteSamples(t *testing.T) {
	cases := []Spline{
		{From: V(0, 0), To: V(1, 0), FromDerivative: V(0.5, 0), ToDerivative: V(0.5, 0)},
		{From: V(-40, 12), To: V(33, -7), FromDerivative: V(0, 36), ToDerivative: V(-36, 0)},
		{From: V(2, 2), To: V(2, 2), FromDerivative: V(0, 0), ToDerivative: V(0, 0)},
	}
	for _, s := range cases {
		for i := 0; i <= 20; i++ {
			p := s.Get(float64(i) / 20)
			if !p.IsFinite() {
				t.Fatalf("non-finite sample %v at t=%f for %+v", p, float64(i)/20, s)
			}
		}
	}
}

func TestSpline_StraightLineStaysStraight(t *testing.T) {
	s := Spline{
		From:           V(0, 0),
		To:             V(10, 0),
		FromDerivative: V(5, 0),
		ToDerivative:   V(5, 0),
	}
	for i := 1; i < 7; i++ {
		p := s.Get(float64(i) / 7)
		if math.Abs(p.Y) > 1e-9 {
			t.Fatalf("collinear spline left the line: %v", p)
		}
	}
}
