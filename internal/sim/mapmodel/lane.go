package mapmodel

import (
	"math"

	"gridtown.sim/internal/geom"
)

// LaneKind discriminates what a lane is for. Only some kinds take part in
// traffic-control assignment.
type LaneKind uint8

const (
	LaneDriving LaneKind = iota
	LaneBus
	LaneWalking
	LaneParking
)

func (k LaneKind) String() string {
	switch k {
	case LaneDriving:
		return "driving"
	case LaneBus:
		return "bus"
	case LaneWalking:
		return "walking"
	case LaneParking:
		return "parking"
	default:
		return "unknown"
	}
}

// NeedsLight reports whether lanes of this kind are subject to
// traffic-control assignment at intersections.
func (k LaneKind) NeedsLight() bool {
	return k == LaneDriving || k == LaneBus
}

// Lane is a directed path along a road, from Src to Dst intersection.
// Control is written by the traffic-control assignment pass and read every
// tick by many vehicles.
type Lane struct {
	ID     LaneID
	Parent RoadID
	Kind   LaneKind

	Src, Dst IntersectionID

	Control TrafficControl
	Points  geom.PolyLine
}

// InterNodePos is the lane endpoint sitting at the given intersection.
func (l *Lane) InterNodePos(i IntersectionID) geom.Vec2 {
	if i == l.Src {
		p, _ := l.Points.First()
		return p
	}
	p, _ := l.Points.Last()
	return p
}

// OrientationVec is the lane's overall unit direction of travel.
func (l *Lane) OrientationVec() geom.Vec2 {
	first, _ := l.Points.First()
	last, _ := l.Points.Last()
	dir, _, ok := last.Sub(first).DirDist()
	if !ok {
		return geom.V(1, 0)
	}
	return dir
}

// DistanceTo is the squared distance from pos to the lane's center line.
func (l *Lane) DistanceTo(pos geom.Vec2) float64 {
	best := math.Inf(1)
	for i := 1; i < len(l.Points); i++ {
		d := distToSegment2(pos, l.Points[i-1], l.Points[i])
		if d < best {
			best = d
		}
	}
	return best
}

func distToSegment2(p, a, b geom.Vec2) float64 {
	ab := b.Sub(a)
	len2 := ab.Magnitude2()
	if len2 < 1e-12 {
		return p.Distance2(a)
	}
	t := geom.Restrict(p.Sub(a).Dot(ab)/len2, 0, 1)
	return p.Distance2(a.Add(ab.Scale(t)))
}
