package mapmodel

import "gridtown.sim/internal/geom"

type TraverseKind uint8

const (
	TraverseLane TraverseKind = iota
	TraverseTurn
)

type TraverseDirection uint8

const (
	DirectionForward TraverseDirection = iota
	DirectionBackward
)

// Traversable is a directed path segment an agent can occupy: a lane or a
// turn, walked forward or backward. A closed variant, dispatched by switch.
type Traversable struct {
	Kind      TraverseKind
	Lane      LaneID
	Turn      TurnID
	Direction TraverseDirection
}

func LaneTraversable(id LaneID, dir TraverseDirection) Traversable {
	return Traversable{Kind: TraverseLane, Lane: id, Direction: dir}
}

func TurnTraversable(id TurnID, dir TraverseDirection) Traversable {
	return Traversable{Kind: TraverseTurn, Turn: id, Direction: dir}
}

func (t Traversable) IsLane() bool { return t.Kind == TraverseLane }

// Points is the ordered point sequence in traversal order.
func (t Traversable) Points(m *Map) geom.PolyLine {
	var pts geom.PolyLine
	switch t.Kind {
	case TraverseLane:
		l, ok := m.Lane(t.Lane)
		if !ok {
			return nil
		}
		pts = l.Points
	case TraverseTurn:
		inter, ok := m.Intersection(t.Turn.Parent)
		if !ok {
			return nil
		}
		turn, ok := inter.FindTurn(t.Turn)
		if !ok {
			return nil
		}
		pts = turn.Points
	}
	if t.Direction == DirectionBackward {
		return pts.Reversed()
	}
	return pts
}

// IsValid reports whether the referenced entity still exists in the live
// map. Cached traversables must be revalidated before dereferencing.
func (t Traversable) IsValid(m *Map) bool {
	switch t.Kind {
	case TraverseLane:
		_, ok := m.Lane(t.Lane)
		return ok
	case TraverseTurn:
		inter, ok := m.Intersection(t.Turn.Parent)
		if !ok {
			return false
		}
		_, ok = inter.FindTurn(t.Turn)
		return ok
	}
	return false
}

// CanPass reports whether an agent may move onto the segment beyond this
// traversable right now. For a lane that depends on the control regime at
// its end; turns are always passable once entered onto.
func (t Traversable) CanPass(timeSeconds float64, lanes Lanes) bool {
	if t.Kind != TraverseLane {
		return true
	}
	l, ok := lanes.Get(t.Lane)
	if !ok {
		return false
	}
	return !l.Control.Behavior(timeSeconds).IsRed()
}
