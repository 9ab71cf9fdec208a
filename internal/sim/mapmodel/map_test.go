package mapmodel

import (
	"math"
	"testing"

	"gridtown.sim/internal/geom"
)

// cross builds a 4-way junction: center plus N/S/E/W arms.
func cross(policy LightPolicy, pattern LanePattern) (*Map, IntersectionID) {
	m := New()
	m.Policy = policy
	center := m.AddIntersection(geom.V(0, 0))
	west := m.AddIntersection(geom.V(-100, 0))
	east := m.AddIntersection(geom.V(100, 0))
	north := m.AddIntersection(geom.V(0, 100))
	south := m.AddIntersection(geom.V(0, -100))
	for _, arm := range []IntersectionID{west, east, north, south} {
		if _, ok := m.Connect(center, arm, pattern); !ok {
			panic("connect failed")
		}
	}
	return m, center
}

func TestTurnGeneration_Counts(t *testing.T) {
	m, center := cross(PolicyNoLights, TwoWay())
	inter, _ := m.Intersection(center)

	// One incoming driving lane per road, three distinct outgoing roads each.
	if len(inter.Turns) != 12 {
		t.Fatalf("got %d turns, want 12", len(inter.Turns))
	}
	for _, turn := range inter.Turns {
		if turn.Kind != TurnNormal {
			t.Errorf("turn %v: kind = %v, want normal", turn.ID, turn.Kind)
		}
		if turn.Points.NPoints() != 8 {
			t.Errorf("turn %v: %d points, want 8", turn.ID, turn.Points.NPoints())
		}
		for _, p := range turn.Points {
			if !p.IsFinite() {
				t.Fatalf("turn %v: non-finite point %v", turn.ID, p)
			}
		}
	}
}

func TestTurnGeneration_CrosswalkIsStraight(t *testing.T) {
	m, center := cross(PolicyNoLights, LanePattern{ForwardDriving: 1, BackwardDriving: 1, Sidewalks: true})
	inter, _ := m.Intersection(center)

	crosswalks, corners := 0, 0
	for _, turn := range inter.Turns {
		switch turn.Kind {
		case TurnCrosswalk:
			crosswalks++
			if turn.Points.NPoints() != 2 {
				t.Errorf("crosswalk %v: %d points, want 2", turn.ID, turn.Points.NPoints())
			}
		case TurnWalkingCorner:
			corners++
			if turn.Points.NPoints() != 8 {
				t.Errorf("walking corner %v: %d points, want 8", turn.ID, turn.Points.NPoints())
			}
		}
	}
	if crosswalks == 0 || corners == 0 {
		t.Fatalf("expected both crosswalks and corners, got %d / %d", crosswalks, corners)
	}
}

func TestLightPolicy_TwoRoadsStayOpen(t *testing.T) {
	m := New()
	m.Policy = PolicySmart
	a := m.AddIntersection(geom.V(0, 0))
	b := m.AddIntersection(geom.V(100, 0))
	c := m.AddIntersection(geom.V(200, 0))
	m.Connect(a, b, TwoWay())
	m.Connect(b, c, TwoWay())

	for _, id := range m.LaneIDs() {
		l, _ := m.Lane(id)
		if l.Control.Kind != ControlAlways {
			t.Errorf("lane %d: control = %v, want always-open", id, l.Control.Kind)
		}
	}
}

func TestLightPolicy_StopSignsEverywhere(t *testing.T) {
	m, center := cross(PolicyStopSigns, TwoWay())
	inter, _ := m.Intersection(center)

	for _, roadID := range inter.Roads {
		road, _ := m.Road(roadID)
		for _, laneID := range road.IncomingLanesTo(center, m.Lanes()) {
			l, _ := m.Lane(laneID)
			if l.Control.Kind != ControlStopSign {
				t.Errorf("lane %d: control = %v, want stop sign", laneID, l.Control.Kind)
			}
		}
	}
}

func TestLightPolicy_SmartThreeWay(t *testing.T) {
	m := New()
	m.Policy = PolicySmart
	center := m.AddIntersection(geom.V(0, 0))
	west := m.AddIntersection(geom.V(-100, 0))
	east := m.AddIntersection(geom.V(100, 0))
	south := m.AddIntersection(geom.V(0, -100))
	m.Connect(center, west, TwoWay())
	m.Connect(center, east, TwoWay())
	southRoad, _ := m.Connect(center, south, TwoWay())

	stops := 0
	for _, id := range m.LaneIDs() {
		l, _ := m.Lane(id)
		if l.Dst != center {
			continue
		}
		switch l.Control.Kind {
		case ControlStopSign:
			stops++
			if l.Parent != southRoad {
				t.Errorf("stop sign on road %d, want the minor road %d", l.Parent, southRoad)
			}
		case ControlLight:
			t.Errorf("lane %d: unexpected light at a 3-way smart junction", id)
		}
	}
	if stops != 1 {
		t.Fatalf("got %d stop-signed lanes, want 1", stops)
	}
}

func TestLightPolicy_SmartFourWayLights(t *testing.T) {
	m, center := cross(PolicySmart, TwoWay())
	inter, _ := m.Intersection(center)

	offsets := map[float64]int{}
	for _, roadID := range inter.Roads {
		road, _ := m.Road(roadID)
		for _, laneID := range road.IncomingLanesTo(center, m.Lanes()) {
			l, _ := m.Lane(laneID)
			if l.Control.Kind != ControlLight {
				t.Fatalf("lane %d: control = %v, want light", laneID, l.Control.Kind)
			}
			offsets[l.Control.Schedule.Offset]++
		}
	}
	if len(offsets) != 2 {
		t.Fatalf("got %d distinct phase offsets, want 2 (alternating)", len(offsets))
	}
	var vals []float64
	for v := range offsets {
		vals = append(vals, v)
	}
	if d := math.Abs(vals[0] - vals[1]); d != lightGreenLength+lightOrangeLength {
		t.Errorf("phase offsets %f apart, want %f", d, lightGreenLength+lightOrangeLength)
	}
}

func TestLightPolicy_Deterministic(t *testing.T) {
	m1, c1 := cross(PolicySmart, TwoWay())
	m2, c2 := cross(PolicySmart, TwoWay())

	i1, _ := m1.Intersection(c1)
	i2, _ := m2.Intersection(c2)
	for _, roadID := range i1.Roads {
		r1, _ := m1.Road(roadID)
		r2, _ := m2.Road(roadID)
		ls1 := r1.IncomingLanesTo(c1, m1.Lanes())
		ls2 := r2.IncomingLanesTo(c2, m2.Lanes())
		for k := range ls1 {
			a, _ := m1.Lane(ls1[k])
			b, _ := m2.Lane(ls2[k])
			if a.Control != b.Control {
				t.Fatalf("lane %d: control differs across identical maps", ls1[k])
			}
		}
	}
	_ = i2
}

func TestClosestLane(t *testing.T) {
	m := New()
	a := m.AddIntersection(geom.V(0, 0))
	b := m.AddIntersection(geom.V(100, 0))
	m.Connect(a, b, TwoWay())

	// Point below the center line: the forward (southern) lane is closer.
	id, ok := m.ClosestLane(geom.V(50, -5))
	if !ok {
		t.Fatal("no lane found")
	}
	l, _ := m.Lane(id)
	if l.Src != a || l.Dst != b {
		t.Errorf("closest lane runs %d->%d, want %d->%d", l.Src, l.Dst, a, b)
	}
}

func TestTraversable_ValidityAndPoints(t *testing.T) {
	m, center := cross(PolicyNoLights, TwoWay())
	inter, _ := m.Intersection(center)

	laneID := m.LaneIDs()[0]
	tr := LaneTraversable(laneID, DirectionForward)
	if !tr.IsValid(m) {
		t.Fatal("live lane traversable reported invalid")
	}
	if pts := tr.Points(m); pts.NPoints() < 2 {
		t.Fatalf("lane traversable has %d points", pts.NPoints())
	}

	turn := inter.Turns[0]
	tt := TurnTraversable(turn.ID, DirectionForward)
	if !tt.IsValid(m) {
		t.Fatal("live turn traversable reported invalid")
	}
	if !tt.CanPass(0, m.Lanes()) {
		t.Fatal("turns must always be passable")
	}

	ghost := LaneTraversable(LaneID(9999), DirectionForward)
	if ghost.IsValid(m) {
		t.Fatal("missing lane traversable reported valid")
	}

	rev := tr.Points(m).Reversed()
	fwd := tr.Points(m)
	if rev[0] != fwd[len(fwd)-1] {
		t.Fatal("reversed points do not start at the forward end")
	}
}

func TestCanPass_RedBlocks(t *testing.T) {
	m := New()
	a := m.AddIntersection(geom.V(0, 0))
	b := m.AddIntersection(geom.V(100, 0))
	m.Connect(a, b, TwoWay())

	laneID := m.LaneIDs()[0]
	l, _ := m.Lane(laneID)
	l.Control = Light(ScheduleFromBasic(10, 4, 14, 0))

	tr := LaneTraversable(laneID, DirectionForward)
	if !tr.CanPass(5, m.Lanes()) {
		t.Error("green phase should be passable")
	}
	if tr.CanPass(20, m.Lanes()) {
		t.Error("red phase should block")
	}
	// Orange blocks entry via the decision layer, not via CanPass.
	if !tr.CanPass(11, m.Lanes()) {
		t.Error("orange should not block CanPass")
	}
}
