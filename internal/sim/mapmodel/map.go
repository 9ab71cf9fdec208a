package mapmodel

import (
	"math"

	"gridtown.sim/internal/geom"
)

type Lanes map[LaneID]*Lane

func (ls Lanes) Get(id LaneID) (*Lane, bool) {
	l, ok := ls[id]
	return l, ok
}

type Roads map[RoadID]*Road

func (rs Roads) Get(id RoadID) (*Road, bool) {
	r, ok := rs[id]
	return r, ok
}

type Intersections map[IntersectionID]*Intersection

func (is Intersections) Get(id IntersectionID) (*Intersection, bool) {
	i, ok := is[id]
	return i, ok
}

// Geometry constants for road construction, world units.
const (
	laneOffset   = 3.0  // distance from the road center line to a driving lane
	laneWidth    = 6.0  // spacing between parallel lanes of one direction
	sidewalkOff  = 8.0  // distance from the center line to a sidewalk
	interRadius  = 12.0 // how far lane ends are pulled back from the junction center
	minRoadSplit = 3.0
)

// Map owns every lane, road and intersection and hands out stable IDs.
// Read-only for the duration of a simulation tick.
type Map struct {
	lanes         Lanes
	roads         Roads
	intersections Intersections

	// Append-only ID order, for deterministic iteration.
	laneOrder  []LaneID
	interOrder []IntersectionID

	nextLane  int32
	nextRoad  int32
	nextInter int32

	// Policy is stamped onto new intersections.
	Policy LightPolicy
}

func New() *Map {
	return &Map{
		lanes:         Lanes{},
		roads:         Roads{},
		intersections: Intersections{},
		Policy:        PolicySmart,
	}
}

func (m *Map) Lanes() Lanes                 { return m.lanes }
func (m *Map) Roads() Roads                 { return m.roads }
func (m *Map) Intersections() Intersections { return m.intersections }

func (m *Map) Lane(id LaneID) (*Lane, bool) { return m.lanes.Get(id) }
func (m *Map) Road(id RoadID) (*Road, bool) { return m.roads.Get(id) }
func (m *Map) Intersection(id IntersectionID) (*Intersection, bool) {
	return m.intersections.Get(id)
}

// LaneIDs returns every live lane ID in creation order.
func (m *Map) LaneIDs() []LaneID {
	out := make([]LaneID, 0, len(m.laneOrder))
	for _, id := range m.laneOrder {
		if _, ok := m.lanes[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// IntersectionIDs returns every live intersection ID in creation order.
func (m *Map) IntersectionIDs() []IntersectionID {
	out := make([]IntersectionID, 0, len(m.interOrder))
	for _, id := range m.interOrder {
		if _, ok := m.intersections[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (m *Map) AddIntersection(pos geom.Vec2) IntersectionID {
	id := IntersectionID(m.nextInter)
	m.nextInter++
	m.intersections[id] = &Intersection{ID: id, Pos: pos, Policy: m.Policy}
	m.interOrder = append(m.interOrder, id)
	return id
}

// LanePattern describes the lane make-up of a road.
type LanePattern struct {
	ForwardDriving  int
	BackwardDriving int
	Sidewalks       bool
}

func TwoWay() LanePattern {
	return LanePattern{ForwardDriving: 1, BackwardDriving: 1}
}

// Connect builds a road between two intersections, lays out its lanes and
// regenerates turns and traffic control at both ends.
func (m *Map) Connect(a, b IntersectionID, pattern LanePattern) (RoadID, bool) {
	ia, okA := m.intersections.Get(a)
	ib, okB := m.intersections.Get(b)
	if !okA || !okB || a == b {
		return 0, false
	}

	delta := ib.Pos.Sub(ia.Pos)
	dir, dist, ok := delta.DirDist()
	if !ok || dist < 2*minRoadSplit {
		return 0, false
	}

	roadID := RoadID(m.nextRoad)
	m.nextRoad++
	road := &Road{ID: roadID, Src: a, Dst: b, SrcPos: ia.Pos, DstPos: ib.Pos}
	m.roads[roadID] = road

	trim := math.Min(interRadius, dist/3)
	n := dir.Normal()
	start := ia.Pos.Add(dir.Scale(trim))
	end := ib.Pos.Add(dir.Scale(-trim))

	// Right-hand traffic: forward lanes sit right of the center line,
	// backward lanes right of their own direction, i.e. the other side.
	for k := 0; k < pattern.ForwardDriving; k++ {
		off := n.Scale(-(laneOffset + float64(k)*laneWidth))
		m.addLane(road, LaneDriving, a, b, geom.PolyLine{start.Add(off), end.Add(off)})
	}
	for k := 0; k < pattern.BackwardDriving; k++ {
		off := n.Scale(laneOffset + float64(k)*laneWidth)
		m.addLane(road, LaneDriving, b, a, geom.PolyLine{end.Add(off), start.Add(off)})
	}
	if pattern.Sidewalks {
		offR := n.Scale(-sidewalkOff - float64(pattern.ForwardDriving-1)*laneWidth)
		offL := n.Scale(sidewalkOff + float64(pattern.BackwardDriving-1)*laneWidth)
		m.addLane(road, LaneWalking, a, b, geom.PolyLine{start.Add(offR), end.Add(offR)})
		m.addLane(road, LaneWalking, b, a, geom.PolyLine{end.Add(offL), start.Add(offL)})
	}

	ia.Roads = append(ia.Roads, roadID)
	ib.Roads = append(ib.Roads, roadID)

	m.RefreshIntersection(a)
	m.RefreshIntersection(b)
	return roadID, true
}

func (m *Map) addLane(road *Road, kind LaneKind, src, dst IntersectionID, pts geom.PolyLine) LaneID {
	id := LaneID(m.nextLane)
	m.nextLane++
	m.lanes[id] = &Lane{
		ID:      id,
		Parent:  road.ID,
		Kind:    kind,
		Src:     src,
		Dst:     dst,
		Control: Always(),
		Points:  pts,
	}
	m.laneOrder = append(m.laneOrder, id)
	road.Lanes = append(road.Lanes, id)
	return id
}

// RefreshIntersection regenerates turns and re-applies the light policy
// after the surrounding topology changed.
func (m *Map) RefreshIntersection(id IntersectionID) {
	inter, ok := m.intersections.Get(id)
	if !ok {
		return
	}
	inter.UpdateTurns(m.lanes, m.roads)
	inter.UpdateTraffic(m.lanes, m.roads)
}

// ClosestLane finds the drivable lane nearest to pos.
func (m *Map) ClosestLane(pos geom.Vec2) (LaneID, bool) {
	best := math.Inf(1)
	var bestID LaneID
	found := false
	for _, id := range m.laneOrder {
		l, ok := m.lanes[id]
		if !ok || !l.Kind.NeedsLight() {
			continue
		}
		if d := l.DistanceTo(pos); d < best {
			best = d
			bestID = id
			found = true
		}
	}
	return bestID, found
}
