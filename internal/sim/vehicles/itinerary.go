package vehicles

import (
	"gridtown.sim/internal/geom"
	"gridtown.sim/internal/sim/mapmodel"
)

// Itinerary is an agent's queued sequence of traversables plus a cursor
// into the current one's point sequence. The cursor never exceeds the
// current point count.
type Itinerary struct {
	travers    mapmodel.Traversable
	hasTravers bool

	queue  []mapmodel.Traversable
	points geom.PolyLine
	cursor int
}

// GetPoint returns the next target point, or false when the current
// traversable is exhausted.
func (it *Itinerary) GetPoint() (geom.Vec2, bool) {
	return it.points.Get(it.cursor)
}

// RemainingPoints counts the points left to visit on the current traversable.
func (it *Itinerary) RemainingPoints() int {
	if it.cursor >= len(it.points) {
		return 0
	}
	return len(it.points) - it.cursor
}

func (it *Itinerary) GetTravers() (mapmodel.Traversable, bool) {
	return it.travers, it.hasTravers
}

// Advance moves the cursor forward; when the current traversable is
// exhausted it moves onto the next queued one. Entry gating (can-pass at a
// boundary) is the caller's concern.
func (it *Itinerary) Advance(m *mapmodel.Map) {
	if it.cursor < len(it.points) {
		it.cursor++
	}
	if it.cursor >= len(it.points) && len(it.queue) > 0 {
		next := it.queue[0]
		it.queue = it.queue[1:]
		it.travers = next
		it.hasTravers = true
		it.points = next.Points(m)
		it.cursor = 0
	}
}

// HasEnded reports that the last traversable is exhausted with nothing
// queued behind it.
func (it *Itinerary) HasEnded() bool {
	return it.cursor >= len(it.points) && len(it.queue) == 0
}

// SetSimple replaces the plan with a single traversable computed fresh from
// the map.
func (it *Itinerary) SetSimple(t mapmodel.Traversable, m *mapmodel.Map) {
	it.travers = t
	it.hasTravers = true
	it.queue = nil
	it.points = t.Points(m)
	it.cursor = 0
}

// SetRoute replaces the plan with an ordered sequence of traversables. The
// first becomes current; the rest are queued behind it.
func (it *Itinerary) SetRoute(ts []mapmodel.Traversable, m *mapmodel.Map) {
	if len(ts) == 0 {
		it.SetNone()
		return
	}
	it.SetSimple(ts[0], m)
	it.queue = append(it.queue, ts[1:]...)
}

// SetNone invalidates the itinerary, e.g. after the underlying traversable
// disappeared from the map.
func (it *Itinerary) SetNone() {
	it.hasTravers = false
	it.queue = nil
	it.points = nil
	it.cursor = 0
}
