package mapmodel

import (
	"math"
	"math/rand"
)

// LightPolicy decides which traffic-control regime each incoming lane of an
// intersection gets.
type LightPolicy uint8

const (
	// PolicySmart picks per-topology: nothing for <=2 roads, a stop sign on
	// the minor road of a 3-way junction, cyclic lights otherwise.
	PolicySmart LightPolicy = iota
	PolicyNoLights
	PolicyStopSigns
	PolicyLights
)

// Light cycle constants, simulated seconds.
const (
	lightGreenLength  = 10.0
	lightOrangeLength = 4.0
	lightRedLength    = lightGreenLength + lightOrangeLength
)

// Apply assigns a control regime to every relevant incoming lane of the
// intersection. Total over any non-degenerate topology; road groups without
// controllable lanes are dropped before counting.
func (p LightPolicy) Apply(inter *Intersection, lanes Lanes, roads Roads) {
	var groups [][]LaneID
	for _, roadID := range inter.Roads {
		road, ok := roads.Get(roadID)
		if !ok {
			continue
		}
		var group []LaneID
		for _, laneID := range road.IncomingLanesTo(inter.ID, lanes) {
			if l, _ := lanes.Get(laneID); l.Kind.NeedsLight() {
				group = append(group, laneID)
			}
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}

	for _, group := range groups {
		for _, laneID := range group {
			setControl(lanes, laneID, Always())
		}
	}

	twoRoadsOrLess := len(groups) <= 2

	switch {
	case p == PolicyNoLights || (p == PolicySmart && twoRoadsOrLess):
		// Everything stays open.

	case p == PolicyStopSigns:
		for _, group := range groups {
			for _, laneID := range group {
				setControl(lanes, laneID, StopSign())
			}
		}

	case p == PolicySmart && len(groups) == 3:
		// T/Y junction: stop sign on the road forming the sharpest fork,
		// i.e. the one not part of the widest-angle pair.
		maxAng := 0.0
		perp := 0
		for i := 0; i < 3; i++ {
			a, _ := lanes.Get(groups[i][0])
			b, _ := lanes.Get(groups[(i+1)%3][0])
			roadA, _ := roads.Get(a.Parent)
			roadB, _ := roads.Get(b.Parent)

			ang := math.Abs(roadA.DirFrom(inter.ID).Angle(roadB.DirFrom(inter.ID)))
			if ang > maxAng {
				maxAng = ang
				perp = (i + 2) % 3
			}
		}
		for _, laneID := range groups[perp] {
			setControl(lanes, laneID, StopSign())
		}

	default:
		// Cyclic lights: alternate road groups between two phases half a
		// period apart, with a per-intersection base offset drawn from a
		// PRNG seeded by the intersection ID so junctions don't switch in
		// lockstep but runs stay reproducible.
		offset := float64(rand.New(rand.NewSource(int64(inter.ID))).Intn(lightGreenLength))

		for i, group := range groups {
			phase := offset
			if i%2 == 0 {
				phase = lightGreenLength + lightOrangeLength + offset
			}
			light := Light(ScheduleFromBasic(lightGreenLength, lightOrangeLength, lightRedLength, phase))
			for _, laneID := range group {
				setControl(lanes, laneID, light)
			}
		}
	}
}

func setControl(lanes Lanes, id LaneID, c TrafficControl) {
	if l, ok := lanes.Get(id); ok {
		l.Control = c
	}
}
