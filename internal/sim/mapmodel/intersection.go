package mapmodel

import "gridtown.sim/internal/geom"

// Intersection joins roads and owns the turns across itself. Immutable
// during simulation except through map edits.
type Intersection struct {
	ID  IntersectionID
	Pos geom.Vec2

	Roads []RoadID
	Turns []Turn

	Policy LightPolicy
}

// TurnsFrom lists the turns departing from the given incoming lane.
func (i *Intersection) TurnsFrom(lane LaneID) []TurnID {
	var out []TurnID
	for _, t := range i.Turns {
		if t.ID.Src == lane {
			out = append(out, t.ID)
		}
	}
	return out
}

func (i *Intersection) FindTurn(id TurnID) (*Turn, bool) {
	for k := range i.Turns {
		if i.Turns[k].ID == id {
			return &i.Turns[k], true
		}
	}
	return nil, false
}

// UpdateTurns regenerates the turn set: one turn for every (incoming,
// outgoing) lane pair of matching kind on distinct roads. Must be called
// whenever an adjacent lane's terminal pose changes.
func (i *Intersection) UpdateTurns(lanes Lanes, roads Roads) {
	i.Turns = i.Turns[:0]

	for _, inRoadID := range i.Roads {
		inRoad, ok := roads.Get(inRoadID)
		if !ok {
			continue
		}
		for _, src := range inRoad.IncomingLanesTo(i.ID, lanes) {
			srcLane, _ := lanes.Get(src)
			for _, outRoadID := range i.Roads {
				if outRoadID == inRoadID {
					continue
				}
				outRoad, ok := roads.Get(outRoadID)
				if !ok {
					continue
				}
				for _, dst := range outRoad.OutgoingLanesFrom(i.ID, lanes) {
					dstLane, _ := lanes.Get(dst)
					kind, ok := turnKindFor(srcLane.Kind, dstLane.Kind, inRoad.DirFrom(i.ID), outRoad.DirFrom(i.ID))
					if !ok {
						continue
					}
					t := NewTurn(TurnID{Parent: i.ID, Src: src, Dst: dst}, kind)
					t.MakePoints(lanes)
					i.Turns = append(i.Turns, t)
				}
			}
		}
	}
}

// UpdateTraffic re-runs the intersection's light policy over its incoming
// lanes.
func (i *Intersection) UpdateTraffic(lanes Lanes, roads Roads) {
	i.Policy.Apply(i, lanes, roads)
}

// turnKindFor classifies the connection between two lane kinds. Walking
// lanes on roughly opposing roads cross the junction straight (crosswalk);
// walking lanes around a corner follow a spline like vehicles do.
func turnKindFor(src, dst LaneKind, inDir, outDir geom.Vec2) (TurnKind, bool) {
	switch {
	case src == LaneWalking && dst == LaneWalking:
		if inDir.Dot(outDir) < -0.7 {
			return TurnCrosswalk, true
		}
		return TurnWalkingCorner, true
	case src == LaneWalking || dst == LaneWalking:
		return TurnNormal, false
	case src.NeedsLight() && dst.NeedsLight():
		return TurnNormal, true
	default:
		return TurnNormal, false
	}
}
