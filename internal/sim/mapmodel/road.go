package mapmodel

import "gridtown.sim/internal/geom"

// Road is an undirected connection between two intersections owning one or
// more directed lanes.
type Road struct {
	ID       RoadID
	Src, Dst IntersectionID

	SrcPos, DstPos geom.Vec2

	Lanes []LaneID
}

// IncomingLanesTo lists the road's lanes that end at the given intersection.
func (r *Road) IncomingLanesTo(i IntersectionID, lanes Lanes) []LaneID {
	var out []LaneID
	for _, id := range r.Lanes {
		if l, ok := lanes.Get(id); ok && l.Dst == i {
			out = append(out, id)
		}
	}
	return out
}

// OutgoingLanesFrom lists the road's lanes that start at the given intersection.
func (r *Road) OutgoingLanesFrom(i IntersectionID, lanes Lanes) []LaneID {
	var out []LaneID
	for _, id := range r.Lanes {
		if l, ok := lanes.Get(id); ok && l.Src == i {
			out = append(out, id)
		}
	}
	return out
}

// DirFrom is the road's unit direction seen from the given intersection,
// pointing toward the other end.
func (r *Road) DirFrom(i IntersectionID) geom.Vec2 {
	var v geom.Vec2
	if i == r.Src {
		v = r.DstPos.Sub(r.SrcPos)
	} else {
		v = r.SrcPos.Sub(r.DstPos)
	}
	dir, _, ok := v.DirDist()
	if !ok {
		return geom.V(1, 0)
	}
	return dir
}

func (r *Road) otherEnd(i IntersectionID) IntersectionID {
	if i == r.Src {
		return r.Dst
	}
	return r.Src
}
