package mapmodel

// Entity cross-references (lane -> road, intersection -> turns, turn ->
// src/dst lane) form cycles, so everything is addressed by stable IDs into
// the Map's owning collections instead of by pointer.

type LaneID int32

type RoadID int32

type IntersectionID int32

// TurnID identifies a turn by its endpoints: there is at most one turn
// between a given source and destination lane at an intersection.
type TurnID struct {
	Parent IntersectionID
	Src    LaneID
	Dst    LaneID
}
