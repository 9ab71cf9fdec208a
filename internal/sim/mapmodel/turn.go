package mapmodel

import (
	"fmt"

	"gridtown.sim/internal/geom"
)

type TurnKind uint8

const (
	TurnNormal TurnKind = iota
	TurnCrosswalk
	TurnWalkingCorner
)

func (k TurnKind) IsCrosswalk() bool { return k == TurnCrosswalk }

func (k TurnKind) String() string {
	switch k {
	case TurnCrosswalk:
		return "crosswalk"
	case TurnWalkingCorner:
		return "walking_corner"
	default:
		return "normal"
	}
}

// Turn is a generated path across an intersection from the end of one lane
// to the start of another.
type Turn struct {
	ID     TurnID
	Kind   TurnKind
	Points geom.PolyLine
}

func NewTurn(id TurnID, kind TurnKind) Turn {
	return Turn{ID: id, Kind: kind}
}

const nSplinePoints = 6

// MakePoints regenerates the turn path from the adjacent lanes' terminal
// poses. Crosswalks get a straight two-point path; everything else is
// sampled from a Hermite spline whose tangents are the lane directions
// scaled by half the endpoint distance.
func (t *Turn) MakePoints(lanes Lanes) {
	src, okSrc := lanes.Get(t.ID.Src)
	dst, okDst := lanes.Get(t.ID.Dst)
	if !okSrc || !okDst {
		return
	}

	posSrc := src.InterNodePos(t.ID.Parent)
	posDst := dst.InterNodePos(t.ID.Parent)

	if t.Kind.IsCrosswalk() {
		t.Points = geom.PolyLine{posSrc, posDst}
		return
	}

	dist := posDst.Sub(posSrc).Magnitude() / 2

	sp := geom.Spline{
		From:           posSrc,
		To:             posDst,
		FromDerivative: src.OrientationVec().Scale(dist),
		ToDerivative:   dst.OrientationVec().Scale(dist),
	}

	pts := make(geom.PolyLine, 0, nSplinePoints+2)
	pts = append(pts, posSrc)
	for i := 1; i <= nSplinePoints; i++ {
		p := sp.Get(float64(i) / float64(nSplinePoints+1))
		if !p.IsFinite() {
			panic(fmt.Sprintf("turn %v: non-finite spline point at sample %d", t.ID, i))
		}
		pts = append(pts, p)
	}
	pts = append(pts, posDst)
	t.Points = pts
}
