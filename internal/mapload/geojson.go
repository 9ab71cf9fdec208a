package mapload

import (
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"

	"gridtown.sim/internal/geom"
	"gridtown.sim/internal/sim/mapmodel"
)

// LoadGeoJSON builds a map from a FeatureCollection. Point features with an
// "id" property become intersections; LineString features with "src" and
// "dst" properties become two-way roads between them. Coordinates are taken
// as plane meters, not lon/lat.
//
// A line feature may carry "lanes_forward", "lanes_backward" (defaulting to
// 1 each) and "sidewalks" to override the lane pattern.
func LoadGeoJSON(path string, policy mapmodel.LightPolicy) (*mapmodel.Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read map file")
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, errors.Wrap(err, "parse feature collection")
	}

	m := mapmodel.New()
	m.Policy = policy

	inters := map[string]mapmodel.IntersectionID{}
	for _, f := range fc.Features {
		if f.Geometry == nil || !f.Geometry.IsPoint() {
			continue
		}
		name, err := f.PropertyString("id")
		if err != nil {
			return nil, errors.Wrap(err, "point feature missing id")
		}
		if _, dup := inters[name]; dup {
			return nil, errors.Errorf("duplicate intersection id %q", name)
		}
		pt := f.Geometry.Point
		if len(pt) < 2 {
			return nil, errors.Errorf("intersection %q has a malformed point", name)
		}
		inters[name] = m.AddIntersection(geom.V(pt[0], pt[1]))
	}

	for _, f := range fc.Features {
		if f.Geometry == nil || !f.Geometry.IsLineString() {
			continue
		}
		src, err := f.PropertyString("src")
		if err != nil {
			return nil, errors.Wrap(err, "line feature missing src")
		}
		dst, err := f.PropertyString("dst")
		if err != nil {
			return nil, errors.Wrap(err, "line feature missing dst")
		}
		a, okA := inters[src]
		b, okB := inters[dst]
		if !okA || !okB {
			return nil, errors.Errorf("road %s-%s references unknown intersections", src, dst)
		}

		pattern := mapmodel.TwoWay()
		if n, err := f.PropertyInt("lanes_forward"); err == nil {
			pattern.ForwardDriving = n
		}
		if n, err := f.PropertyInt("lanes_backward"); err == nil {
			pattern.BackwardDriving = n
		}
		if sw, err := f.PropertyBool("sidewalks"); err == nil {
			pattern.Sidewalks = sw
		}

		if _, ok := m.Connect(a, b, pattern); !ok {
			return nil, errors.Errorf("road %s-%s could not be connected", src, dst)
		}
	}

	if len(m.LaneIDs()) == 0 {
		return nil, errors.New("map has no lanes")
	}
	return m, nil
}
