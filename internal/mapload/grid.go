// Package mapload builds road maps from generators and external files.
package mapload

import (
	"github.com/pkg/errors"

	"gridtown.sim/internal/geom"
	"gridtown.sim/internal/sim/mapmodel"
)

// Grid lays out rows x cols intersections spacing apart and connects each
// to its right and lower neighbor with a two-way road.
func Grid(rows, cols int, spacing float64, policy mapmodel.LightPolicy) (*mapmodel.Map, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.Errorf("grid needs at least 1x1, got %dx%d", rows, cols)
	}
	if spacing <= 0 {
		return nil, errors.Errorf("grid spacing must be positive, got %g", spacing)
	}

	m := mapmodel.New()
	m.Policy = policy

	ids := make([]mapmodel.IntersectionID, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			ids[r*cols+c] = m.AddIntersection(geom.V(float64(c)*spacing, float64(r)*spacing))
		}
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			at := ids[r*cols+c]
			if c+1 < cols {
				if _, ok := m.Connect(at, ids[r*cols+c+1], mapmodel.TwoWay()); !ok {
					return nil, errors.Errorf("grid connect (%d,%d) east failed", r, c)
				}
			}
			if r+1 < rows {
				if _, ok := m.Connect(at, ids[(r+1)*cols+c], mapmodel.TwoWay()); !ok {
					return nil, errors.Errorf("grid connect (%d,%d) south failed", r, c)
				}
			}
		}
	}
	return m, nil
}
