package mapload

import (
	"os"
	"path/filepath"
	"testing"

	"gridtown.sim/internal/geom"
	"gridtown.sim/internal/sim/mapmodel"
)

func TestGrid_ConnectsNeighbors(t *testing.T) {
	m, err := Grid(3, 4, 200, mapmodel.PolicySmart)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if got := len(m.IntersectionIDs()); got != 12 {
		t.Fatalf("%d intersections, want 12", got)
	}
	// 3 rows of 3 horizontal roads plus 2 rows of 4 vertical roads,
	// two driving lanes each.
	wantRoads := 3*3 + 2*4
	if got := len(m.Roads()); got != wantRoads {
		t.Fatalf("%d roads, want %d", got, wantRoads)
	}
	if got := len(m.LaneIDs()); got != wantRoads*2 {
		t.Fatalf("%d lanes, want %d", got, wantRoads*2)
	}
}

func TestGrid_RejectsBadDimensions(t *testing.T) {
	if _, err := Grid(0, 4, 200, mapmodel.PolicySmart); err == nil {
		t.Fatalf("expected error for zero rows")
	}
	if _, err := Grid(2, 2, -1, mapmodel.PolicySmart); err == nil {
		t.Fatalf("expected error for negative spacing")
	}
}

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"id": "a"},
     "geometry": {"type": "Point", "coordinates": [0, 0]}},
    {"type": "Feature", "properties": {"id": "b"},
     "geometry": {"type": "Point", "coordinates": [300, 0]}},
    {"type": "Feature", "properties": {"id": "c"},
     "geometry": {"type": "Point", "coordinates": [0, 300]}},
    {"type": "Feature", "properties": {"src": "a", "dst": "b", "sidewalks": true},
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [300, 0]]}},
    {"type": "Feature", "properties": {"src": "a", "dst": "c"},
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [0, 300]]}}
  ]
}`

func writeMapFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.geojson")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	return path
}

func TestLoadGeoJSON_BuildsRoads(t *testing.T) {
	m, err := LoadGeoJSON(writeMapFile(t, sampleGeoJSON), mapmodel.PolicyNoLights)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(m.IntersectionIDs()); got != 3 {
		t.Fatalf("%d intersections, want 3", got)
	}
	if got := len(m.Roads()); got != 2 {
		t.Fatalf("%d roads, want 2", got)
	}
	// The a-b road carries sidewalks, the a-c road does not: two driving
	// lanes per road plus two walkways on the first.
	if got := len(m.LaneIDs()); got != 6 {
		t.Fatalf("%d lanes, want 6", got)
	}

	laneID, ok := m.ClosestLane(geom.V(150, -5))
	if !ok {
		t.Fatalf("no drivable lane near the a-b road")
	}
	lane, _ := m.Lane(laneID)
	if !lane.Kind.NeedsLight() {
		t.Fatalf("closest lane is not drivable")
	}
}

func TestLoadGeoJSON_RejectsBrokenInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not geojson", `{"type": "nope"`},
		{"point without id", `{"type": "FeatureCollection", "features": [
			{"type": "Feature", "properties": {},
			 "geometry": {"type": "Point", "coordinates": [0, 0]}}]}`},
		{"road to unknown node", `{"type": "FeatureCollection", "features": [
			{"type": "Feature", "properties": {"id": "a"},
			 "geometry": {"type": "Point", "coordinates": [0, 0]}},
			{"type": "Feature", "properties": {"src": "a", "dst": "ghost"},
			 "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}}]}`},
		{"no roads at all", `{"type": "FeatureCollection", "features": [
			{"type": "Feature", "properties": {"id": "a"},
			 "geometry": {"type": "Point", "coordinates": [0, 0]}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadGeoJSON(writeMapFile(t, tc.body), mapmodel.PolicySmart); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}
