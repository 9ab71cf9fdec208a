package physics

import (
	"math"

	"gridtown.sim/internal/geom"
)

type PhysicsGroup uint8

const (
	GroupVehicles PhysicsGroup = iota
	GroupObstacles
)

// PhysicsObject is the read-only view the spatial index exposes for
// neighbor queries.
type PhysicsObject struct {
	Pos    geom.Vec2
	Dir    geom.Vec2
	Speed  float64
	Radius float64
	Group  PhysicsGroup
}

type ObjectID int32

// QueryHit pairs an object ID with its indexed position.
type QueryHit struct {
	ID  ObjectID
	Pos geom.Vec2
}

// CollisionWorld is a uniform-grid spatial index over physics objects.
// Queries are read-only and safe to run concurrently; Update and Maintain
// must only be called between decision passes.
type CollisionWorld struct {
	cellSize float64
	objects  []PhysicsObject
	grid     map[[2]int32][]ObjectID
}

func NewCollisionWorld(cellSize float64) *CollisionWorld {
	return &CollisionWorld{
		cellSize: cellSize,
		grid:     map[[2]int32][]ObjectID{},
	}
}

func (w *CollisionWorld) Add(obj PhysicsObject) ObjectID {
	id := ObjectID(len(w.objects))
	w.objects = append(w.objects, obj)
	return id
}

// Update overwrites an object's dynamic state. The grid is stale until the
// next Maintain.
func (w *CollisionWorld) Update(id ObjectID, pos, dir geom.Vec2, speed float64) {
	o := &w.objects[id]
	o.Pos = pos
	o.Dir = dir
	o.Speed = speed
}

// Maintain rebuilds the grid from current object positions. Objects are
// binned in ID order so neighbor enumeration is deterministic.
func (w *CollisionWorld) Maintain() {
	for k := range w.grid {
		delete(w.grid, k)
	}
	for id := range w.objects {
		c := w.cellOf(w.objects[id].Pos)
		w.grid[c] = append(w.grid[c], ObjectID(id))
	}
}

// GetObject returns the indexed view of an object.
func (w *CollisionWorld) GetObject(id ObjectID) *PhysicsObject {
	return &w.objects[id]
}

// QueryAround lists every object within radius of pos, in ID-grid order.
func (w *CollisionWorld) QueryAround(pos geom.Vec2, radius float64) []QueryHit {
	r2 := radius * radius
	lo := w.cellOf(pos.Sub(geom.V(radius, radius)))
	hi := w.cellOf(pos.Add(geom.V(radius, radius)))

	var out []QueryHit
	for cx := lo[0]; cx <= hi[0]; cx++ {
		for cy := lo[1]; cy <= hi[1]; cy++ {
			for _, id := range w.grid[[2]int32{cx, cy}] {
				p := w.objects[id].Pos
				if p.Distance2(pos) <= r2 {
					out = append(out, QueryHit{ID: id, Pos: p})
				}
			}
		}
	}
	return out
}

func (w *CollisionWorld) cellOf(p geom.Vec2) [2]int32 {
	return [2]int32{
		int32(math.Floor(p.X / w.cellSize)),
		int32(math.Floor(p.Y / w.cellSize)),
	}
}
