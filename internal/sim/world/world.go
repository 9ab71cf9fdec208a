package world

import (
	"fmt"
	"sync/atomic"

	"gridtown.sim/internal/geom"
	"gridtown.sim/internal/sim/mapmodel"
	"gridtown.sim/internal/sim/physics"
	"gridtown.sim/internal/sim/simrand"
	"gridtown.sim/internal/sim/vehicles"
)

type Config struct {
	ID         string
	TickRateHz int
	// Workers is the fan-out of the per-vehicle decision pass. 1 keeps the
	// shared random stream's draw order fixed and runs bit-reproducible.
	Workers     int
	Seed        int64
	BusFraction float64
}

// VehicleEntity joins the components one agent owns. Within a tick, only
// that agent's own update writes them.
type VehicleEntity struct {
	ID         int
	Transform  physics.Transform
	Kinematics physics.Kinematics
	Vehicle    vehicles.VehicleComponent
	Collider   physics.ObjectID
}

// TickLogger receives one entry per completed tick. Implementations live in
// internal/persistence; a nil logger disables recording.
type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type TickLogEntry struct {
	Tick   uint64        `json:"tick"`
	Time   float64       `json:"time"`
	Digest string        `json:"digest"`
	Poses  []VehiclePose `json:"poses"`
}

type VehiclePose struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Cos   float64 `json:"cos"`
	Sin   float64 `json:"sin"`
	Speed float64 `json:"speed"`
}

// Frame is the read-only view handed to observers.
type Frame struct {
	Tick     uint64
	Time     float64
	Vehicles []VehiclePose
}

type frameReq struct {
	resp chan Frame
}

// World owns the simulation state. All mutation happens on the goroutine
// driving Step/Run; observers talk to it through channels.
type World struct {
	cfg Config

	m   *mapmodel.Map
	cow *physics.CollisionWorld
	rng *simrand.Rand

	timeSeconds float64
	tick        atomic.Uint64

	ents []*VehicleEntity

	tickLogger TickLogger

	frameReq chan frameReq
	stop     chan struct{}
}

const collisionCellSize = 20.0

func New(cfg Config, m *mapmodel.Map) (*World, error) {
	if cfg.TickRateHz <= 0 {
		return nil, fmt.Errorf("world %q: tick rate must be positive, got %d", cfg.ID, cfg.TickRateHz)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &World{
		cfg:      cfg,
		m:        m,
		cow:      physics.NewCollisionWorld(collisionCellSize),
		rng:      simrand.New(cfg.Seed),
		frameReq: make(chan frameReq),
		stop:     make(chan struct{}),
	}, nil
}

func (w *World) Config() Config      { return w.cfg }
func (w *World) Map() *mapmodel.Map  { return w.m }
func (w *World) CurrentTick() uint64 { return w.tick.Load() }

// SetTickLogger attaches a recording sink. Must be called before Run.
func (w *World) SetTickLogger(l TickLogger) { w.tickLogger = l }

// SpawnVehicles places n vehicles on random drivable lanes. Each starts
// with an empty itinerary; its first tick snaps it onto the closest lane.
func (w *World) SpawnVehicles(n int) int {
	var drivable []mapmodel.LaneID
	for _, id := range w.m.LaneIDs() {
		if l, _ := w.m.Lane(id); l.Kind.NeedsLight() {
			drivable = append(drivable, id)
		}
	}
	if len(drivable) == 0 {
		return 0
	}

	spawned := 0
	for i := 0; i < n; i++ {
		laneID := drivable[w.rng.Intn(len(drivable))]
		lane, _ := w.m.Lane(laneID)

		first, _ := lane.Points.First()
		last, _ := lane.Points.Last()
		dir := lane.OrientationVec()
		pos := first.Add(last.Sub(first).Scale(w.rng.Float64() * 0.8))

		kind := vehicles.KindCar
		if w.rng.Float64() < w.cfg.BusFraction {
			kind = vehicles.KindBus
		}

		trans := physics.NewTransform(pos)
		trans.SetDirection(dir)

		collider := w.cow.Add(physics.PhysicsObject{
			Pos:    pos,
			Dir:    dir,
			Radius: kind.Width() / 2,
			Group:  physics.GroupVehicles,
		})

		w.ents = append(w.ents, &VehicleEntity{
			ID:         len(w.ents),
			Transform:  trans,
			Kinematics: physics.KinematicsFromMass(1000),
			Vehicle:    vehicles.NewVehicle(kind),
			Collider:   collider,
		})
		spawned++
	}
	w.cow.Maintain()
	return spawned
}

// AddObstacle registers a static object vehicles will avoid.
func (w *World) AddObstacle(pos geom.Vec2, radius float64) {
	w.cow.Add(physics.PhysicsObject{Pos: pos, Radius: radius, Group: physics.GroupObstacles})
	w.cow.Maintain()
}

// Vehicles exposes the entity arena, for tests and scenario setup.
func (w *World) Vehicles() []*VehicleEntity { return w.ents }

func (w *World) frame() Frame {
	f := Frame{
		Tick:     w.tick.Load(),
		Time:     w.timeSeconds,
		Vehicles: make([]VehiclePose, len(w.ents)),
	}
	for i, e := range w.ents {
		p := e.Transform.Position()
		f.Vehicles[i] = VehiclePose{
			ID:    e.ID,
			X:     p.X,
			Y:     p.Y,
			Cos:   e.Transform.Cos(),
			Sin:   e.Transform.Sin(),
			Speed: e.Kinematics.Velocity.Magnitude(),
		}
	}
	return f
}
