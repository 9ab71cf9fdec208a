package world

import (
	"context"
	"math"
	"testing"
	"time"

	"gridtown.sim/internal/geom"
	"gridtown.sim/internal/sim/mapmodel"
)

func crossMap() *mapmodel.Map {
	m := mapmodel.New()
	m.Policy = mapmodel.PolicySmart
	c := m.AddIntersection(geom.V(0, 0))
	n := m.AddIntersection(geom.V(0, 200))
	s := m.AddIntersection(geom.V(0, -200))
	e := m.AddIntersection(geom.V(200, 0))
	w := m.AddIntersection(geom.V(-200, 0))
	for _, other := range []mapmodel.IntersectionID{n, s, e, w} {
		if _, ok := m.Connect(c, other, mapmodel.TwoWay()); !ok {
			panic("connect failed")
		}
	}
	return m
}

func TestSpawnVehicles_PlacesOnDrivableLanes(t *testing.T) {
	w, err := New(Config{ID: "test", TickRateHz: 20, Seed: 7, BusFraction: 0.3}, crossMap())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}

	got := w.SpawnVehicles(25)
	if got != 25 {
		t.Fatalf("spawned %d, want 25", got)
	}
	if len(w.Vehicles()) != 25 {
		t.Fatalf("arena holds %d entities", len(w.Vehicles()))
	}
	for _, e := range w.Vehicles() {
		p := e.Transform.Position()
		if !p.IsFinite() {
			t.Fatalf("vehicle %d spawned at non-finite position %v", e.ID, p)
		}
		d := e.Transform.Direction()
		if math.Abs(d.Magnitude()-1) > 1e-9 {
			t.Fatalf("vehicle %d direction not unit: %v", e.ID, d)
		}
	}
}

func TestSpawnVehicles_EmptyMap(t *testing.T) {
	w, err := New(Config{ID: "test", TickRateHz: 20, Seed: 1}, mapmodel.New())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	if got := w.SpawnVehicles(5); got != 0 {
		t.Fatalf("spawned %d on an empty map", got)
	}
}

func TestNew_RejectsBadTickRate(t *testing.T) {
	if _, err := New(Config{ID: "test"}, crossMap()); err == nil {
		t.Fatalf("expected error for zero tick rate")
	}
}

func TestDeterminism_SameSeedSameDigests(t *testing.T) {
	cfg := Config{ID: "test", TickRateHz: 20, Workers: 1, Seed: 42, BusFraction: 0.2}

	run := func() []string {
		w, err := New(cfg, crossMap())
		if err != nil {
			t.Fatalf("new world: %v", err)
		}
		if got := w.SpawnVehicles(30); got != 30 {
			t.Fatalf("spawned %d", got)
		}
		digests := make([]string, 0, 100)
		for i := 0; i < 100; i++ {
			_, d := w.StepOnce()
			digests = append(digests, d)
		}
		return digests
	}

	d1 := run()
	d2 := run()
	for i := range d1 {
		if d1[i] != d2[i] {
			t.Fatalf("digest diverged at tick %d: %s vs %s", i+1, d1[i], d2[i])
		}
	}
}

func TestStepOnce_MovesVehicles(t *testing.T) {
	w, err := New(Config{ID: "test", TickRateHz: 20, Seed: 9}, crossMap())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	w.SpawnVehicles(10)

	start := make([]geom.Vec2, len(w.Vehicles()))
	for i, e := range w.Vehicles() {
		start[i] = e.Transform.Position()
	}

	for i := 0; i < 100; i++ {
		w.StepOnce()
	}

	moved := 0
	for i, e := range w.Vehicles() {
		if e.Transform.Position().Distance(start[i]) > 1.0 {
			moved++
		}
	}
	if moved == 0 {
		t.Fatalf("no vehicle moved after 100 ticks")
	}
	if w.CurrentTick() != 100 {
		t.Fatalf("tick counter %d, want 100", w.CurrentTick())
	}
}

type captureLogger struct {
	entries []TickLogEntry
}

func (c *captureLogger) WriteTick(e TickLogEntry) error {
	c.entries = append(c.entries, e)
	return nil
}

func TestTickLogger_ReceivesOrderedEntries(t *testing.T) {
	w, err := New(Config{ID: "test", TickRateHz: 20, Seed: 3}, crossMap())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	w.SpawnVehicles(5)

	logger := &captureLogger{}
	w.SetTickLogger(logger)

	for i := 0; i < 10; i++ {
		w.StepOnce()
	}
	if len(logger.entries) != 10 {
		t.Fatalf("logged %d entries, want 10", len(logger.entries))
	}
	for i, e := range logger.entries {
		if e.Tick != uint64(i+1) {
			t.Fatalf("entry %d has tick %d", i, e.Tick)
		}
		if len(e.Poses) != 5 {
			t.Fatalf("entry %d has %d poses", i, len(e.Poses))
		}
		if e.Digest == "" {
			t.Fatalf("entry %d missing digest", i)
		}
	}
}

func TestRunLoop_FrameAndStop(t *testing.T) {
	w, err := New(Config{ID: "test", TickRateHz: 200, Seed: 5}, crossMap())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	w.SpawnVehicles(4)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	f, err := w.RequestFrame(ctx)
	if err != nil {
		t.Fatalf("request frame: %v", err)
	}
	if len(f.Vehicles) != 4 {
		t.Fatalf("frame holds %d vehicles", len(f.Vehicles))
	}

	w.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop")
	}
}
