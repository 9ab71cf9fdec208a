package world

import (
	"sync"

	"gridtown.sim/internal/geom"
	"gridtown.sim/internal/sim/vehicles"
)

// StepOnce advances the world by one tick and returns the new tick number
// and the post-step state digest.
//
// The decision pass reads shared state (map, collision grid) and writes only
// the deciding vehicle's own components, so it fans out across Workers. The
// integration and grid rebuild that follow mutate shared state and stay
// sequential.
func (w *World) StepOnce() (uint64, string) {
	dt := 1.0 / float64(w.cfg.TickRateHz)
	w.timeSeconds += dt

	env := &vehicles.Env{
		Map:   w.m,
		Cow:   w.cow,
		Rand:  w.rng,
		Time:  w.timeSeconds,
		Delta: dt,
	}

	w.decisionPass(env)

	for _, e := range w.ents {
		e.Kinematics.Velocity = e.Kinematics.Velocity.Add(e.Kinematics.Acceleration.Scale(dt))
		e.Kinematics.Acceleration = geom.V(0, 0)
		e.Transform.Translate(e.Kinematics.Velocity.Scale(dt))

		w.cow.Update(e.Collider, e.Transform.Position(), e.Transform.Direction(), e.Kinematics.Velocity.Magnitude())
	}
	w.cow.Maintain()

	tick := w.tick.Add(1)
	digest := w.stateDigest(tick)

	if w.tickLogger != nil {
		f := w.frame()
		_ = w.tickLogger.WriteTick(TickLogEntry{
			Tick:   tick,
			Time:   w.timeSeconds,
			Digest: digest,
			Poses:  f.Vehicles,
		})
	}
	return tick, digest
}

func (w *World) decisionPass(env *vehicles.Env) {
	if w.cfg.Workers == 1 {
		for _, e := range w.ents {
			vehicles.UpdateVehicle(env, &e.Transform, &e.Kinematics, &e.Vehicle)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (len(w.ents) + w.cfg.Workers - 1) / w.cfg.Workers
	for lo := 0; lo < len(w.ents); lo += chunk {
		hi := lo + chunk
		if hi > len(w.ents) {
			hi = len(w.ents)
		}
		wg.Add(1)
		go func(part []*VehicleEntity) {
			defer wg.Done()
			for _, e := range part {
				vehicles.UpdateVehicle(env, &e.Transform, &e.Kinematics, &e.Vehicle)
			}
		}(w.ents[lo:hi])
	}
	wg.Wait()
}
