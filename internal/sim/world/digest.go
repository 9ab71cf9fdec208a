package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// StateDigest hashes the current dynamic state. Only meaningful between
// ticks; tooling and tests use it to compare runs.
func (w *World) StateDigest() string {
	return w.stateDigest(w.tick.Load())
}

// stateDigest hashes the dynamic state after a tick: vehicle poses,
// velocities and itinerary progress, in entity order. Two runs from the same
// seed and map must produce identical digests tick for tick.
func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte

	binary.LittleEndian.PutUint64(tmp[:], nowTick)
	h.Write(tmp[:])
	binary.LittleEndian.PutUint64(tmp[:], uint64(w.cfg.Seed))
	h.Write(tmp[:])

	writeF64 := func(v float64) {
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
		h.Write(tmp[:])
	}

	for _, e := range w.ents {
		binary.LittleEndian.PutUint64(tmp[:], uint64(int64(e.ID)))
		h.Write(tmp[:])
		p := e.Transform.Position()
		writeF64(p.X)
		writeF64(p.Y)
		writeF64(e.Transform.Cos())
		writeF64(e.Transform.Sin())
		writeF64(e.Kinematics.Velocity.X)
		writeF64(e.Kinematics.Velocity.Y)
		writeF64(e.Vehicle.DesiredSpeed)
		writeF64(e.Vehicle.WaitTime)
	}

	return hex.EncodeToString(h.Sum(nil))
}
