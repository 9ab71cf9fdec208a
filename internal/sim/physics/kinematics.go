package physics

import "gridtown.sim/internal/geom"

// Kinematics is a body's linear motion state.
type Kinematics struct {
	Velocity     geom.Vec2
	Acceleration geom.Vec2
	Mass         float64
}

func KinematicsFromMass(mass float64) Kinematics {
	return Kinematics{Mass: mass}
}
