package vehicles

import "gridtown.sim/internal/geom"

// VehicleKind carries a kind's performance constants.
type VehicleKind uint8

const (
	KindCar VehicleKind = iota
	KindBus
)

func (k VehicleKind) Acceleration() float64 {
	if k == KindBus {
		return 2.0
	}
	return 3.0
}

func (k VehicleKind) Deceleration() float64 {
	if k == KindBus {
		return 5.0
	}
	return 9.0
}

func (k VehicleKind) CruisingSpeed() float64 {
	if k == KindBus {
		return 10.0
	}
	return 15.0
}

func (k VehicleKind) AngAcc() float64 {
	if k == KindBus {
		return 0.8
	}
	return 1.0
}

func (k VehicleKind) MinTurningRadius() float64 {
	if k == KindBus {
		return 5.0
	}
	return 3.0
}

// Width is the vehicle footprint across the lane.
func (k VehicleKind) Width() float64 {
	if k == KindBus {
		return 5.5
	}
	return 4.5
}

// VehicleComponent is the per-agent driving state. Written only by its own
// agent's update within a tick.
type VehicleComponent struct {
	Kind      VehicleKind
	Itinerary Itinerary

	DesiredSpeed float64
	DesiredDir   geom.Vec2

	// AngVelocity is the scalar yaw rate, ramped by AngAcc and capped by
	// speed over turning radius.
	AngVelocity float64

	// WaitTime is the remaining deadlock-breaking cooldown in seconds.
	WaitTime float64
}

func NewVehicle(kind VehicleKind) VehicleComponent {
	return VehicleComponent{Kind: kind}
}
