package mapmodel

import "math"

// TrafficBehavior is what a lane's control regime tells an approaching
// vehicle at a given instant.
type TrafficBehavior uint8

const (
	BehaviorGreen TrafficBehavior = iota
	BehaviorOrange
	BehaviorRed
	// BehaviorStop is the stop-sign state: always yield, independent of time.
	BehaviorStop
)

func (b TrafficBehavior) IsRed() bool { return b == BehaviorRed }

type ControlKind uint8

const (
	ControlAlways ControlKind = iota
	ControlStopSign
	ControlLight
)

func (k ControlKind) String() string {
	switch k {
	case ControlStopSign:
		return "stop_sign"
	case ControlLight:
		return "light"
	default:
		return "always"
	}
}

// TrafficControl is the entry rule at the end of a lane.
type TrafficControl struct {
	Kind     ControlKind
	Schedule TrafficLightSchedule
}

func Always() TrafficControl   { return TrafficControl{Kind: ControlAlways} }
func StopSign() TrafficControl { return TrafficControl{Kind: ControlStopSign} }
func Light(s TrafficLightSchedule) TrafficControl {
	return TrafficControl{Kind: ControlLight, Schedule: s}
}

func (c TrafficControl) Behavior(timeSeconds float64) TrafficBehavior {
	switch c.Kind {
	case ControlStopSign:
		return BehaviorStop
	case ControlLight:
		return c.Schedule.Evaluate(timeSeconds)
	default:
		return BehaviorGreen
	}
}

// TrafficLightSchedule is a fixed repeating green/orange/red cycle with a
// phase offset. All durations are simulated seconds.
type TrafficLightSchedule struct {
	Green  float64
	Orange float64
	Red    float64
	Offset float64
}

func ScheduleFromBasic(green, orange, red, offset float64) TrafficLightSchedule {
	return TrafficLightSchedule{Green: green, Orange: orange, Red: red, Offset: offset}
}

func (s TrafficLightSchedule) Period() float64 { return s.Green + s.Orange + s.Red }

func (s TrafficLightSchedule) Evaluate(timeSeconds float64) TrafficBehavior {
	x := math.Mod(timeSeconds+s.Offset, s.Period())
	if x < 0 {
		x += s.Period()
	}
	switch {
	case x < s.Green:
		return BehaviorGreen
	case x < s.Green+s.Orange:
		return BehaviorOrange
	default:
		return BehaviorRed
	}
}
