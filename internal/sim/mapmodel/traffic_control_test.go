package mapmodel

import "testing"

func TestSchedule_Evaluate(t *testing.T) {
	s := ScheduleFromBasic(10, 4, 14, 0)

	cases := []struct {
		time float64
		want TrafficBehavior
	}{
		{0, BehaviorGreen},
		{9.99, BehaviorGreen},
		{10.5, BehaviorOrange},
		{13.99, BehaviorOrange},
		{14, BehaviorRed},
		{27.99, BehaviorRed},
		{28, BehaviorGreen},
	}
	for _, c := range cases {
		if got := s.Evaluate(c.time); got != c.want {
			t.Errorf("Evaluate(%f) = %v, want %v", c.time, got, c.want)
		}
	}
}

func TestSchedule_Periodic(t *testing.T) {
	s := ScheduleFromBasic(10, 4, 14, 7)
	for i := 0; i < 200; i++ {
		tm := float64(i) * 0.37
		if s.Evaluate(tm) != s.Evaluate(tm+s.Period()) {
			t.Fatalf("schedule not periodic at t=%f", tm)
		}
	}
}

func TestSchedule_AntiphaseGroupsNeverBothGreen(t *testing.T) {
	a := ScheduleFromBasic(10, 4, 14, 3)
	b := ScheduleFromBasic(10, 4, 14, 3+14)
	for i := 0; i < 560; i++ {
		tm := float64(i) * 0.1
		if a.Evaluate(tm) == BehaviorGreen && b.Evaluate(tm) == BehaviorGreen {
			t.Fatalf("opposing phases both green at t=%f", tm)
		}
	}
}

func TestControl_Behavior(t *testing.T) {
	if got := Always().Behavior(123); got != BehaviorGreen {
		t.Errorf("always-open = %v, want green", got)
	}
	if got := StopSign().Behavior(123); got != BehaviorStop {
		t.Errorf("stop sign = %v, want stop", got)
	}
	if got := StopSign().Behavior(9999); got != BehaviorStop {
		t.Errorf("stop sign must be time independent, got %v", got)
	}
}
