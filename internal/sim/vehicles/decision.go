package vehicles

import (
	"math"

	"gridtown.sim/internal/geom"
	"gridtown.sim/internal/sim/mapmodel"
	"gridtown.sim/internal/sim/physics"
	"gridtown.sim/internal/sim/simrand"
)

// ObjectiveOKDist is how close an agent must get to its current target
// point before advancing to the next one.
const ObjectiveOKDist = 4.0

// Env is the shared read-only state of one decision pass. The map, index
// and clock must not be mutated while vehicle updates run against it.
type Env struct {
	Map  *mapmodel.Map
	Cow  *physics.CollisionWorld
	Rand *simrand.Rand

	// Time is total simulated seconds; Delta the tick's elapsed seconds.
	Time  float64
	Delta float64
}

// UpdateVehicle runs one agent's full per-tick update: itinerary refresh,
// then the steering/kinematics decision. It writes only this agent's
// transform, kinematics and vehicle component, so updates for distinct
// agents may run in parallel against the same Env.
func UpdateVehicle(env *Env, trans *physics.Transform, kin *physics.Kinematics, v *VehicleComponent) {
	objectiveUpdate(env, trans, v)
	vehiclePhysics(env, trans, kin, v)
}

// objectiveUpdate keeps the itinerary live: drops stale plans, advances
// past reached points when the boundary allows it, and replans single-hop
// when the current plan has ended.
func objectiveUpdate(env *Env, trans *physics.Transform, v *VehicleComponent) {
	if tr, ok := v.Itinerary.GetTravers(); ok && !tr.IsValid(env.Map) {
		v.Itinerary.SetNone()
	}

	if p, ok := v.Itinerary.GetPoint(); ok {
		if p.Distance2(trans.Position()) < ObjectiveOKDist*ObjectiveOKDist {
			tr, _ := v.Itinerary.GetTravers()
			if v.Itinerary.RemainingPoints() > 1 || tr.CanPass(env.Time, env.Map.Lanes()) {
				v.Itinerary.Advance(env.Map)
			}
		}
	}

	if !v.Itinerary.HasEnded() {
		return
	}

	tr, ok := v.Itinerary.GetTravers()
	if !ok {
		// Fresh or invalidated agent: snap onto the nearest lane.
		id, found := env.Map.ClosestLane(trans.Position())
		if !found {
			return
		}
		v.Itinerary.SetSimple(mapmodel.LaneTraversable(id, mapmodel.DirectionForward), env.Map)
		return
	}

	switch tr.Kind {
	case mapmodel.TraverseTurn:
		v.Itinerary.SetSimple(mapmodel.LaneTraversable(tr.Turn.Dst, mapmodel.DirectionForward), env.Map)

	case mapmodel.TraverseLane:
		lane, ok := env.Map.Lane(tr.Lane)
		if !ok {
			return
		}
		inter, ok := env.Map.Intersection(lane.Dst)
		if !ok {
			return
		}
		neighs := inter.TurnsFrom(tr.Lane)
		if len(neighs) == 0 {
			return
		}
		turn := neighs[env.Rand.Intn(len(neighs))]
		v.Itinerary.SetSimple(mapmodel.TurnTraversable(turn, mapmodel.DirectionForward), env.Map)
	}
}

func vehiclePhysics(env *Env, trans *physics.Transform, kin *physics.Kinematics, v *VehicleComponent) {
	direction := trans.Direction()

	speed := kin.Velocity.Magnitude()
	if kin.Velocity.Dot(direction) < 0 {
		speed = -speed
	}

	// Slip guard: sliding sideways faster than walking pace means the pose
	// is unstable; brake it out before running any lane logic.
	if speed > 1.0 {
		dot := kin.Velocity.Scale(1 / speed).Dot(direction)
		if math.Abs(dot) < 0.9 {
			coeff := geom.Restrict(speed, 1.0, 9.0) / 9.0
			kin.Acceleration = kin.Acceleration.Sub(kin.Velocity.Scale(1 / coeff))
			return
		}
	}

	kind := v.Kind
	pos := trans.Position()

	dangerLength := math.Min(speed*speed/(2*kind.Deceleration()), 40.0)
	neighbors := env.Cow.QueryAround(pos, 12.0+dangerLength)

	calcDecision(env, v, speed, trans, neighbors)

	speed += geom.Restrict(
		v.DesiredSpeed-speed,
		-env.Delta*kind.Deceleration(),
		env.Delta*kind.Acceleration(),
	)

	maxAngVel := geom.Restrict(math.Abs(speed)/kind.MinTurningRadius(), 0, 2.0)

	deltaAng := direction.Angle(v.DesiredDir)
	ang := math.Atan2(direction.Y, direction.X)

	v.AngVelocity += env.Delta * kind.AngAcc()
	v.AngVelocity = math.Min(v.AngVelocity, math.Min(3*math.Abs(deltaAng), maxAngVel))

	ang += geom.Restrict(deltaAng, -v.AngVelocity*env.Delta, v.AngVelocity*env.Delta)

	newDir := geom.V(math.Cos(ang), math.Sin(ang))
	trans.SetDirection(newDir)
	kin.Velocity = newDir.Scale(speed)
}

// calcDecision resolves local collision avoidance and traffic rules into a
// desired speed and direction.
func calcDecision(env *Env, v *VehicleComponent, speed float64, trans *physics.Transform, neighbors []physics.QueryHit) {
	if v.WaitTime > 0 {
		v.WaitTime -= env.Delta
		return
	}
	objective, ok := v.Itinerary.GetPoint()
	if !ok {
		return
	}

	// Route-end detection arrives with multi-hop itineraries; until then
	// the terminal branch stays dead.
	isTerminal := false

	position := trans.Position()
	direction := trans.Direction()
	directionNormal := trans.Normal()

	dirToPos, distToPos, ok := objective.Sub(position).DirDist()
	if !ok {
		return
	}

	timeToStop := speed / v.Kind.Deceleration()
	stopDist := timeToStop * speed / 2

	minFrontDist := 50.0

	myRay := geom.Ray{
		From: position.Sub(direction.Scale(v.Kind.Width() / 2)),
		Dir:  direction,
	}

	tr, trOK := v.Itinerary.GetTravers()
	onLane := trOK && tr.IsLane()

	for _, hit := range neighbors {
		if hit.Pos.Distance2(position) < 1e-5 {
			continue
		}
		obj := env.Cow.GetObject(hit.ID)

		towards := hit.Pos.Sub(position)
		dist := towards.Magnitude()
		towardsDir := towards.Scale(1 / dist)

		dirDot := towardsDir.Dot(direction)
		towNorDot := math.Abs(towards.Dot(directionNormal))

		isVehicle := obj.Group == physics.GroupVehicles
		hisDirection := obj.Dir

		// Front cone: someone to follow.
		if (dirDot > 0.7 && (!isVehicle || hisDirection.Dot(direction) > 0.0)) &&
			(!onLane || towNorDot < 4.0) {
			distToObj := dist - v.Kind.Width()/2 - obj.Radius
			if !isVehicle {
				distToObj -= 1.0
			}
			if distToObj < minFrontDist {
				minFrontDist = distToObj
			}
			continue
		}

		if dirDot < 0.0 || !isVehicle {
			continue
		}

		// Crossing paths: whoever reaches the crossing point first wins.
		hisRay := geom.Ray{
			From: hit.Pos.Sub(hisDirection.Scale(obj.Radius / 2)),
			Dir:  hisDirection,
		}

		myDist, hisDist, ok := geom.BothDistToInter(myRay, hisRay)
		if !ok {
			continue
		}
		if myDist-math.Min(speed, 2.5) < hisDist-math.Min(obj.Speed, 2.5) {
			continue
		}
		if d := dist - v.Kind.Width()/2; d < minFrontDist {
			minFrontDist = d
		}
	}

	// Two stopped vehicles yielding to each other would hold forever;
	// a randomized backoff desynchronizes their retries.
	if math.Abs(speed) < 0.2 && minFrontDist < 1.5 {
		v.WaitTime = env.Rand.Float64() * 0.5
		return
	}

	v.DesiredDir = dirToPos
	v.DesiredSpeed = v.Kind.CruisingSpeed()

	if v.Itinerary.RemainingPoints() == 1 && trOK && tr.Kind == mapmodel.TraverseLane {
		if lane, ok := env.Map.Lane(tr.Lane); ok {
			switch lane.Control.Behavior(env.Time) {
			case mapmodel.BehaviorRed, mapmodel.BehaviorOrange:
				if distToPos < ObjectiveOKDist*1.05+stopDist+math.Max(v.Kind.Width()/2-ObjectiveOKDist, 0) {
					v.DesiredSpeed = 0.0
				}
			case mapmodel.BehaviorStop:
				if distToPos < ObjectiveOKDist*0.95+stopDist {
					v.DesiredSpeed = 0.0
				}
			}
		}
	}

	if isTerminal && distToPos < 1.0+stopDist {
		v.DesiredSpeed = 0.0
	}

	// Keep half a meter off whatever is in front.
	if minFrontDist < 0.5+stopDist {
		v.DesiredSpeed = 0.0
	}

	// Not facing the objective: slow down through the turn.
	if dirToPos.Dot(direction) < 0.8 {
		v.DesiredSpeed = math.Min(v.DesiredSpeed, 6.0)
	}
}
