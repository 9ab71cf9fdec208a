package observerproto

// Version is the observer protocol version.
const Version = "0.1"

// Client -> Server. First message on the observer WS connection.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`

	// FrameEveryTicks thins the stream; 0 or 1 means every tick.
	FrameEveryTicks int `json:"frame_every_ticks,omitempty"`
}

// HTTP response for GET /observer/v1/bootstrap. Carries the static road
// geometry so renderers only need pose frames afterwards.
type BootstrapResponse struct {
	ProtocolVersion string      `json:"protocol_version"`
	WorldID         string      `json:"world_id"`
	Tick            uint64      `json:"tick"`
	WorldParams     WorldParams `json:"world_params"`

	Intersections []IntersectionGeom `json:"intersections"`
	Lanes         []LaneGeom         `json:"lanes"`
	Turns         []TurnGeom         `json:"turns"`
}

type WorldParams struct {
	TickRateHz  int     `json:"tick_rate_hz"`
	Seed        int64   `json:"seed"`
	BusFraction float64 `json:"bus_fraction"`
}

type IntersectionGeom struct {
	ID  int32      `json:"id"`
	Pos [2]float64 `json:"pos"`
}

type LaneGeom struct {
	ID     int32        `json:"id"`
	Kind   string       `json:"kind"`
	Points [][2]float64 `json:"points"`

	Control *ControlState `json:"control,omitempty"`
}

// ControlState describes a lane-end traffic control. Light schedules are
// shipped whole so renderers evaluate phase locally from frame time.
type ControlState struct {
	Kind   string  `json:"kind"`
	Green  float64 `json:"green,omitempty"`
	Orange float64 `json:"orange,omitempty"`
	Red    float64 `json:"red,omitempty"`
	Offset float64 `json:"offset,omitempty"`
}

type TurnGeom struct {
	Intersection int32        `json:"intersection"`
	Src          int32        `json:"src"`
	Dst          int32        `json:"dst"`
	Kind         string       `json:"kind"`
	Points       [][2]float64 `json:"points"`
}

// Server -> Client. One per streamed tick.
type FrameMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	Tick            uint64  `json:"tick"`
	Time            float64 `json:"time"`

	Vehicles []VehicleState `json:"vehicles"`
}

type VehicleState struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Cos   float64 `json:"cos"`
	Sin   float64 `json:"sin"`
	Speed float64 `json:"speed"`
}
