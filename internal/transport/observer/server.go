// Package observer serves the read-only rendering feed: a bootstrap
// endpoint with the static road geometry and a WS stream of pose frames.
package observer

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"gridtown.sim/internal/geom"
	"gridtown.sim/internal/observerproto"
	"gridtown.sim/internal/sim/mapmodel"
	"gridtown.sim/internal/sim/world"
)

type Server struct {
	world *world.World
	log   zerolog.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
}

func NewServer(w *world.World, logger zerolog.Logger) *Server {
	return &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		resp := buildBootstrap(s.world)
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp)
	}
}

func buildBootstrap(w *world.World) observerproto.BootstrapResponse {
	cfg := w.Config()
	m := w.Map()

	resp := observerproto.BootstrapResponse{
		ProtocolVersion: observerproto.Version,
		WorldID:         cfg.ID,
		Tick:            w.CurrentTick(),
		WorldParams: observerproto.WorldParams{
			TickRateHz:  cfg.TickRateHz,
			Seed:        cfg.Seed,
			BusFraction: cfg.BusFraction,
		},
	}

	for _, id := range m.IntersectionIDs() {
		inter, _ := m.Intersection(id)
		resp.Intersections = append(resp.Intersections, observerproto.IntersectionGeom{
			ID:  int32(id),
			Pos: [2]float64{inter.Pos.X, inter.Pos.Y},
		})
		for _, t := range inter.Turns {
			resp.Turns = append(resp.Turns, observerproto.TurnGeom{
				Intersection: int32(id),
				Src:          int32(t.ID.Src),
				Dst:          int32(t.ID.Dst),
				Kind:         t.Kind.String(),
				Points:       packPoints(t.Points),
			})
		}
	}
	for _, id := range m.LaneIDs() {
		lane, _ := m.Lane(id)
		resp.Lanes = append(resp.Lanes, observerproto.LaneGeom{
			ID:      int32(id),
			Kind:    lane.Kind.String(),
			Points:  packPoints(lane.Points),
			Control: packControl(lane.Control),
		})
	}
	return resp
}

func packPoints(pts geom.PolyLine) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func packControl(c mapmodel.TrafficControl) *observerproto.ControlState {
	switch c.Kind {
	case mapmodel.ControlStopSign:
		return &observerproto.ControlState{Kind: c.Kind.String()}
	case mapmodel.ControlLight:
		return &observerproto.ControlState{
			Kind:   c.Kind.String(),
			Green:  c.Schedule.Green,
			Orange: c.Schedule.Orange,
			Red:    c.Schedule.Red,
			Offset: c.Schedule.Offset,
		}
	default:
		return nil
	}
}

// WSHandler streams pose frames. The client opens with a SUBSCRIBE message
// and then only reads.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sid := s.nextID.Add(1)
		logger := s.log.With().Uint64("observer", sid).Logger()

		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub observerproto.SubscribeMsg
		if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != "SUBSCRIBE" || sub.ProtocolVersion != observerproto.Version {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"),
				time.Now().Add(time.Second))
			return
		}
		every := sub.FrameEveryTicks
		if every < 1 {
			every = 1
		}
		logger.Info().Int("frame_every_ticks", every).Msg("observer subscribed")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Drain the connection so pings and closes are processed.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		cfg := s.world.Config()
		interval := time.Second * time.Duration(every) / time.Duration(cfg.TickRateHz)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var lastTick uint64
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			f, err := s.world.RequestFrame(ctx)
			if err != nil {
				return
			}
			if f.Tick == lastTick {
				continue
			}
			lastTick = f.Tick

			out := observerproto.FrameMsg{
				Type:            "FRAME",
				ProtocolVersion: observerproto.Version,
				Tick:            f.Tick,
				Time:            f.Time,
				Vehicles:        make([]observerproto.VehicleState, len(f.Vehicles)),
			}
			for i, v := range f.Vehicles {
				out.Vehicles[i] = observerproto.VehicleState{
					ID: v.ID, X: v.X, Y: v.Y, Cos: v.Cos, Sin: v.Sin, Speed: v.Speed,
				}
			}

			b, err := json.Marshal(out)
			if err != nil {
				logger.Error().Err(err).Msg("marshal frame")
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				logger.Debug().Err(err).Msg("observer write failed")
				return
			}
		}
	}
}
