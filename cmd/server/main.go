package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"gridtown.sim/internal/mapload"
	"gridtown.sim/internal/persistence/replaylog"
	"gridtown.sim/internal/persistence/runindex"
	"gridtown.sim/internal/sim/mapmodel"
	"gridtown.sim/internal/sim/tuning"
	"gridtown.sim/internal/sim/world"
	"gridtown.sim/internal/transport/observer"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		runID      = flag.String("run", "", "run id (default: derived from seed and start time)")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (empty: built-in defaults)")
		seed       = flag.Int64("seed", 0, "override the tuning seed (0: keep)")
		vehicles   = flag.Int("vehicles", 0, "override the tuning vehicle count (0: keep)")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("component", "server").Logger()

	tune := tuning.Defaults()
	if strings.TrimSpace(*tuningPath) != "" {
		var err error
		tune, err = tuning.Load(*tuningPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("load tuning")
		}
	}
	if *seed != 0 {
		tune.Seed = *seed
	}
	if *vehicles > 0 {
		tune.Vehicles = *vehicles
	}

	id := strings.TrimSpace(*runID)
	if id == "" {
		id = fmt.Sprintf("run-%d-%d", tune.Seed, time.Now().Unix())
	}

	policy, err := tune.Policy()
	if err != nil {
		logger.Fatal().Err(err).Msg("light policy")
	}

	m, err := buildMap(tune, policy)
	if err != nil {
		logger.Fatal().Err(err).Msg("build map")
	}
	logger.Info().
		Str("kind", tune.Map.Kind).
		Int("intersections", len(m.IntersectionIDs())).
		Int("lanes", len(m.LaneIDs())).
		Msg("map ready")

	w, err := world.New(world.Config{
		ID:          id,
		TickRateHz:  tune.TickRateHz,
		Workers:     tune.Workers,
		Seed:        tune.Seed,
		BusFraction: tune.BusFraction,
	}, m)
	if err != nil {
		logger.Fatal().Err(err).Msg("create world")
	}
	spawned := w.SpawnVehicles(tune.Vehicles)
	logger.Info().Int("vehicles", spawned).Int64("seed", tune.Seed).Msg("world ready")

	var sinks []world.TickLogger
	if tune.Replay.Enabled {
		rw, err := replaylog.NewWriter(tune.Replay.Path)
		if err != nil {
			logger.Fatal().Err(err).Str("path", tune.Replay.Path).Msg("open replay log")
		}
		defer rw.Close()
		sinks = append(sinks, rw)
		logger.Info().Str("path", tune.Replay.Path).Msg("replay log enabled")
	}
	if tune.Index.Enabled {
		idx, err := runindex.Open(tune.Index.Path, runindex.RunMeta{
			RunID:       id,
			Seed:        tune.Seed,
			MapKind:     tune.Map.Kind,
			LightPolicy: tune.LightPolicy,
			TickRateHz:  tune.TickRateHz,
			Vehicles:    spawned,
		}, uint64(tune.Index.DigestEveryTicks))
		if err != nil {
			logger.Fatal().Err(err).Str("path", tune.Index.Path).Msg("open run index")
		}
		defer idx.Close()
		sinks = append(sinks, idx)
		logger.Info().Str("path", tune.Index.Path).Msg("run index enabled")
	}
	if len(sinks) > 0 {
		w.SetTickLogger(teeLogger(sinks))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if tune.Observer.Enabled {
		obs := observer.NewServer(w, logger.With().Str("component", "observer").Logger())
		mux := http.NewServeMux()
		mux.HandleFunc("/observer/v1/bootstrap", obs.BootstrapHandler())
		mux.HandleFunc("/observer/v1/ws", obs.WSHandler())

		srv := &http.Server{Addr: *addr, Handler: mux}
		go func() {
			logger.Info().Str("addr", *addr).Msg("observer listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("http server")
				cancel()
			}
		}()
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 3*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info().Str("run", id).Int("tick_rate_hz", tune.TickRateHz).Msg("simulation running")
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("run loop")
	}
	logger.Info().Uint64("ticks", w.CurrentTick()).Msg("simulation stopped")
}

func buildMap(tune tuning.Tuning, policy mapmodel.LightPolicy) (*mapmodel.Map, error) {
	switch tune.Map.Kind {
	case "geojson":
		return mapload.LoadGeoJSON(tune.Map.Path, policy)
	default:
		return mapload.Grid(tune.Map.Rows, tune.Map.Cols, tune.Map.Spacing, policy)
	}
}

// teeLogger fans a tick entry out to every sink.
type teeLogger []world.TickLogger

func (t teeLogger) WriteTick(e world.TickLogEntry) error {
	var first error
	for _, s := range t {
		if err := s.WriteTick(e); err != nil && first == nil {
			first = err
		}
	}
	return first
}
