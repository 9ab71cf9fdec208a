// Command replay inspects a recorded run log: prints a summary and checks
// that ticks are contiguous and every entry carries a digest.
package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"gridtown.sim/internal/persistence/replaylog"
)

func main() {
	var (
		path    = flag.String("log", "", "path to the replay log (.jsonl.zst)")
		poseOf  = flag.Int("vehicle", -1, "print the pose trail of one vehicle id")
		verbose = flag.Bool("v", false, "log every entry")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("component", "replay").Logger()

	if *path == "" {
		logger.Fatal().Msg("-log is required")
	}

	r, err := replaylog.NewReader(*path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *path).Msg("open replay log")
	}
	defer r.Close()

	var (
		entries  uint64
		lastTick uint64
		lastTime float64
		broken   bool
	)
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Fatal().Err(err).Uint64("after_tick", lastTick).Msg("read entry")
		}

		if entries > 0 && e.Tick != lastTick+1 {
			logger.Warn().Uint64("from", lastTick).Uint64("to", e.Tick).Msg("tick gap")
			broken = true
		}
		if e.Digest == "" {
			logger.Warn().Uint64("tick", e.Tick).Msg("missing digest")
			broken = true
		}
		if *verbose {
			logger.Info().Uint64("tick", e.Tick).Float64("time", e.Time).
				Int("vehicles", len(e.Poses)).Str("digest", e.Digest).Msg("entry")
		}
		if *poseOf >= 0 {
			for _, p := range e.Poses {
				if p.ID == *poseOf {
					logger.Info().Uint64("tick", e.Tick).
						Float64("x", p.X).Float64("y", p.Y).Float64("speed", p.Speed).
						Msg("pose")
				}
			}
		}

		entries++
		lastTick = e.Tick
		lastTime = e.Time
	}

	logger.Info().
		Uint64("entries", entries).
		Uint64("last_tick", lastTick).
		Float64("sim_seconds", lastTime).
		Msg("replay log read")
	if broken {
		logger.Fatal().Msg("log failed verification")
	}
}
