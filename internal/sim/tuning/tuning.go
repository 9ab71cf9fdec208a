package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gridtown.sim/internal/sim/mapmodel"
)

type Tuning struct {
	TickRateHz  int     `yaml:"tick_rate_hz"`
	Workers     int     `yaml:"workers"`
	Seed        int64   `yaml:"seed"`
	Vehicles    int     `yaml:"vehicles"`
	BusFraction float64 `yaml:"bus_fraction"`

	// LightPolicy is one of "smart", "no_lights", "stop_signs", "lights".
	LightPolicy string `yaml:"light_policy"`

	Map      MapConfig      `yaml:"map"`
	Observer ObserverConfig `yaml:"observer"`
	Replay   ReplayConfig   `yaml:"replay"`
	Index    IndexConfig    `yaml:"index"`
}

type MapConfig struct {
	// Kind selects the generator: "grid" builds Rows x Cols intersections
	// Spacing apart; "geojson" loads road geometry from Path.
	Kind    string  `yaml:"kind"`
	Path    string  `yaml:"path"`
	Rows    int     `yaml:"rows"`
	Cols    int     `yaml:"cols"`
	Spacing float64 `yaml:"spacing"`
}

type ObserverConfig struct {
	Enabled         bool `yaml:"enabled"`
	FrameEveryTicks int  `yaml:"frame_every_ticks"`
}

type ReplayConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type IndexConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Path             string `yaml:"path"`
	DigestEveryTicks int    `yaml:"digest_every_ticks"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:  20,
		Workers:     1,
		Seed:        1,
		Vehicles:    100,
		BusFraction: 0.1,
		LightPolicy: "smart",
		Map: MapConfig{
			Kind:    "grid",
			Rows:    4,
			Cols:    4,
			Spacing: 220,
		},
		Observer: ObserverConfig{Enabled: true, FrameEveryTicks: 1},
		Index:    IndexConfig{DigestEveryTicks: 100},
	}
}

// Load reads a tuning file over the defaults, so a file only needs the keys
// it changes.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, t.Validate()
}

func (t Tuning) Validate() error {
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be positive, got %d", t.TickRateHz)
	}
	if t.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", t.Workers)
	}
	if t.BusFraction < 0 || t.BusFraction > 1 {
		return fmt.Errorf("bus_fraction must be in [0,1], got %g", t.BusFraction)
	}
	if _, err := t.Policy(); err != nil {
		return err
	}
	switch t.Map.Kind {
	case "grid":
		if t.Map.Rows < 1 || t.Map.Cols < 1 {
			return fmt.Errorf("grid map needs rows and cols of at least 1")
		}
		if t.Map.Spacing <= 0 {
			return fmt.Errorf("grid map spacing must be positive, got %g", t.Map.Spacing)
		}
	case "geojson":
		if t.Map.Path == "" {
			return fmt.Errorf("geojson map needs a path")
		}
	default:
		return fmt.Errorf("unknown map kind %q", t.Map.Kind)
	}
	return nil
}

// Policy maps the config string to a light policy.
func (t Tuning) Policy() (mapmodel.LightPolicy, error) {
	switch t.LightPolicy {
	case "smart", "":
		return mapmodel.PolicySmart, nil
	case "no_lights":
		return mapmodel.PolicyNoLights, nil
	case "stop_signs":
		return mapmodel.PolicyStopSigns, nil
	case "lights":
		return mapmodel.PolicyLights, nil
	default:
		return mapmodel.PolicySmart, fmt.Errorf("unknown light_policy %q", t.LightPolicy)
	}
}
