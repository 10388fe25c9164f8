// Package config provides configuration loading and validation for the
// wave engine: the event definition (area polygons, wave parameters), the
// poll cadence, and telemetry settings.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tidelab/swell/geo"
	"github.com/tidelab/swell/wave"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration.
type Config struct {
	Event     EventConfig     `yaml:"event"`
	Sim       SimConfig       `yaml:"sim"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// EventConfig describes one wave event.
type EventConfig struct {
	ID   string     `yaml:"id"`
	Name string     `yaml:"name"`
	Area AreaConfig `yaml:"area"`
	Wave WaveConfig `yaml:"wave"`
}

// AreaConfig is the event's geometry. Each polygon is a ring of [lat, lng]
// pairs; the bounding box is derived from the rings unless given.
type AreaConfig struct {
	Polygons [][][2]float64 `yaml:"polygons"`
	BBox     *BBoxConfig    `yaml:"bbox"`
}

// BBoxConfig is an explicit bounding box override.
type BBoxConfig struct {
	South float64 `yaml:"south"`
	West  float64 `yaml:"west"`
	North float64 `yaml:"north"`
	East  float64 `yaml:"east"`
}

// WaveConfig holds the wave parameters. Exactly one of the kind blocks
// (linear, deep, split) must be present.
type WaveConfig struct {
	Speed     float64 `yaml:"speed"`     // meters per second
	Direction string  `yaml:"direction"` // east or west
	Start     string  `yaml:"start"`     // RFC 3339

	Linear *LinearKindConfig `yaml:"linear"`
	Deep   *DeepKindConfig   `yaml:"deep"`
	Split  *SplitKindConfig  `yaml:"split"`

	// Durations are seconds; YAML has no duration scalar.
	RecomposeAfterSec float64 `yaml:"recompose_after_sec"`
	WarmingHorizonSec float64 `yaml:"warming_horizon_sec"`
}

// LinearKindConfig selects a straight constant-speed front.
type LinearKindConfig struct{}

// DeepKindConfig selects a latitude-faithful bowed front.
type DeepKindConfig struct {
	Samples int `yaml:"samples"`
}

// SplitKindConfig selects two fronts propagating out from the center.
type SplitKindConfig struct{}

// SimConfig holds the poll-loop cadence settings, in seconds.
type SimConfig struct {
	FarIntervalSec    float64 `yaml:"far_interval_sec"`    // wave start far away
	NearIntervalSec   float64 `yaml:"near_interval_sec"`   // wave start imminent
	ActiveIntervalSec float64 `yaml:"active_interval_sec"` // wave in progress
	NearWindowSec     float64 `yaml:"near_window_sec"`     // how soon counts as imminent
}

// Cadence converts the cadence settings to durations.
func (s SimConfig) Cadence() (far, near, active, nearWindow time.Duration) {
	return secs(s.FarIntervalSec), secs(s.NearIntervalSec), secs(s.ActiveIntervalSec), secs(s.NearWindowSec)
}

func secs(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// TelemetryConfig holds telemetry output settings.
type TelemetryConfig struct {
	Window int `yaml:"window"` // polls per summary window
}

// Validate collects every configuration problem as a human-readable
// message. The engine refuses to run unless the list is empty.
func (c *Config) Validate() []string {
	var problems []string

	w := c.Event.Wave
	if w.Speed <= 0 {
		problems = append(problems, fmt.Sprintf("wave speed must be positive, got %v", w.Speed))
	}
	if w.Direction != "east" && w.Direction != "west" {
		problems = append(problems, fmt.Sprintf("wave direction must be east or west, got %q", w.Direction))
	}
	if w.Start == "" {
		problems = append(problems, "wave start time is required")
	} else if _, err := time.Parse(time.RFC3339, w.Start); err != nil {
		problems = append(problems, fmt.Sprintf("wave start time is not RFC 3339: %v", err))
	}

	kinds := 0
	if w.Linear != nil {
		kinds++
	}
	if w.Deep != nil {
		kinds++
	}
	if w.Split != nil {
		kinds++
	}
	if kinds != 1 {
		problems = append(problems, fmt.Sprintf("exactly one wave kind (linear, deep, split) must be set, got %d", kinds))
	}

	if len(c.Event.Area.Polygons) == 0 {
		problems = append(problems, "event area has no polygons")
	}
	for i, ring := range c.Event.Area.Polygons {
		if len(ring) < 3 {
			problems = append(problems, fmt.Sprintf("area polygon %d has %d vertices, need at least 3", i, len(ring)))
		}
		for _, pt := range ring {
			if pt[0] < -90 || pt[0] > 90 {
				problems = append(problems, fmt.Sprintf("area polygon %d has latitude %v outside [-90, 90]", i, pt[0]))
				break
			}
		}
	}
	if b := c.Event.Area.BBox; b != nil && b.South > b.North {
		problems = append(problems, fmt.Sprintf("bbox south %v exceeds north %v", b.South, b.North))
	}

	return problems
}

// BuildArea converts the area configuration into engine geometry.
func (c *Config) BuildArea() wave.Area {
	polys := make([]geo.Polygon, 0, len(c.Event.Area.Polygons))
	for _, ring := range c.Event.Area.Polygons {
		pts := make([]geo.Position, len(ring))
		for i, pt := range ring {
			pts[i] = geo.Position{Lat: pt[0], Lng: pt[1]}
		}
		polys = append(polys, geo.NewPolygon(pts))
	}
	area := wave.Area{Polygons: polys}
	if b := c.Event.Area.BBox; b != nil {
		area.BBox = geo.BoundingBox{
			SouthWest: geo.Position{Lat: b.South, Lng: b.West},
			NorthEast: geo.Position{Lat: b.North, Lng: b.East},
		}
	}
	return area
}

// BuildParams converts the wave configuration into calculator parameters.
// Call Validate first; BuildParams assumes a valid configuration.
func (c *Config) BuildParams() (wave.Params, error) {
	w := c.Event.Wave
	start, err := time.Parse(time.RFC3339, w.Start)
	if err != nil {
		return wave.Params{}, fmt.Errorf("parsing wave start: %w", err)
	}
	dir := wave.East
	if w.Direction == "west" {
		dir = wave.West
	}
	params := wave.Params{
		Speed:          w.Speed,
		Direction:      dir,
		Start:          start,
		RecomposeAfter: secs(w.RecomposeAfterSec),
		WarmingHorizon: secs(w.WarmingHorizonSec),
	}
	switch {
	case w.Linear != nil:
		params.Kind.Linear = &wave.LinearKind{}
	case w.Deep != nil:
		params.Kind.Deep = &wave.DeepKind{Samples: w.Deep.Samples}
	case w.Split != nil:
		params.Kind.Split = &wave.SplitKind{}
	}
	return params, nil
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills cadence and telemetry values left unset.
func (c *Config) applyDefaults() {
	if c.Sim.FarIntervalSec == 0 {
		c.Sim.FarIntervalSec = 60
	}
	if c.Sim.NearIntervalSec == 0 {
		c.Sim.NearIntervalSec = 5
	}
	if c.Sim.ActiveIntervalSec == 0 {
		c.Sim.ActiveIntervalSec = 0.5
	}
	if c.Sim.NearWindowSec == 0 {
		c.Sim.NearWindowSec = 3600
	}
	if c.Telemetry.Window == 0 {
		c.Telemetry.Window = 20
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
