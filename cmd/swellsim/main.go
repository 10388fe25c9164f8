package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/tidelab/swell/config"
	"github.com/tidelab/swell/sim"
	"github.com/tidelab/swell/telemetry"
	"github.com/tidelab/swell/wave"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	speed := flag.Float64("speed", 1, "Clock acceleration factor (60 = one wave minute per wall second)")
	startAt := flag.String("start-at", "", "Clock origin, RFC 3339 (empty = wave start time)")
	pollSec := flag.Float64("poll", 0, "Fixed poll interval in seconds (0 = adaptive cadence)")
	maxPolls := flag.Int("max-polls", 0, "Stop after this many polls (0 = run to completion)")
	logStats := flag.Bool("log-stats", false, "Log each poll via slog")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			slog.Error("invalid configuration", "problem", p)
		}
		os.Exit(1)
	}

	params, err := cfg.BuildParams()
	if err != nil {
		slog.Error("failed to build wave params", "error", err)
		os.Exit(1)
	}

	origin := params.Start
	if *startAt != "" {
		origin, err = time.Parse(time.RFC3339, *startAt)
		if err != nil {
			slog.Error("invalid -start-at", "error", err)
			os.Exit(1)
		}
	}
	clock := wave.NewScaledClock(origin, *speed)

	calc, err := wave.NewCalculator(cfg.BuildArea(), params, clock)
	if err != nil {
		slog.Error("failed to build calculator", "error", err)
		os.Exit(1)
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if output != nil {
		if err := cfg.WriteYAML(output.Dir() + "/config.yaml"); err != nil {
			slog.Warn("failed to snapshot config", "error", err)
		}
	}

	collector := telemetry.NewCollector(cfg.Telemetry.Window, func(s telemetry.WindowSummary) {
		if err := output.WriteSummary(s); err != nil {
			slog.Warn("summary write failed", "error", err)
		}
	})

	far, near, active, nearWindow := cfg.Sim.Cadence()
	cadence := sim.Cadence{Far: far, Near: near, Active: active, NearWindow: nearWindow}
	if *pollSec > 0 {
		fixed := time.Duration(*pollSec * float64(time.Second))
		cadence = sim.Cadence{Far: fixed, Near: fixed, Active: fixed, NearWindow: nearWindow}
	}
	runner := &sim.Runner{
		Calc:      calc,
		Clock:     clock,
		Cadence:   cadence,
		Collector: collector,
		Output:    output,
		WallScale: clock.Factor(),
		MaxPolls:  *maxPolls,
	}
	if *logStats {
		runner.OnSnapshot = func(s *wave.Snapshot) {
			slog.Info("snapshot",
				"progression", calc.Progression(),
				"traversed", len(s.Traversed),
				"remaining", len(s.Remaining),
				"mode", s.Mode.String(),
			)
		}
	}

	slog.Info("starting wave simulation",
		"event", cfg.Event.ID,
		"speed_factor", clock.Factor(),
		"wave_start", params.Start,
		"total_duration", calc.TotalDuration(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runner.Run(ctx)
}
