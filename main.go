package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/garden"
	"github.com/pthm-cable/sprout/plant"
	"github.com/pthm-cable/sprout/scenario"
)

var _ scenario.Garden = (*garden.Garden)(nil)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scenarioPath := flag.String("scenario", "", "Scenario file (.yaml, .yml or .json)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, event log, run index and config snapshot")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = scenario seed or time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = scenario length or unlimited)")
	soilName := flag.String("soil", "", "Soil type (empty = scenario or config default)")
	seasonName := flag.String("season", "", "Season (empty = scenario or config default)")
	kindName := flag.String("kind", "", "Plant kind for default sowings (empty = config default)")
	sowings := flag.Int("sowings", 3, "Seeds to sow when no scenario is given")
	dumpEvery := flag.Int("dump-every", 0, "Print the garden state every N ticks (0 = only at the end)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *statsWindow > 0 {
		cfg.Telemetry.WindowTicks = *statsWindow
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	garden.SetLogWriter(os.Stderr)

	var sc *scenario.Scenario
	if *scenarioPath != "" {
		var err error
		if sc, err = scenario.Load(*scenarioPath, cfg); err != nil {
			slog.Error("failed to load scenario", "error", err)
			os.Exit(1)
		}
	}

	opts := garden.Options{
		Seed:        *seed,
		Soil:        *soilName,
		Season:      *seasonName,
		LogStats:    *logStats,
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
	}
	ticks := int32(*maxTicks)
	if sc != nil {
		opts.Scenario = sc.Name
		if opts.Seed == 0 {
			opts.Seed = sc.Seed
		}
		if opts.Soil == "" {
			opts.Soil = sc.Soil
		}
		if opts.Season == "" {
			opts.Season = sc.Season
		}
		if ticks == 0 {
			ticks = sc.Ticks
		}
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}

	g, err := garden.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create garden", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("failed to close outputs", "error", err)
		}
	}()

	var runner *scenario.Runner
	if sc != nil {
		if err := sc.Setup(g); err != nil {
			slog.Error("failed to apply scenario setup", "error", err)
			return
		}
		runner = scenario.NewRunner(sc)
	} else if err := sowDefaults(g, cfg, *kindName, *sowings); err != nil {
		slog.Error("failed to sow", "error", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"soil", g.Environment().Soil,
		"season", g.Environment().Season,
		"scenario", opts.Scenario,
		"max_ticks", ticks,
	)

	for ticks == 0 || g.Ticks() < ticks {
		if runner != nil {
			if err := runner.Apply(g, g.Ticks()); err != nil {
				slog.Warn("scenario event failed", "error", err)
			}
		}
		if err := g.Tick(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Info("interrupted", "tick", g.Ticks())
				break
			}
			slog.Error("tick failed", "error", err)
			break
		}
		if *dumpEvery > 0 && int(g.Ticks())%*dumpEvery == 0 {
			g.LogState()
		}
	}
	if ticks > 0 && g.Ticks() >= ticks {
		slog.Info("max ticks reached", "tick", g.Ticks())
	}

	g.LogState()
}

// sowDefaults spreads n seeds of the chosen kind evenly along the sowing row.
func sowDefaults(g *garden.Garden, cfg *config.Config, kindName string, n int) error {
	if kindName == "" {
		kindName = cfg.Garden.DefaultKind
	}
	kind, err := plant.ParseKind(kindName)
	if err != nil {
		return err
	}
	size, err := plant.ParseSeedSize(cfg.Garden.DefaultSeedSize)
	if err != nil {
		return err
	}

	cols, _ := g.Dims()
	spacing := cols / (n + 1)
	for i := 1; i <= n; i++ {
		if _, err := g.Sow(i*spacing, cfg.Shoot.SowingRow, kind, size); err != nil {
			return err
		}
	}
	return nil
}
