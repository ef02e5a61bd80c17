// Package garden hosts sown specimens on a shared soil grid under one sky
// and advances them tick by tick.
package garden

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sprout/components"
	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/plant"
	"github.com/pthm-cable/sprout/soil"
	"github.com/pthm-cable/sprout/telemetry"
	"github.com/pthm-cable/sprout/weather"
)

var (
	ErrOutOfBounds   = errors.New("position outside the soil grid")
	ErrGardenFull    = errors.New("garden is full")
	ErrUnknownPreset = errors.New("unknown time scale preset")
	ErrUnknownKind   = errors.New("unknown plant kind")
	ErrInvalidValue  = errors.New("invalid value")
)

// Options configures a garden.
type Options struct {
	Seed        uint64
	Soil        string // empty = config default
	Season      string // empty = config default
	Scenario    string // recorded in the run index
	LogStats    bool
	OutputDir   string
	SnapshotDir string

	// StatsCallback, if set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Garden holds the complete simulation state. All exported methods are
// safe for concurrent use; each one runs to completion before the next.
type Garden struct {
	mu  sync.Mutex
	cfg *config.Config

	world          *ecs.World
	specimenMapper *ecs.Map3[components.Position, components.Specimen, components.Growth]
	specimenFilter *ecs.Filter3[components.Position, components.Specimen, components.Growth]

	grid *soil.Grid
	sky  *weather.Sky
	rng  *rand.Rand

	rngSeed   uint64
	scenario  string
	timeScale float64
	ph        float64

	// State
	tick    int32
	simTime float64 // simulated seconds
	nextID  uint32
	count   int
	pending []death

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	lifetimeTracker  *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	eventLog         *telemetry.EventLog
	runIndex         *telemetry.RunIndex
	runID            int64
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)
	maxTickDuration  time.Duration
}

// death is a specimen death waiting to be recorded in the cleanup phase.
type death struct {
	id     uint32
	kind   plant.Kind
	reason string
}

// New creates a garden with an empty soil grid of the configured size.
func New(cfg *config.Config, opts Options) (*Garden, error) {
	soilName := opts.Soil
	if soilName == "" {
		soilName = cfg.Soil.Default
	}
	seasonName := opts.Season
	if seasonName == "" {
		seasonName = cfg.Weather.DefaultSeason
	}

	soilType, err := soil.Lookup(cfg, soilName)
	if err != nil {
		return nil, err
	}
	sky, err := weather.NewSky(cfg, seasonName)
	if err != nil {
		return nil, err
	}

	budget := time.Duration(cfg.Garden.MaxTickMS * float64(time.Millisecond))
	g := &Garden{
		cfg:       cfg,
		sky:       sky,
		rng:       rand.New(rand.NewPCG(opts.Seed, 0)),
		rngSeed:   opts.Seed,
		scenario:  opts.Scenario,
		timeScale: cfg.Time.TimeScale,
		ph:        cfg.Soil.PH,
		nextID:    1,

		collector:        telemetry.NewCollector(cfg.Telemetry.WindowTicks),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow, budget),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory, cfg.Bookmarks),
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		statsCallback:    opts.StatsCallback,
		maxTickDuration:  budget,
	}
	g.initWorld()
	g.grid = soil.NewGrid(cfg.Grid.Cols, cfg.Grid.Rows, soilType, soil.ParamsFromConfig(cfg), g.rng)

	if err := g.openOutputs(opts.OutputDir); err != nil {
		g.closeOutputs()
		return nil, err
	}
	return g, nil
}

// initWorld creates an empty ECS world with its mappers and filters.
func (g *Garden) initWorld() {
	world := ecs.NewWorld()
	g.world = world
	g.specimenMapper = ecs.NewMap3[components.Position, components.Specimen, components.Growth](world)
	g.specimenFilter = ecs.NewFilter3[components.Position, components.Specimen, components.Growth](world)
	g.count = 0
	g.pending = g.pending[:0]
}

// openOutputs sets up CSV output, the event log and the run index.
func (g *Garden) openOutputs(dir string) error {
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(g.cfg); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}

	if g.cfg.Telemetry.EventLog {
		if g.eventLog, err = telemetry.NewEventLog(dir); err != nil {
			return err
		}
	}
	if g.cfg.Telemetry.RunIndex {
		if g.runIndex, err = telemetry.OpenRunIndex(dir); err != nil {
			return err
		}
		g.runID, err = g.runIndex.StartRun(telemetry.RunInfo{
			Seed:     g.rngSeed,
			Soil:     g.grid.Type().Name,
			Season:   g.sky.Season().Name,
			Scenario: g.scenario,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Garden) closeOutputs() error {
	var firstErr error
	if err := g.runIndex.FinishRun(g.runID, g.tick); err != nil {
		firstErr = err
	}
	for _, c := range []interface{ Close() error }{g.eventLog, g.runIndex, g.outputManager} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	g.eventLog, g.runIndex, g.outputManager = nil, nil, nil
	return firstErr
}

// Close flushes and closes all outputs.
func (g *Garden) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closeOutputs()
}

// Ticks returns the number of completed ticks.
func (g *Garden) Ticks() int32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tick
}

// Seed returns the RNG seed the garden was created with.
func (g *Garden) Seed() uint64 {
	return g.rngSeed
}

// Config returns the configuration the garden runs with.
func (g *Garden) Config() *config.Config {
	return g.cfg
}
