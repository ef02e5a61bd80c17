package garden

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sprout/components"
	"github.com/pthm-cable/sprout/plant"
	"github.com/pthm-cable/sprout/soil"
	"github.com/pthm-cable/sprout/telemetry"
)

// Sow plants a seed at (x, row) and returns the specimen id.
func (g *Garden) Sow(x, row int, kind plant.Kind, size plant.SeedSize) (uint32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.grid.InBounds(x, row) {
		return 0, fmt.Errorf("sowing at (%d, %d): %w", x, row, ErrOutOfBounds)
	}
	if kind != plant.Sunflower && kind != plant.Cactus {
		return 0, fmt.Errorf("sowing %d: %w", kind, ErrUnknownKind)
	}
	if size != plant.Small && size != plant.Large {
		return 0, fmt.Errorf("seed size %d: %w", size, ErrInvalidValue)
	}
	if g.count >= g.cfg.Garden.MaxSpecimens {
		return 0, fmt.Errorf("sowing %s: %w (%d specimens)", kind, ErrGardenFull, g.count)
	}

	return g.spawnSpecimen(x, row, kind, size), nil
}

// spawnSpecimen creates the entity for a new sowing.
func (g *Garden) spawnSpecimen(x, row int, kind plant.Kind, size plant.SeedSize) uint32 {
	id := g.nextID
	g.nextID++

	pos := components.Position{X: x, Row: row}
	spec := components.Specimen{ID: id, Kind: kind, Size: size, SownTick: g.tick, DeathTick: -1}
	growth := components.Growth{Organism: plant.NewOrganism(kind, size, pos.Point(), g.cfg, g.rng)}

	g.specimenMapper.NewEntity(&pos, &spec, &growth)
	g.count++

	g.collector.RecordSowing()
	g.lifetimeTracker.Register(id, g.tick, kind.String(), size.String(), x, row)
	g.writeEvent(telemetry.NewSowEvent(g.tick, id, kind.String(), x, row))
	return id
}

// recordDeaths logs and stores the deaths collected during the tick.
// Dead specimens stay in the world until Reset.
func (g *Garden) recordDeaths() {
	for _, d := range g.pending {
		kind := d.kind.String()
		g.collector.RecordDeath(d.kind)
		g.lifetimeTracker.RecordDeath(d.id, g.tick, d.reason)

		slog.Info("specimen died",
			"id", d.id,
			"kind", kind,
			"tick", g.tick,
			"reason", d.reason,
		)

		if ls := g.lifetimeTracker.Get(d.id); ls != nil {
			if err := g.outputManager.WriteDeath(*ls); err != nil {
				slog.Error("failed to write death", "error", err)
			}
		}
		g.writeEvent(telemetry.NewDeathEvent(g.tick, d.id, kind, d.reason))
		if err := g.runIndex.RecordDeath(telemetry.DeathRecord{
			RunID:    g.runID,
			Specimen: d.id,
			Kind:     kind,
			Tick:     g.tick,
			Reason:   d.reason,
		}); err != nil {
			slog.Error("failed to index death", "error", err)
		}
	}
	g.pending = g.pending[:0]
}

// Reset removes every specimen and rebuilds the soil grid with the current
// soil type. The tick counter and telemetry windows keep running.
func (g *Garden) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.initWorld()
	g.lifetimeTracker = telemetry.NewLifetimeTracker()
	g.grid = soil.NewGrid(g.cfg.Grid.Cols, g.cfg.Grid.Rows, g.grid.Type(), soil.ParamsFromConfig(g.cfg), g.rng)
	slog.Info("garden reset", "tick", g.tick)
}
