package garden

import (
	"context"
	"log/slog"

	"github.com/pthm-cable/sprout/plant"
	"github.com/pthm-cable/sprout/roots"
	"github.com/pthm-cable/sprout/telemetry"
)

// Tick advances the garden by one tick. Every specimen finishes the tick
// before any other call can touch the grid.
func (g *Garden) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	g.perfCollector.StartTick()

	// 1. Sun and rain
	g.perfCollector.StartPhase(telemetry.PhaseWeather)
	if g.sky.Advance(g.timeScale) {
		g.sky.RollRain(g.rng)
	}

	// 2. Soil moisture and temperature
	g.perfCollector.StartPhase(telemetry.PhaseSoil)
	if raining, intensity := g.sky.Raining(); raining {
		g.grid.Rain(intensity)
	}
	g.grid.UpdateTemperature(g.sky.Temperature(), g.sky.SunAngle())

	// 3. Seeds, roots and shoots
	g.perfCollector.StartPhase(telemetry.PhaseRootsShoots)
	g.updateSpecimens()

	// 4. Record deaths
	g.perfCollector.StartPhase(telemetry.PhaseCleanup)
	g.recordDeaths()

	g.tick++
	g.simTime += g.timeScale

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick(g.count)
	g.checkTickBudget()
	return nil
}

// plantContext builds the per-tick inputs shared by every specimen.
func (g *Garden) plantContext() plant.Context {
	return plant.Context{
		Env:         g.grid,
		Sunlight:    g.sky.Season().Sunlight,
		Temperature: g.sky.Temperature(),
		PH:          g.ph,
		DayLength:   g.sky.DayLength(),
		TimeScale:   g.timeScale,
	}
}

// updateSpecimens ticks every living specimen in entity order.
func (g *Garden) updateSpecimens() {
	pctx := g.plantContext()

	query := g.specimenFilter.Query()
	for query.Next() {
		_, spec, growth := query.Get()
		if spec.Dead {
			continue
		}

		org := growth.Organism
		r := org.Tick(pctx)
		kind := spec.Kind.String()

		if r.Germinated {
			g.collector.RecordGermination()
			g.lifetimeTracker.RecordGermination(spec.ID, g.tick)
			g.writeEvent(telemetry.NewGerminateEvent(g.tick, spec.ID, kind, org.Seed().Hydration()))
		}

		g.collector.RecordRoots(r.Roots)
		branches := r.Roots.Count(roots.Branched)
		if branches > 0 {
			g.writeEvent(telemetry.NewBranchEvent(g.tick, spec.ID, kind, branches))
		}

		if p := org.Plant(); p != nil {
			g.lifetimeTracker.RecordGrowth(spec.ID, p.Height(), p.RootDepth(), p.Stress() != 0, branches)
		}

		if r.Died {
			spec.Dead = true
			spec.DeathTick = g.tick
			g.pending = append(g.pending, death{id: spec.ID, kind: spec.Kind, reason: r.DeathReason})
		}
	}
}

// checkTickBudget warns when the last tick ran longer than configured.
func (g *Garden) checkTickBudget() {
	if g.maxTickDuration <= 0 {
		return
	}
	if d := g.perfCollector.LastTickDuration(); d > g.maxTickDuration {
		slog.Warn("tick over budget",
			"tick", g.tick,
			"duration_ms", float64(d.Microseconds())/1000,
			"budget_ms", g.cfg.Garden.MaxTickMS,
			"specimens", g.count,
		)
	}
}

// writeEvent appends to the event log, logging failures.
func (g *Garden) writeEvent(e telemetry.Event) {
	if err := g.eventLog.Write(e); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}
