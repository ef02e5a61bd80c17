package garden

import (
	"log/slog"

	"github.com/pthm-cable/sprout/plant"
	"github.com/pthm-cable/sprout/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Garden) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	// Flush the stats window
	stats := g.collector.Flush(g.tick, g.sampleGarden())
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	bookmarks := g.bookmarkDetector.Check(stats)
	for _, bm := range bookmarks {
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		g.writeEvent(telemetry.NewBookmarkEvent(bm))

		// Save snapshot on bookmark
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}

	if err := g.eventLog.Flush(); err != nil {
		slog.Error("failed to flush event log", "error", err)
	}
}

// sampleGarden collects specimen counts and distributions at window end.
func (g *Garden) sampleGarden() telemetry.GardenSample {
	env := g.environment()
	sample := telemetry.GardenSample{
		SimTimeSec:   g.simTime,
		Day:          env.Day,
		SoilMoisture: env.MeanMoisture,
		Temperature:  env.Temperature,
	}

	query := g.specimenFilter.Query()
	for query.Next() {
		_, _, growth := query.Get()
		org := growth.Organism

		switch org.State() {
		case plant.Dead:
			sample.Dead++
		case plant.Growing:
			p := org.Plant()
			sample.Healths = append(sample.Healths, p.Health())
			sample.Heights = append(sample.Heights, p.Height())
			sample.RootDepths = append(sample.RootDepths, p.RootDepth())
			if p.Stage() == plant.StageFlowering {
				sample.Flowering++
			}
		default:
			sample.Seeds++
		}
	}
	return sample
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Garden) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.createSnapshot(bookmark)

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a snapshot from the current state.
func (g *Garden) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	env := g.environment()
	snapshot := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		RNGSeed:  g.rngSeed,
		Soil:     env.Soil,
		Season:   env.Season,
		Cols:     g.grid.Cols,
		Rows:     g.grid.Rows,
		Tick:     g.tick,
		Day:      env.Day,
		Bookmark: bookmark,
		Environment: telemetry.EnvironmentState{
			Temperature:   env.Temperature,
			LightHours:    env.LightHours,
			Precipitation: env.Precipitation,
			MeanMoisture:  env.MeanMoisture,
			PH:            env.PH,
			TimeScale:     env.TimeScale,
			TimeOfDay:     env.TimeOfDay,
		},
	}

	// Collect specimen states
	query := g.specimenFilter.Query()
	for query.Next() {
		pos, spec, growth := query.Get()
		org := growth.Organism

		state := telemetry.SpecimenState{
			ID:       spec.ID,
			X:        pos.X,
			Row:      pos.Row,
			State:    org.State().String(),
			Stats:    org.Stats(),
			Lifetime: g.lifetimeTracker.Get(spec.ID),
		}

		if p := org.Plant(); p != nil {
			for _, tip := range p.Roots().Tips() {
				cells := make([][2]int, 0, tip.Len())
				for _, seg := range tip.Segments() {
					cells = append(cells, [2]int{seg.Pos.X, seg.Pos.Y})
				}
				state.RootTips = append(state.RootTips, cells)
			}
		}

		snapshot.Specimens = append(snapshot.Specimens, state)
	}

	return snapshot
}
