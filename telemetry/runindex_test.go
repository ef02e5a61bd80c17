package telemetry

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestRunIndexRecordsDeaths(t *testing.T) {
	dir := t.TempDir()
	ri, err := OpenRunIndex(dir)
	if err != nil {
		t.Fatalf("OpenRunIndex: %v", err)
	}

	runID, err := ri.StartRun(RunInfo{Seed: 42, Soil: "loam", Season: "spring"})
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	deaths := []DeathRecord{
		{RunID: runID, Specimen: 2, Kind: "cactus", Tick: 700, Reason: "Accumulated stress"},
		{RunID: runID, Specimen: 1, Kind: "sunflower", Tick: 300, Reason: "Extreme heat (>50°C)"},
	}
	for _, d := range deaths {
		if err := ri.RecordDeath(d); err != nil {
			t.Fatalf("RecordDeath: %v", err)
		}
	}
	// Duplicate is ignored.
	if err := ri.RecordDeath(deaths[0]); err != nil {
		t.Fatalf("RecordDeath duplicate: %v", err)
	}
	if err := ri.FinishRun(runID, 1000); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, err := ri.Deaths(runID)
	if err != nil {
		t.Fatalf("Deaths: %v", err)
	}
	if len(got) != 2 || got[0].Specimen != 1 || got[1].Reason != "Accumulated stress" {
		t.Fatalf("Deaths = %+v", got)
	}
	if err := ri.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, RunIndexName))
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var (
		seed  int64
		soil  string
		ticks int64
	)
	row := db.QueryRow(`SELECT seed, soil, ticks FROM runs WHERE id = ?`, runID)
	if err := row.Scan(&seed, &soil, &ticks); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if seed != 42 || soil != "loam" || ticks != 1000 {
		t.Fatalf("row mismatch: seed=%d soil=%q ticks=%d", seed, soil, ticks)
	}
}

func TestRunIndexSecondRunGetsNewID(t *testing.T) {
	dir := t.TempDir()
	ri, err := OpenRunIndex(dir)
	if err != nil {
		t.Fatalf("OpenRunIndex: %v", err)
	}
	defer ri.Close()

	a, _ := ri.StartRun(RunInfo{Seed: 1, Soil: "clay", Season: "winter"})
	b, _ := ri.StartRun(RunInfo{Seed: 2, Soil: "clay", Season: "winter"})
	if a == b || a == 0 {
		t.Errorf("run ids %d, %d", a, b)
	}
}
