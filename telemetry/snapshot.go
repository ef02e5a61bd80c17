package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/sprout/plant"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a diagnostic dump of the garden at one tick. It is written
// when a bookmark triggers and is not meant for restoring a run.
type Snapshot struct {
	Version int    `json:"version"`
	RNGSeed uint64 `json:"rng_seed"`

	Soil   string `json:"soil"`
	Season string `json:"season"`
	Cols   int    `json:"cols"`
	Rows   int    `json:"rows"`

	Tick int32 `json:"tick"`
	Day  int   `json:"day"`

	Environment EnvironmentState `json:"environment"`
	Specimens   []SpecimenState  `json:"specimens"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// EnvironmentState holds the weather and soil summary.
type EnvironmentState struct {
	Temperature   float64 `json:"temperature"`
	LightHours    float64 `json:"light_hours"`
	Precipitation float64 `json:"precipitation"`
	MeanMoisture  float64 `json:"mean_moisture"`
	PH            float64 `json:"ph"`
	TimeScale     float64 `json:"time_scale"`
	TimeOfDay     float64 `json:"time_of_day"`
}

// SpecimenState holds one specimen's summary and root layout.
type SpecimenState struct {
	ID    uint32      `json:"id"`
	X     int         `json:"x"`
	Row   int         `json:"row"`
	State string      `json:"state"`
	Stats plant.Stats `json:"stats"`

	// Each tip as a list of [x, row] cells from its start to its head.
	RootTips [][][2]int `json:"root_tips,omitempty"`

	Lifetime *LifetimeStats `json:"lifetime,omitempty"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		// Sanitize bookmark type for filename
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
