// Package scenario loads scripted garden runs from YAML or JSON files.
//
// A scenario names the starting soil, season and seed, and lists events
// (sowing, watering, weather changes) to apply at given ticks. Files are
// validated against an embedded JSON schema before any name is resolved.
package scenario

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/plant"
)

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("scenario.schema.json", schemaJSON)

// Action is what an event does to the garden.
type Action string

const (
	ActionSow         Action = "sow"
	ActionWater       Action = "water"
	ActionRain        Action = "rain"
	ActionSeason      Action = "season"
	ActionPH          Action = "ph"
	ActionTemperature Action = "temperature"
	ActionTimeScale   Action = "time_scale"
	ActionTimeOfDay   Action = "time_of_day"
	ActionSoil        Action = "soil"
)

// Event is one scripted change. Which fields are used depends on Action.
type Event struct {
	Tick     int32   `json:"tick"`
	Action   Action  `json:"action"`
	X        int     `json:"x,omitempty"`
	Row      int     `json:"row,omitempty"`
	Size     int     `json:"size,omitempty"`
	Kind     string  `json:"kind,omitempty"`
	SeedSize string  `json:"seed_size,omitempty"`
	Value    float64 `json:"value,omitempty"`
	Name     string  `json:"name,omitempty"`
	On       bool    `json:"on,omitempty"`

	// Resolved at load time.
	kind plant.Kind
	size plant.SeedSize
}

// Scenario is a validated scenario document with every name resolved.
type Scenario struct {
	Name      string  `json:"name"`
	Soil      string  `json:"soil,omitempty"`
	Season    string  `json:"season,omitempty"`
	Seed      uint64  `json:"seed,omitempty"`
	Ticks     int32   `json:"ticks,omitempty"`
	TimeScale string  `json:"time_scale,omitempty"`
	PH        float64 `json:"ph,omitempty"`
	Events    []Event `json:"events"`
}

// Load reads a scenario file. The format follows the file extension:
// .yaml and .yml are YAML, anything else is JSON.
func Load(path string, cfg *config.Config) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
		}
	}

	sc, err := Parse(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse validates a JSON scenario document and resolves its names.
func Parse(data []byte, cfg *config.Config) (*Scenario, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validating: %w", err)
	}

	sc := &Scenario{}
	if err := json.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	if err := sc.resolve(cfg); err != nil {
		return nil, err
	}

	sort.SliceStable(sc.Events, func(i, j int) bool {
		return sc.Events[i].Tick < sc.Events[j].Tick
	})
	return sc, nil
}

// yamlToJSON re-encodes a YAML document as JSON so both formats share one schema.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return json.Marshal(doc)
}

// resolve replaces fuzzy names with their canonical forms.
func (sc *Scenario) resolve(cfg *config.Config) error {
	var err error
	if sc.Soil != "" {
		if sc.Soil, err = cfg.ResolveSoil(sc.Soil); err != nil {
			return fmt.Errorf("soil: %w", err)
		}
	}
	if sc.Season != "" {
		if sc.Season, err = cfg.ResolveSeason(sc.Season); err != nil {
			return fmt.Errorf("season: %w", err)
		}
	}
	if sc.TimeScale != "" {
		if sc.TimeScale, _, err = cfg.ResolvePreset(sc.TimeScale); err != nil {
			return fmt.Errorf("time_scale: %w", err)
		}
	}

	for i := range sc.Events {
		e := &sc.Events[i]
		if err := e.resolve(cfg); err != nil {
			return fmt.Errorf("event %d (%s at tick %d): %w", i, e.Action, e.Tick, err)
		}
	}
	return nil
}

func (e *Event) resolve(cfg *config.Config) error {
	var err error
	switch e.Action {
	case ActionSow:
		if e.Kind == "" {
			e.Kind = cfg.Garden.DefaultKind
		}
		if e.SeedSize == "" {
			e.SeedSize = cfg.Garden.DefaultSeedSize
		}
		if e.kind, err = plant.ParseKind(e.Kind); err != nil {
			return err
		}
		if e.size, err = plant.ParseSeedSize(e.SeedSize); err != nil {
			return err
		}
		e.Kind, e.SeedSize = e.kind.String(), e.size.String()
	case ActionSeason:
		e.Name, err = cfg.ResolveSeason(e.Name)
	case ActionSoil:
		e.Name, err = cfg.ResolveSoil(e.Name)
	case ActionTimeScale:
		e.Name, _, err = cfg.ResolvePreset(e.Name)
	}
	return err
}
