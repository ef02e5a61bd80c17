// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Time      TimeConfig      `yaml:"time"`
	Roots     RootsConfig     `yaml:"roots"`
	Shoot     ShootConfig     `yaml:"shoot"`
	Health    HealthConfig    `yaml:"health"`
	Seed      SeedConfig      `yaml:"seed"`
	Cactus    CactusConfig    `yaml:"cactus"`
	Soil      SoilConfig      `yaml:"soil"`
	Weather   WeatherConfig   `yaml:"weather"`
	Seasons   []SeasonConfig  `yaml:"seasons"`
	Garden    GardenConfig    `yaml:"garden"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Bookmarks BookmarksConfig `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds soil grid dimensions.
type GridConfig struct {
	Cols     int     `yaml:"cols"`
	Rows     int     `yaml:"rows"`
	CellSize float64 `yaml:"cell_size"` // shoot height units per grid row
}

// TimeConfig holds the simulation clock scaling.
type TimeConfig struct {
	TimeScale float64            `yaml:"time_scale"` // simulated seconds per tick
	Presets   map[string]float64 `yaml:"presets"`
}

// RootsConfig holds root tip growth parameters.
type RootsConfig struct {
	MaxSegments        int            `yaml:"max_segments"`
	MaxTips            int            `yaml:"max_tips"`
	DailyGrowth        float64        `yaml:"daily_growth"` // segments per day at score 1
	ExploitProbability float64        `yaml:"exploit_probability"`
	BranchProbability  float64        `yaml:"branch_probability"`
	BranchEvery        int            `yaml:"branch_every"`      // branch on every Nth materialized segment
	StaticMarkEvery    int            `yaml:"static_mark_every"` // lateral marks on every Nth segment
	OptimalTemperature float64        `yaml:"optimal_temperature"`
	TemperatureSigma   float64        `yaml:"temperature_sigma"`
	NutrientSaturation float64        `yaml:"nutrient_saturation"`
	Weights            TropismWeights `yaml:"weights"`
	Bias               DirectionBias  `yaml:"bias"`
}

// TropismWeights scale each factor of the desirability score.
type TropismWeights struct {
	Geo    float64 `yaml:"geo"`
	Hydro  float64 `yaml:"hydro"`
	Chemo  float64 `yaml:"chemo"`
	Thermo float64 `yaml:"thermo"`
}

// DirectionBias is the geotropic preference per exploration direction.
type DirectionBias struct {
	Left      float64 `yaml:"left"`
	Right     float64 `yaml:"right"`
	Up        float64 `yaml:"up"`
	Down      float64 `yaml:"down"`
	DownLeft  float64 `yaml:"down_left"`
	DownRight float64 `yaml:"down_right"`
}

// ShootConfig holds above-ground growth parameters for the generic plant.
type ShootConfig struct {
	MaxHeight           float64 `yaml:"max_height"`
	ShootDelay          float64 `yaml:"shoot_delay"` // days before the shoot starts
	SowingRow           int     `yaml:"sowing_row"`
	SwitchHeight        float64 `yaml:"switch_height"`
	SlowGrowth          float64 `yaml:"slow_growth"`
	FastGrowth          float64 `yaml:"fast_growth"`
	CotyledonMax        float64 `yaml:"cotyledon_max"`
	LeafSpacing         float64 `yaml:"leaf_spacing"`
	BloomStartHeight    float64 `yaml:"bloom_start_height"`
	BulbMax             float64 `yaml:"bulb_max"`
	BloomMax            float64 `yaml:"bloom_max"`
	FloweringHeight     float64 `yaml:"flowering_height"`
	OptimalTemperature  float64 `yaml:"optimal_temperature"`
	TemperatureSigma    float64 `yaml:"temperature_sigma"`
	LimitationThreshold float64 `yaml:"limitation_threshold"`
}

// HealthConfig holds health model parameters.
// Temperature bands are fixed in the plant package.
type HealthConfig struct {
	MaxHealth       float64 `yaml:"max_health"`
	Recovery        float64 `yaml:"recovery"`
	OptimalPH       float64 `yaml:"optimal_ph"`
	MaxPHDeviation  float64 `yaml:"max_ph_deviation"`
	PHPenalty       float64 `yaml:"ph_penalty"`
	LowMoisture     float64 `yaml:"low_moisture"`
	HighMoisture    float64 `yaml:"high_moisture"`
	MoisturePenalty float64 `yaml:"moisture_penalty"`
}

// SeedConfig holds imbibition parameters.
type SeedConfig struct {
	StartWeight        float64            `yaml:"start_weight"`
	SaturationRatio    float64            `yaml:"saturation_ratio"`
	DT                 float64            `yaml:"dt"`
	UptakeMin          float64            `yaml:"uptake_min"`
	UptakeMax          float64            `yaml:"uptake_max"`
	OptimalMoisture    float64            `yaml:"optimal_moisture"`
	OptimalTemperature float64            `yaml:"optimal_temperature"`
	TemperatureSigma   float64            `yaml:"temperature_sigma"`
	MinTemperature     float64            `yaml:"min_temperature"`
	MaxTemperature     float64            `yaml:"max_temperature"`
	DryWeight          map[string]float64 `yaml:"dry_weight"`
}

// CactusConfig overrides growth for the cactus variant.
type CactusConfig struct {
	DailyGrowth      float64 `yaml:"daily_growth"`
	MaxHeight        float64 `yaml:"max_height"`
	CotyledonMax     float64 `yaml:"cotyledon_max"`
	ReserveGain      float64 `yaml:"reserve_gain"`      // reserve units per unit of surplus moisture
	DroughtThreshold float64 `yaml:"drought_threshold"` // moisture below which the reserve is drawn
	ReserveBoost     float64 `yaml:"reserve_boost"`     // effective moisture while drawing reserve
	MaxSpread        int     `yaml:"max_spread"`        // cells from origin
	MaxDepth         int     `yaml:"max_depth"`         // cells below origin, fallback when the target horizon is missing
	TargetHorizon    string  `yaml:"target_horizon"`
}

// SoilConfig holds soil grid initialization parameters and the soil catalog.
type SoilConfig struct {
	Default         string           `yaml:"default"`
	PH              float64          `yaml:"ph"`
	BaseTemperature float64          `yaml:"base_temperature"`
	MoistureNoise   float64          `yaml:"moisture_noise"`
	NutrientNoise   float64          `yaml:"nutrient_noise"`
	Patchiness      float64          `yaml:"patchiness"`
	PatchScale      float64          `yaml:"patch_scale"`
	Types           []SoilTypeConfig `yaml:"types"`
}

// SoilTypeConfig describes one soil profile.
type SoilTypeConfig struct {
	Name      string          `yaml:"name"`
	Retention float64         `yaml:"retention"`
	Aeration  float64         `yaml:"aeration"`
	Horizons  []HorizonConfig `yaml:"horizons"`
}

// HorizonConfig describes one soil layer. Depth is a fraction of grid rows.
type HorizonConfig struct {
	Name       string  `yaml:"name"`
	Depth      float64 `yaml:"depth"`
	Moisture   float64 `yaml:"moisture"`
	Nitrogen   float64 `yaml:"nitrogen"`
	Phosphorus float64 `yaml:"phosphorus"`
	Potassium  float64 `yaml:"potassium"`
	Resistance float64 `yaml:"resistance"`
}

// WeatherConfig holds sky and diurnal temperature parameters.
type WeatherConfig struct {
	DefaultSeason    string  `yaml:"default_season"`
	DiurnalAmplitude float64 `yaml:"diurnal_amplitude"`
	DepthDecay       float64 `yaml:"depth_decay"`
	MoistureDecay    float64 `yaml:"moisture_decay"`
	AutoRain         bool    `yaml:"auto_rain"`
	RainIntensity    float64 `yaml:"rain_intensity"`
	TopFraction      float64 `yaml:"top_fraction"` // rows receiving full rain
}

// SeasonConfig describes one season.
type SeasonConfig struct {
	Name        string  `yaml:"name"`
	DayLength   float64 `yaml:"day_length"`
	Temperature float64 `yaml:"temperature"`
	Humidity    float64 `yaml:"humidity"`
	LightHours  float64 `yaml:"light_hours"`
	RainChance  float64 `yaml:"rain_chance"`
	Sunlight    float64 `yaml:"sunlight"`
}

// GardenConfig holds host limits.
type GardenConfig struct {
	MaxSpecimens    int     `yaml:"max_specimens"`
	MaxTickMS       float64 `yaml:"max_tick_ms"` // warn when a tick exceeds this (0 = off)
	DefaultKind     string  `yaml:"default_kind"`
	DefaultSeedSize string  `yaml:"default_seed_size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks     int  `yaml:"window_ticks"`
	PerfWindow      int  `yaml:"perf_window"`
	BookmarkHistory int  `yaml:"bookmark_history"`
	EventLog        bool `yaml:"event_log"`
	RunIndex        bool `yaml:"run_index"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	DieOffFraction  float64 `yaml:"die_off_fraction"`
	DroughtMoisture float64 `yaml:"drought_moisture"`
	StableHeightCV  float64 `yaml:"stable_height_cv"`
	StableWindows   int     `yaml:"stable_windows"`
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	SoilIndex   map[string]int
	SeasonIndex map[string]int
	SoilNames   []string
	SeasonNames []string
	PresetNames []string
}

// Global config instance
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before accessing config values.
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
		panic(err)
	}
}

// Cfg returns the global config. Panics if not initialized.
func Cfg() *Config {
	if global == nil {
		panic("config not initialized: call config.Init() first")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Grid.Cols <= 0 || c.Grid.Rows <= 0:
		return fmt.Errorf("grid must have positive size, got %dx%d", c.Grid.Cols, c.Grid.Rows)
	case c.Grid.CellSize <= 0:
		return fmt.Errorf("grid.cell_size must be positive")
	case c.Time.TimeScale <= 0:
		return fmt.Errorf("time.time_scale must be positive")
	case c.Roots.MaxSegments <= 0:
		return fmt.Errorf("roots.max_segments must be positive")
	case c.Roots.MaxTips <= 0:
		return fmt.Errorf("roots.max_tips must be positive")
	case c.Roots.BranchEvery <= 0:
		return fmt.Errorf("roots.branch_every must be positive")
	case c.Health.MaxHealth <= 0:
		return fmt.Errorf("health.max_health must be positive")
	case c.Weather.DepthDecay <= 0:
		return fmt.Errorf("weather.depth_decay must be positive")
	case c.Weather.MoistureDecay <= 0:
		return fmt.Errorf("weather.moisture_decay must be positive")
	case len(c.Seasons) == 0:
		return fmt.Errorf("at least one season is required")
	case len(c.Soil.Types) == 0:
		return fmt.Errorf("at least one soil type is required")
	}
	for _, s := range c.Seasons {
		if s.DayLength <= 0 {
			return fmt.Errorf("season %q: day_length must be positive", s.Name)
		}
	}
	for _, t := range c.Soil.Types {
		for _, h := range t.Horizons {
			if h.Depth < 0 || h.Resistance <= 0 {
				return fmt.Errorf("soil %q horizon %q: depth must be >= 0 and resistance > 0", t.Name, h.Name)
			}
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.SoilIndex = make(map[string]int, len(c.Soil.Types))
	c.Derived.SoilNames = c.Derived.SoilNames[:0]
	for i, t := range c.Soil.Types {
		c.Derived.SoilIndex[t.Name] = i
		c.Derived.SoilNames = append(c.Derived.SoilNames, t.Name)
	}

	c.Derived.SeasonIndex = make(map[string]int, len(c.Seasons))
	c.Derived.SeasonNames = c.Derived.SeasonNames[:0]
	for i, s := range c.Seasons {
		c.Derived.SeasonIndex[s.Name] = i
		c.Derived.SeasonNames = append(c.Derived.SeasonNames, s.Name)
	}

	c.Derived.PresetNames = c.Derived.PresetNames[:0]
	for name := range c.Time.Presets {
		c.Derived.PresetNames = append(c.Derived.PresetNames, name)
	}
	sort.Strings(c.Derived.PresetNames)

	if _, ok := c.Derived.SoilIndex[c.Soil.Default]; !ok {
		c.Soil.Default = c.Soil.Types[0].Name
	}
	if _, ok := c.Derived.SeasonIndex[c.Weather.DefaultSeason]; !ok {
		c.Weather.DefaultSeason = c.Seasons[0].Name
	}
}

// SoilType returns the named soil profile.
func (c *Config) SoilType(name string) (SoilTypeConfig, bool) {
	i, ok := c.Derived.SoilIndex[name]
	if !ok {
		return SoilTypeConfig{}, false
	}
	return c.Soil.Types[i], true
}

// Season returns the named season.
func (c *Config) Season(name string) (SeasonConfig, bool) {
	i, ok := c.Derived.SeasonIndex[name]
	if !ok {
		return SeasonConfig{}, false
	}
	return c.Seasons[i], true
}

// Clone returns a deep copy suitable for per-run mutation.
func (c *Config) Clone() *Config {
	data, err := yaml.Marshal(c)
	if err != nil {
		panic(fmt.Sprintf("marshaling config for clone: %v", err))
	}
	out := &Config{}
	if err := yaml.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("unmarshaling config clone: %v", err))
	}
	out.computeDerived()
	return out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
