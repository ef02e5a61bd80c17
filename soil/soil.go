// Package soil provides the soil grid that plants read moisture, nutrients,
// temperature and compaction from.
package soil

import (
	"fmt"

	"github.com/pthm-cable/sprout/config"
)

// Sample is the per-cell reading exposed to growth code.
// Out-of-bounds reads return the zero Sample.
type Sample struct {
	Moisture    float64
	Nitrogen    float64
	Phosphorus  float64
	Potassium   float64
	Temperature float64
}

// Sampler is the read-only view of the environment used during a tick.
type Sampler interface {
	Sample(x, y int) Sample
	HorizonResistance(y int) float64
	InBounds(x, y int) bool
}

// Horizon is one soil layer.
type Horizon struct {
	Name       string
	Depth      float64 // fraction of grid rows
	Moisture   float64
	Nitrogen   float64
	Phosphorus float64
	Potassium  float64
	Resistance float64
}

// Type is a soil profile: an ordered list of horizons from the surface down.
type Type struct {
	Name      string
	Retention float64
	Aeration  float64
	Horizons  []Horizon
}

// TypeFromConfig converts a catalog entry.
func TypeFromConfig(c config.SoilTypeConfig) Type {
	t := Type{
		Name:      c.Name,
		Retention: c.Retention,
		Aeration:  c.Aeration,
		Horizons:  make([]Horizon, len(c.Horizons)),
	}
	for i, h := range c.Horizons {
		t.Horizons[i] = Horizon{
			Name:       h.Name,
			Depth:      h.Depth,
			Moisture:   h.Moisture,
			Nitrogen:   h.Nitrogen,
			Phosphorus: h.Phosphorus,
			Potassium:  h.Potassium,
			Resistance: h.Resistance,
		}
	}
	return t
}

// Lookup resolves a (possibly misspelled) soil name against the catalog.
func Lookup(cfg *config.Config, name string) (Type, error) {
	resolved, err := cfg.ResolveSoil(name)
	if err != nil {
		return Type{}, fmt.Errorf("resolving soil type: %w", err)
	}
	c, _ := cfg.SoilType(resolved)
	return TypeFromConfig(c), nil
}

// Params holds grid initialization and weather response parameters.
type Params struct {
	BaseTemperature  float64
	MoistureNoise    float64
	NutrientNoise    float64
	Patchiness       float64
	PatchScale       float64
	DiurnalAmplitude float64
	DepthDecay       float64
	MoistureDecay    float64
	TopFraction      float64
}

// ParamsFromConfig extracts grid parameters from the loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		BaseTemperature:  cfg.Soil.BaseTemperature,
		MoistureNoise:    cfg.Soil.MoistureNoise,
		NutrientNoise:    cfg.Soil.NutrientNoise,
		Patchiness:       cfg.Soil.Patchiness,
		PatchScale:       cfg.Soil.PatchScale,
		DiurnalAmplitude: cfg.Weather.DiurnalAmplitude,
		DepthDecay:       cfg.Weather.DepthDecay,
		MoistureDecay:    cfg.Weather.MoistureDecay,
		TopFraction:      cfg.Weather.TopFraction,
	}
}
