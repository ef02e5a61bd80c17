package garden

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sprout/plant"
	"github.com/pthm-cable/sprout/soil"
)

// Water adds a moisture gradient of the given size centred on (x, row).
func (g *Garden) Water(x, row, size int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.grid.InBounds(x, row) {
		return fmt.Errorf("watering at (%d, %d): %w", x, row, ErrOutOfBounds)
	}
	if size <= 0 {
		return fmt.Errorf("watering size %d: %w", size, ErrInvalidValue)
	}
	g.grid.Water(x, row, size)
	return nil
}

// SetSeason switches the season. Any temperature override is cleared.
func (g *Garden) SetSeason(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sky.SetSeason(name)
}

// SetPH sets the soil pH used by the health model.
func (g *Garden) SetPH(ph float64) error {
	if ph < 0 || ph > 14 {
		return fmt.Errorf("pH %.2f: %w", ph, ErrInvalidValue)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ph = ph
	return nil
}

// SetTemperature overrides the air temperature until the next season change.
func (g *Garden) SetTemperature(t float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sky.SetTemperature(t)
}

// SetTimeScale switches to a named time scale preset.
func (g *Garden) SetTimeScale(preset string) error {
	name, scale, err := g.cfg.ResolvePreset(preset)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrUnknownPreset, preset, err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.timeScale = scale
	slog.Info("time scale changed", "preset", name, "time_scale", scale, "tick", g.tick)
	return nil
}

// SetSoil replaces the soil grid with a fresh grid of the named type.
// Specimens keep growing on the new grid.
func (g *Garden) SetSoil(name string) error {
	t, err := soil.Lookup(g.cfg, name)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.grid = soil.NewGrid(g.cfg.Grid.Cols, g.cfg.Grid.Rows, t, soil.ParamsFromConfig(g.cfg), g.rng)
	return nil
}

// SetRain turns rain on or off. A non-positive intensity keeps the last one.
func (g *Garden) SetRain(on bool, intensity float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sky.SetRain(on, intensity)
}

// SetAutoRain enables or disables the daily rain roll.
func (g *Garden) SetAutoRain(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sky.SetAutoRain(on)
}

// SetTimeOfDay moves the sun. v is on a 0-100 scale.
func (g *Garden) SetTimeOfDay(v float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sky.SetTimeOfDay(v)
}

// EnvironmentInfo is the host-facing weather and soil summary.
type EnvironmentInfo struct {
	Soil          string
	Season        string
	Day           int
	Temperature   float64
	LightHours    float64
	Precipitation float64
	Raining       bool
	MeanMoisture  float64
	PH            float64
	TimeOfDay     float64
	TimeScale     float64
}

// Environment returns the current environment summary.
func (g *Garden) Environment() EnvironmentInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.environment()
}

func (g *Garden) environment() EnvironmentInfo {
	raining, _ := g.sky.Raining()
	season := g.sky.Season()
	return EnvironmentInfo{
		Soil:          g.grid.Type().Name,
		Season:        season.Name,
		Day:           g.sky.Day(),
		Temperature:   g.sky.Temperature(),
		LightHours:    season.LightHours,
		Precipitation: g.sky.Precipitation(),
		Raining:       raining,
		MeanMoisture:  g.grid.MeanMoisture(),
		PH:            g.ph,
		TimeOfDay:     g.sky.TimeOfDay(),
		TimeScale:     g.timeScale,
	}
}

// Stats returns one entry per sowing in entity order. Dead specimens
// report their death until Reset.
func (g *Garden) Stats() []plant.Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]plant.Stats, 0, g.count)
	query := g.specimenFilter.Query()
	for query.Next() {
		_, _, growth := query.Get()
		out = append(out, growth.Organism.Stats())
	}
	return out
}

// Sample returns the soil reading at (x, row).
func (g *Garden) Sample(x, row int) soil.Sample {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grid.Sample(x, row)
}

// Dims returns the soil grid size.
func (g *Garden) Dims() (cols, rows int) {
	return g.cfg.Grid.Cols, g.cfg.Grid.Rows
}
