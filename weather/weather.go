// Package weather tracks the season, the sun clock and rainfall.
package weather

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/sprout/config"
)

// Season describes the climate of one season.
type Season struct {
	Name        string
	DayLength   float64 // simulated seconds per day
	Temperature float64
	Humidity    float64
	LightHours  float64
	RainChance  float64
	Sunlight    float64 // sunlight factor applied to shoots above the soil
}

// SeasonFromConfig converts a season table entry.
func SeasonFromConfig(c config.SeasonConfig) Season {
	return Season{
		Name:        c.Name,
		DayLength:   c.DayLength,
		Temperature: c.Temperature,
		Humidity:    c.Humidity,
		LightHours:  c.LightHours,
		RainChance:  c.RainChance,
		Sunlight:    c.Sunlight,
	}
}

// Sky holds the current season, the sun angle and the rain state.
type Sky struct {
	cfg *config.Config

	season   Season
	angle    float64
	day      int
	override *float64

	raining       bool
	intensity     float64
	autoRain      bool
	autoIntensity float64
}

// NewSky starts at sunrise of the named season.
func NewSky(cfg *config.Config, season string) (*Sky, error) {
	s := &Sky{
		cfg:           cfg,
		autoRain:      cfg.Weather.AutoRain,
		autoIntensity: cfg.Weather.RainIntensity,
	}
	if err := s.SetSeason(season); err != nil {
		return nil, err
	}
	return s, nil
}

// SetSeason switches season, resets the sun and clears any temperature override.
func (s *Sky) SetSeason(name string) error {
	resolved, err := s.cfg.ResolveSeason(name)
	if err != nil {
		return fmt.Errorf("resolving season: %w", err)
	}
	c, _ := s.cfg.Season(resolved)
	s.season = SeasonFromConfig(c)
	s.angle = 0
	s.override = nil
	return nil
}

// Season returns the current season.
func (s *Sky) Season() Season {
	return s.season
}

// DayLength returns the current season's day length.
func (s *Sky) DayLength() float64 {
	return s.season.DayLength
}

// SunAngle returns the sun angle in [0, 2*pi).
func (s *Sky) SunAngle() float64 {
	return s.angle
}

// Day returns the number of completed days.
func (s *Sky) Day() int {
	return s.day
}

// TimeOfDay returns the position in the day on a 0-100 scale.
func (s *Sky) TimeOfDay() float64 {
	return s.angle / (2 * math.Pi) * 100
}

// SetTimeOfDay moves the sun. v is on a 0-100 scale.
func (s *Sky) SetTimeOfDay(v float64) {
	a := math.Mod(v/100*2*math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	s.angle = a
}

// Advance moves the sun by one tick and reports whether a new day began.
func (s *Sky) Advance(timeScale float64) bool {
	s.angle += (2 * math.Pi / s.season.DayLength) * (timeScale / 2)
	wrapped := false
	for s.angle >= 2*math.Pi {
		s.angle -= 2 * math.Pi
		s.day++
		wrapped = true
	}
	return wrapped
}

// Temperature returns the air temperature: the override if set, else the season's.
func (s *Sky) Temperature() float64 {
	if s.override != nil {
		return *s.override
	}
	return s.season.Temperature
}

// SetTemperature overrides the season temperature until the next season change.
func (s *Sky) SetTemperature(t float64) {
	s.override = &t
}

// SetRain turns rain on or off at the given intensity.
func (s *Sky) SetRain(on bool, intensity float64) {
	s.raining = on
	if intensity > 0 {
		s.intensity = intensity
	}
}

// SetAutoRain enables or disables the daily rain roll.
func (s *Sky) SetAutoRain(on bool) {
	s.autoRain = on
}

// Raining reports the rain state and intensity.
func (s *Sky) Raining() (bool, float64) {
	return s.raining, s.intensity
}

// RollRain decides whether it rains for the coming day.
// It does nothing when automatic rain is disabled.
func (s *Sky) RollRain(rng *rand.Rand) {
	if !s.autoRain {
		return
	}
	if rng.Float64() < s.season.RainChance {
		s.raining = true
		s.intensity = s.autoIntensity
	} else {
		s.raining = false
	}
}

// Precipitation returns the rainfall in mm/h.
func (s *Sky) Precipitation() float64 {
	if !s.raining {
		return 0
	}
	return s.intensity * 0.5
}
