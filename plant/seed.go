package plant

import (
	"fmt"
	"math/rand/v2"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/roots"
)

// SeedSize is a dry-weight class.
type SeedSize uint8

const (
	Small SeedSize = iota
	Large
)

var seedSizeNames = []string{"small", "large"}

func (s SeedSize) String() string {
	if int(s) < len(seedSizeNames) {
		return seedSizeNames[s]
	}
	return "unknown"
}

// ParseSeedSize resolves a seed size name.
func ParseSeedSize(name string) (SeedSize, error) {
	n, err := config.ResolveName(name, seedSizeNames)
	if err != nil {
		return 0, fmt.Errorf("resolving seed size: %w", err)
	}
	if n == "large" {
		return Large, nil
	}
	return Small, nil
}

// Seed status labels.
const (
	StatusWillNotGerminate = "Will not germinate"
	StatusTooCold          = "Too Cold"
	StatusTooHot           = "Too Hot"
	StatusLowMoisture      = "Low Moisture"
	StatusHealthy          = "healthy"
)

// Seed absorbs water until its hydration ratio crosses the germination threshold.
type Seed struct {
	size   SeedSize
	params config.SeedConfig

	dryWeight       float64
	uptake          float64
	absorbed        float64
	hydration       float64
	weight          float64
	age             float64
	timeToGerminate float64
	germinated      bool

	temperature    float64
	moistureFactor float64
}

// NewSeed creates a dry seed. The uptake rate is drawn from rng.
func NewSeed(size SeedSize, cfg *config.Config, rng *rand.Rand) *Seed {
	sc := cfg.Seed
	dry, ok := sc.DryWeight[size.String()]
	if !ok || dry <= 0 {
		dry = 1
	}
	uptake := sc.UptakeMin + rng.Float64()*(sc.UptakeMax-sc.UptakeMin)
	return &Seed{
		size:      size,
		params:    sc,
		dryWeight: dry,
		uptake:    uptake * dry,
		weight:    sc.StartWeight,
	}
}

// Imbibe absorbs water for one tick. It returns true on the tick the seed germinates.
func (s *Seed) Imbibe(moisture, temperature, dayLength, timeScale float64) bool {
	if s.germinated {
		return false
	}
	if dayLength > 0 {
		s.age += timeScale / dayLength
		s.timeToGerminate += timeScale / dayLength
	}
	s.temperature = temperature
	s.moistureFactor = min(max(moisture/s.params.OptimalMoisture, 0), 1)

	if s.suspended() {
		return false
	}

	tf := roots.TemperatureSuitability(temperature, s.params.OptimalTemperature, s.params.TemperatureSigma)
	s.absorbed += s.uptake * s.params.DT * s.moistureFactor * tf
	s.hydration = s.absorbed / s.dryWeight
	s.weight = s.params.StartWeight + s.absorbed

	if s.hydration >= s.params.SaturationRatio {
		s.germinated = true
		return true
	}
	return false
}

// suspended reports whether the temperature is outside the germination window.
func (s *Seed) suspended() bool {
	return s.temperature < s.params.MinTemperature || s.temperature > s.params.MaxTemperature
}

// Status describes what is holding the seed back, if anything.
func (s *Seed) Status() string {
	switch {
	case s.suspended():
		return StatusWillNotGerminate
	case s.temperature < mildCold:
		return StatusTooCold
	case s.temperature > mildHeat:
		return StatusTooHot
	case s.moistureFactor < 0.2:
		return StatusLowMoisture
	}
	return StatusHealthy
}

// Size returns the seed's size class.
func (s *Seed) Size() SeedSize { return s.size }

// Hydration returns absorbed water relative to dry weight.
func (s *Seed) Hydration() float64 { return s.hydration }

// Germinated reports whether the seed has crossed its saturation ratio.
func (s *Seed) Germinated() bool { return s.germinated }

// Weight returns the current seed weight.
func (s *Seed) Weight() float64 { return s.weight }

// Imbibing reports whether the seed has absorbed any water.
func (s *Seed) Imbibing() bool { return s.absorbed > 0 }
