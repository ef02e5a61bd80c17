package roots

import (
	"math"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/soil"
)

// Weights scale each tropism in the desirability score.
type Weights struct {
	Geo    float64
	Hydro  float64
	Chemo  float64
	Thermo float64
}

// Params configures root growth.
type Params struct {
	DailyGrowth        float64 // segments per day at score 1
	MaxSegments        int
	MaxTips            int
	ExploitProbability float64
	BranchProbability  float64
	BranchEvery        int
	StaticMarkEvery    int
	OptimalTemperature float64
	TemperatureSigma   float64
	NutrientSaturation float64
	Weights            Weights
	Bias               [numExplore]float64 // indexed by Direction
}

// ParamsFromConfig builds root parameters from the loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	rc := cfg.Roots
	p := Params{
		DailyGrowth:        rc.DailyGrowth,
		MaxSegments:        rc.MaxSegments,
		MaxTips:            rc.MaxTips,
		ExploitProbability: rc.ExploitProbability,
		BranchProbability:  rc.BranchProbability,
		BranchEvery:        rc.BranchEvery,
		StaticMarkEvery:    rc.StaticMarkEvery,
		OptimalTemperature: rc.OptimalTemperature,
		TemperatureSigma:   rc.TemperatureSigma,
		NutrientSaturation: rc.NutrientSaturation,
		Weights: Weights{
			Geo:    rc.Weights.Geo,
			Hydro:  rc.Weights.Hydro,
			Chemo:  rc.Weights.Chemo,
			Thermo: rc.Weights.Thermo,
		},
	}
	p.Bias[Left] = rc.Bias.Left
	p.Bias[Right] = rc.Bias.Right
	p.Bias[Down] = rc.Bias.Down
	p.Bias[Up] = rc.Bias.Up
	p.Bias[DownLeft] = rc.Bias.DownLeft
	p.Bias[DownRight] = rc.Bias.DownRight
	return p
}

// Clock carries the time scaling for one tick.
type Clock struct {
	DayLength float64
	TimeScale float64
}

// PerTick converts a daily amount into the amount for one tick.
func (c Clock) PerTick(daily float64) float64 {
	if c.DayLength <= 0 {
		return 0
	}
	return daily / c.DayLength * c.TimeScale
}

// TemperatureSuitability is a gaussian bell centred on the optimum.
func TemperatureSuitability(temp, optimum, sigma float64) float64 {
	if sigma <= 0 {
		if temp == optimum {
			return 1
		}
		return 0
	}
	d := temp - optimum
	return math.Exp(-(d * d) / (2 * sigma * sigma))
}

// NutrientAvailability is the mean of the N, P and K ratios to saturation, each capped at 1.
func NutrientAvailability(s soil.Sample, saturation float64) float64 {
	if saturation <= 0 {
		return 0
	}
	ratio := func(v float64) float64 { return math.Min(v/saturation, 1) }
	return (ratio(s.Nitrogen) + ratio(s.Phosphorus) + ratio(s.Potassium)) / 3
}

// Score is the desirability of growing in direction d into a cell with
// sample s and horizon resistance r.
func (p Params) Score(s soil.Sample, r float64, d Direction) float64 {
	if r <= 0 {
		r = 1
	}
	hydro := p.Weights.Hydro * (s.Moisture / r)
	thermo := p.Weights.Thermo * TemperatureSuitability(s.Temperature, p.OptimalTemperature, p.TemperatureSigma)
	chemo := p.Weights.Chemo * NutrientAvailability(s, p.NutrientSaturation)
	var bias float64
	if int(d) < numExplore {
		bias = p.Bias[d]
	}
	geo := p.Weights.Geo * bias
	return hydro * thermo * chemo * geo
}
