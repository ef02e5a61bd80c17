package plant

import "github.com/pthm-cable/sprout/config"

// Death reasons.
const (
	ReasonExtremeHeat       = "Extreme heat (>50°C)"
	ReasonExtremeCold       = "Extreme cold (<-5°C)"
	ReasonAccumulatedStress = "Accumulated stress"
)

// Temperature bands in °C.
const (
	lethalHeat  = 50.0
	severeHeat  = 45.0
	heatStress  = 40.0
	mildHeat    = 30.0
	lethalCold  = -5.0
	severeFrost = -2.0
	frost       = 0.0
	coldStress  = 5.0
	mildCold    = 10.0

	severePenalty   = 15.0
	moderatePenalty = 5.0
	coldPenalty     = 2.0
)

// HealthParams configures the non-temperature parts of the health model.
type HealthParams struct {
	MaxHealth       float64
	Recovery        float64
	OptimalPH       float64
	MaxPHDeviation  float64
	PHPenalty       float64
	LowMoisture     float64
	HighMoisture    float64
	MoisturePenalty float64
}

// HealthParamsFromConfig extracts health parameters from the loaded config.
func HealthParamsFromConfig(cfg *config.Config) HealthParams {
	h := cfg.Health
	return HealthParams{
		MaxHealth:       h.MaxHealth,
		Recovery:        h.Recovery,
		OptimalPH:       h.OptimalPH,
		MaxPHDeviation:  h.MaxPHDeviation,
		PHPenalty:       h.PHPenalty,
		LowMoisture:     h.LowMoisture,
		HighMoisture:    h.HighMoisture,
		MoisturePenalty: h.MoisturePenalty,
	}
}

// Verdict summarizes one health evaluation.
type Verdict struct {
	Stress    Stress
	Penalty   float64
	Recovered bool
	Died      bool
}

// UpdateHealth evaluates the environment against the plant's tolerances.
// The stress set is rebuilt from scratch. Dead plants are not changed.
func (p *Plant) UpdateHealth(sunlight, nutrient, moisture, temperature, ph float64) Verdict {
	return p.updateHealth(0, sunlight, nutrient, moisture, temperature, ph)
}

// updateHealth starts the stress set from limits, which are reported
// alongside the stresses but neither penalize nor block recovery.
func (p *Plant) updateHealth(limits Stress, _, _, moisture, temperature, ph float64) Verdict {
	if !p.alive {
		return Verdict{Stress: p.stress}
	}
	hp := &p.healthParams
	moisture = p.policy.PreprocessMoisture(p, moisture)

	v := Verdict{Stress: limits}

	switch {
	case temperature >= lethalHeat:
		return p.kill(v, ReasonExtremeHeat)
	case temperature >= severeHeat:
		v.Stress = v.Stress.Add(SevereHeat)
		v.Penalty += severePenalty
	case temperature > heatStress:
		v.Stress = v.Stress.Add(Heat)
		v.Penalty += moderatePenalty
	case temperature > mildHeat:
		v.Stress = v.Stress.Add(MildHeat)
	}

	switch {
	case temperature <= lethalCold:
		return p.kill(v, ReasonExtremeCold)
	case temperature <= severeFrost:
		v.Stress = v.Stress.Add(SevereFrost)
		v.Penalty += severePenalty
	case temperature <= frost:
		v.Stress = v.Stress.Add(Frost)
		v.Penalty += moderatePenalty
	case temperature < coldStress:
		v.Stress = v.Stress.Add(Cold)
		v.Penalty += coldPenalty
	case temperature < mildCold:
		v.Stress = v.Stress.Add(MildCold)
	}

	switch {
	case moisture < hp.LowMoisture:
		v.Stress = v.Stress.Add(LowMoisture)
		v.Penalty += hp.MoisturePenalty
	case moisture > hp.HighMoisture:
		v.Stress = v.Stress.Add(Waterlogging)
		v.Penalty += hp.MoisturePenalty
	}

	switch {
	case ph < hp.OptimalPH-hp.MaxPHDeviation:
		v.Stress = v.Stress.Add(Acidic)
		v.Penalty += hp.PHPenalty
	case ph > hp.OptimalPH+hp.MaxPHDeviation:
		v.Stress = v.Stress.Add(Alkaline)
		v.Penalty += hp.PHPenalty
	}

	p.health -= v.Penalty
	if v.Stress.Remove(Limitations) == 0 {
		p.health += hp.Recovery
		v.Recovered = true
	}
	p.health = min(max(p.health, 0), hp.MaxHealth)
	p.stress = v.Stress

	if p.health <= 0 {
		return p.kill(v, ReasonAccumulatedStress)
	}
	return v
}

func (p *Plant) kill(v Verdict, reason string) Verdict {
	p.stress = v.Stress
	p.Die(reason)
	v.Died = true
	return v
}

// Die marks the plant dead. Only the first reason is kept.
func (p *Plant) Die(reason string) {
	if !p.alive {
		return
	}
	p.alive = false
	p.deathReason = reason
}
