package plant

import (
	"math/rand/v2"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/roots"
)

// State is an organism's lifecycle state.
type State uint8

const (
	Unimbibed State = iota
	Imbibing
	Growing
	Dead
)

func (s State) String() string {
	switch s {
	case Unimbibed:
		return "unimbibed"
	case Imbibing:
		return "imbibing"
	case Growing:
		return "growing"
	case Dead:
		return "dead"
	}
	return "unknown"
}

// Organism is a sown seed that becomes a plant once it germinates.
type Organism struct {
	kind   Kind
	origin roots.Point
	seed   *Seed
	plant  *Plant
	cfg    *config.Config
	rng    *rand.Rand
}

// NewOrganism sows a seed of kind at origin.
func NewOrganism(kind Kind, size SeedSize, origin roots.Point, cfg *config.Config, rng *rand.Rand) *Organism {
	return &Organism{
		kind:   kind,
		origin: origin,
		seed:   NewSeed(size, cfg, rng),
		cfg:    cfg,
		rng:    rng,
	}
}

// Tick advances the seed or, after germination, the plant. A plant created
// this tick also grows this tick.
func (o *Organism) Tick(ctx Context) TickResult {
	if o.plant == nil {
		m := ctx.Env.Sample(o.origin.X, o.origin.Y).Moisture
		if !o.seed.Imbibe(m, ctx.Temperature, ctx.DayLength, ctx.TimeScale) {
			return TickResult{}
		}
		o.plant = NewPlant(o.kind, o.origin, o.cfg, o.rng, ctx.Env)
		o.plant.timeToGerminate = o.seed.timeToGerminate
		r := o.plant.Tick(ctx)
		r.Germinated = true
		return r
	}
	return o.plant.Tick(ctx)
}

// State returns the lifecycle state.
func (o *Organism) State() State {
	switch {
	case o.plant != nil && !o.plant.Alive():
		return Dead
	case o.plant != nil:
		return Growing
	case o.seed.Imbibing():
		return Imbibing
	}
	return Unimbibed
}

// Kind returns the variety that was sown.
func (o *Organism) Kind() Kind { return o.kind }

// Origin returns the sowing cell.
func (o *Organism) Origin() roots.Point { return o.origin }

// Seed returns the seed.
func (o *Organism) Seed() *Seed { return o.seed }

// Plant returns the plant, or nil before germination.
func (o *Organism) Plant() *Plant { return o.plant }

// Alive reports whether the organism is a seed or a living plant.
func (o *Organism) Alive() bool {
	return o.plant == nil || o.plant.Alive()
}

// Stats returns seed stats before germination and plant stats after.
func (o *Organism) Stats() Stats {
	if o.plant != nil {
		return o.plant.Stats()
	}
	s := o.seed
	status := s.Status()
	return Stats{
		Kind:            o.kind.String(),
		Stage:           StageSeed.String(),
		Status:          status,
		Health:          StatusHealthy,
		HealthValue:     o.cfg.Health.MaxHealth,
		Weight:          s.weight,
		Age:             s.age,
		TimeToGerminate: s.timeToGerminate,
		ResourceStatus:  status,
		Alive:           true,
		StemWidth:       1,
	}
}
