package plant

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/roots"
	"github.com/pthm-cable/sprout/soil"
)

// Context carries the per-tick inputs shared by every organism.
type Context struct {
	Env         soil.Sampler
	Sunlight    float64 // season light factor
	Temperature float64 // ambient air, °C
	PH          float64
	DayLength   float64
	TimeScale   float64
}

func (c Context) clock() roots.Clock {
	return roots.Clock{DayLength: c.DayLength, TimeScale: c.TimeScale}
}

// days converts one tick to days.
func (c Context) days() float64 {
	if c.DayLength <= 0 {
		return 0
	}
	return c.TimeScale / c.DayLength
}

// TickResult reports what changed during one tick.
type TickResult struct {
	Germinated  bool
	Roots       roots.Report
	ShootGrew   bool
	Died        bool
	DeathReason string
}

// ShootParams configures shoot growth and biomass allocation.
type ShootParams struct {
	ShootDelay          float64
	LeafSpacing         float64
	BloomStartHeight    float64
	BulbMax             float64
	BloomMax            float64
	FloweringHeight     float64
	OptimalTemperature  float64
	TemperatureSigma    float64
	LimitationThreshold float64
}

// ShootParamsFromConfig extracts shoot parameters from the loaded config.
func ShootParamsFromConfig(cfg *config.Config) ShootParams {
	s := cfg.Shoot
	return ShootParams{
		ShootDelay:          s.ShootDelay,
		LeafSpacing:         s.LeafSpacing,
		BloomStartHeight:    s.BloomStartHeight,
		BulbMax:             s.BulbMax,
		BloomMax:            s.BloomMax,
		FloweringHeight:     s.FloweringHeight,
		OptimalTemperature:  s.OptimalTemperature,
		TemperatureSigma:    s.TemperatureSigma,
		LimitationThreshold: s.LimitationThreshold,
	}
}

// Leaf is one adult leaf pair.
type Leaf struct {
	Growth       float64
	SproutHeight float64
}

// Plant is a germinated organism with a shoot and a root system.
type Plant struct {
	policy       GrowthPolicy
	shoot        ShootParams
	healthParams HealthParams
	origin       roots.Point
	cellSize     float64
	soilOffset   float64 // shoot height at which the stem breaks the surface

	age             float64 // days since germination
	timeToGerminate float64
	height          float64
	stemAbove       float64
	stemSegments    []float64
	stemWidth       float64
	cotyledon       float64
	cotyledonSprout float64
	sprouted        bool
	leaves          []Leaf
	bulb            float64
	bloom           float64
	waterReserve    float64

	health      float64
	alive       bool
	deathReason string
	stress      Stress

	roots *roots.System
}

// NewPlant creates a plant of kind whose seed sits at origin.
func NewPlant(kind Kind, origin roots.Point, cfg *config.Config, rng *rand.Rand, env soil.Sampler) *Plant {
	policy := PolicyFor(kind, cfg)
	hp := HealthParamsFromConfig(cfg)
	return &Plant{
		policy:       policy,
		shoot:        ShootParamsFromConfig(cfg),
		healthParams: hp,
		origin:       origin,
		cellSize:     cfg.Grid.CellSize,
		soilOffset:   float64(origin.Y) * cfg.Grid.CellSize,
		stemSegments: []float64{0},
		stemWidth:    1,
		health:       hp.MaxHealth,
		alive:        true,
		roots:        roots.NewSystem(origin, roots.ParamsFromConfig(cfg), rng, policy.RootBounds(origin, env)),
	}
}

// Tick advances the plant by one tick: roots always grow, the shoot only
// once the plant is older than the shoot delay.
func (p *Plant) Tick(ctx Context) TickResult {
	var r TickResult
	if !p.alive {
		return r
	}
	p.age += ctx.days()
	r.Roots = p.roots.Grow(ctx.Env, ctx.clock())

	if p.age >= p.shoot.ShootDelay {
		r.ShootGrew = p.growShoot(ctx)
		if !p.alive {
			r.Died = true
			r.DeathReason = p.deathReason
		}
	}
	return r
}

// Increment is the shoot elongation for one tick. Below the surface there is
// no light term and soil resistance slows the shoot.
func Increment(base, sunlight, moisture, nutrient, temperature, resistance float64, aboveSoil bool) float64 {
	if aboveSoil {
		return base * sunlight * moisture * nutrient * temperature
	}
	if resistance <= 0 {
		resistance = 1
	}
	return base * moisture * nutrient * temperature / resistance
}

// shootRow is the grid row the shoot tip is passing through.
func (p *Plant) shootRow() int {
	row := p.origin.Y - int(math.Floor(p.height/p.cellSize))
	return max(row, 0)
}

// growShoot runs one shoot step and reports whether the plant survived it.
func (p *Plant) growShoot(ctx Context) bool {
	base := ctx.clock().PerTick(p.policy.DailyGrowth(p.height))
	above := p.height > p.soilOffset

	sunlight := 1.0
	if above {
		sunlight = ctx.Sunlight
	}
	resistance := ctx.Env.HorizonResistance(p.shootRow())
	moisture := ctx.Env.Sample(p.origin.X, p.origin.Y).Moisture
	nutrient := p.roots.MeanNutrients(ctx.Env)
	tf := roots.TemperatureSuitability(ctx.Temperature, p.shoot.OptimalTemperature, p.shoot.TemperatureSigma)

	inc := Increment(base, sunlight, moisture, nutrient, tf, resistance, above)

	var limits Stress
	thr := p.shoot.LimitationThreshold
	if sunlight < thr {
		limits = limits.Add(LowSunlight)
	}
	if moisture < thr {
		limits = limits.Add(LowWater)
	}
	if nutrient < thr {
		limits = limits.Add(LowNutrients)
	}

	p.updateHealth(limits, sunlight, nutrient, moisture, ctx.Temperature, ctx.PH)
	if !p.alive {
		return false
	}

	if p.height < p.policy.MaxHeight() {
		p.height += inc
		p.stemSegments = append(p.stemSegments, p.height)
	}
	if p.height > p.soilOffset {
		p.stemAbove = p.height - p.soilOffset
	}
	p.allocate(inc)
	p.stemWidth = p.policy.StemWidth(p)
	return true
}

// allocate distributes growth in phenological order:
// cotyledons, then leaves, then the flower bud, then the bloom.
func (p *Plant) allocate(inc float64) {
	cotMax := p.policy.CotyledonMax()

	if p.stemAbove > 0 && p.cotyledon < cotMax {
		p.cotyledon += inc
		if !p.sprouted {
			p.cotyledonSprout = p.height
			p.sprouted = true
		}
	}

	if p.cotyledon >= cotMax {
		if len(p.leaves) == 0 || p.height-p.leaves[len(p.leaves)-1].SproutHeight >= p.shoot.LeafSpacing {
			p.leaves = append(p.leaves, Leaf{SproutHeight: p.height})
		}
		for i := range p.leaves {
			if p.leaves[i].Growth < cotMax {
				p.leaves[i].Growth += inc
			}
		}
	}

	if p.stemAbove >= p.shoot.BloomStartHeight && p.hasCompleteLeaf() {
		if p.bulb < p.shoot.BulbMax {
			p.bulb += inc
		} else if p.bloom < p.shoot.BloomMax {
			p.bloom += inc
		}
	}
}

func (p *Plant) hasCompleteLeaf() bool {
	cotMax := p.policy.CotyledonMax()
	for _, l := range p.leaves {
		if l.Growth >= cotMax {
			return true
		}
	}
	return false
}

// Kind returns the plant variety.
func (p *Plant) Kind() Kind { return p.policy.Kind() }

// Alive reports whether the plant is still growing.
func (p *Plant) Alive() bool { return p.alive }

// DeathReason returns why the plant died, or "" while alive.
func (p *Plant) DeathReason() string { return p.deathReason }

// Health returns the current health value.
func (p *Plant) Health() float64 { return p.health }

// Height returns the shoot height.
func (p *Plant) Height() float64 { return p.height }

// StemAboveSoil returns how far the stem reaches above the surface.
func (p *Plant) StemAboveSoil() float64 { return p.stemAbove }

// Stress returns the stress set from the latest health evaluation.
func (p *Plant) Stress() Stress { return p.stress }

// Roots returns the plant's root system.
func (p *Plant) Roots() *roots.System { return p.roots }

// Leaves returns the adult leaves. The slice must not be modified.
func (p *Plant) Leaves() []Leaf { return p.leaves }

// Flower returns bud and bloom growth.
func (p *Plant) Flower() (bulb, bloom float64) { return p.bulb, p.bloom }

// WaterReserve returns banked water (cactus only).
func (p *Plant) WaterReserve() float64 { return p.waterReserve }

// RootDepth returns the depth of the deepest root in shoot height units.
func (p *Plant) RootDepth() float64 {
	return float64(p.roots.Depth()) * p.cellSize
}
