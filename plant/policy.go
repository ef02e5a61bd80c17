package plant

import (
	"fmt"
	"math"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/roots"
	"github.com/pthm-cable/sprout/soil"
)

// Kind identifies a plant variety.
type Kind uint8

const (
	Sunflower Kind = iota
	Cactus
)

var kindNames = []string{"sunflower", "cactus"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind resolves a possibly misspelled variety name.
func ParseKind(name string) (Kind, error) {
	n, err := config.ResolveName(name, kindNames)
	if err != nil {
		return 0, fmt.Errorf("resolving plant kind: %w", err)
	}
	for i, k := range kindNames {
		if k == n {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown plant kind %q", name)
}

// HorizonLocator is implemented by environments that can report where a
// named soil horizon starts.
type HorizonLocator interface {
	HorizonStart(name string) (int, bool)
}

// GrowthPolicy holds the behavior that differs between varieties.
type GrowthPolicy interface {
	Kind() Kind
	// DailyGrowth is the shoot growth per day at the given height.
	DailyGrowth(height float64) float64
	StemWidth(p *Plant) float64
	// PreprocessMoisture adjusts the moisture factor before the health model sees it.
	PreprocessMoisture(p *Plant, m float64) float64
	// RootBounds returns the limits for the root system, or nil for unbounded roots.
	RootBounds(origin roots.Point, env soil.Sampler) *roots.Bounds
	MaxHeight() float64
	CotyledonMax() float64
}

// PolicyFor returns the growth policy for kind.
func PolicyFor(kind Kind, cfg *config.Config) GrowthPolicy {
	if kind == Cactus {
		return &cactusPolicy{cfg: cfg.Cactus}
	}
	return &genericPolicy{cfg: cfg.Shoot}
}

// genericPolicy grows slowly while establishing, fast through the
// vegetative stage and slowly again once flowering.
type genericPolicy struct {
	cfg config.ShootConfig
}

func (g *genericPolicy) Kind() Kind { return Sunflower }

func (g *genericPolicy) DailyGrowth(height float64) float64 {
	switch {
	case height < g.cfg.SwitchHeight:
		return g.cfg.SlowGrowth
	case height < g.cfg.BloomStartHeight:
		return g.cfg.FastGrowth
	default:
		return g.cfg.SlowGrowth
	}
}

// StemWidth thickens the stem with its height above the soil.
func (g *genericPolicy) StemWidth(p *Plant) float64 {
	if p.stemAbove <= 0 {
		return 1
	}
	return 0.5 + math.Floor(p.stemAbove/20)
}

func (g *genericPolicy) PreprocessMoisture(_ *Plant, m float64) float64 { return m }

func (g *genericPolicy) RootBounds(roots.Point, soil.Sampler) *roots.Bounds { return nil }

func (g *genericPolicy) MaxHeight() float64 { return g.cfg.MaxHeight }

func (g *genericPolicy) CotyledonMax() float64 { return g.cfg.CotyledonMax }

// cactusPolicy grows at a flat slow rate, banks surplus water and keeps its
// roots wide and shallow.
type cactusPolicy struct {
	cfg config.CactusConfig
}

func (c *cactusPolicy) Kind() Kind { return Cactus }

func (c *cactusPolicy) DailyGrowth(float64) float64 { return c.cfg.DailyGrowth }

// StemWidth thickens the stem once the cotyledons are complete.
func (c *cactusPolicy) StemWidth(p *Plant) float64 {
	if p.stemAbove <= 0 {
		return 1
	}
	if p.cotyledon >= c.cfg.CotyledonMax {
		return 3 + math.Floor(p.stemAbove/10)
	}
	return 1 + math.Floor(p.stemAbove/20)
}

func (c *cactusPolicy) PreprocessMoisture(p *Plant, m float64) float64 {
	switch {
	case m > 1:
		p.waterReserve += (m - 1) * c.cfg.ReserveGain
		return 1
	case m < c.cfg.DroughtThreshold && p.waterReserve > 0:
		p.waterReserve = math.Max(0, p.waterReserve-1)
		return c.cfg.ReserveBoost
	}
	return m
}

// RootBounds limits depth to the top of the target horizon when the
// environment can locate it.
func (c *cactusPolicy) RootBounds(origin roots.Point, env soil.Sampler) *roots.Bounds {
	depth := c.cfg.MaxDepth
	if loc, ok := env.(HorizonLocator); ok && c.cfg.TargetHorizon != "" {
		if row, ok := loc.HorizonStart(c.cfg.TargetHorizon); ok && row > origin.Y {
			depth = row - origin.Y
		}
	}
	return &roots.Bounds{MaxDepth: depth, MaxSpread: c.cfg.MaxSpread}
}

func (c *cactusPolicy) MaxHeight() float64 { return c.cfg.MaxHeight }

func (c *cactusPolicy) CotyledonMax() float64 { return c.cfg.CotyledonMax }
