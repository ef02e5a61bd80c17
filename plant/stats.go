package plant

// Stage is a coarse lifecycle bucket derived from shoot height.
type Stage uint8

const (
	StageSeed Stage = iota
	StageVegetative
	StageFlowering
)

func (s Stage) String() string {
	switch s {
	case StageSeed:
		return "seed"
	case StageVegetative:
		return "vegetative"
	case StageFlowering:
		return "flowering"
	}
	return "unknown"
}

// Stage returns the plant's current stage.
func (p *Plant) Stage() Stage {
	switch {
	case p.height < 0.001:
		return StageSeed
	case p.height < p.shoot.FloweringHeight:
		return StageVegetative
	default:
		return StageFlowering
	}
}

// Stats is the host-facing summary of one organism.
type Stats struct {
	Kind            string
	Stage           string
	Status          string
	Health          string
	HealthValue     float64
	Weight          float64
	Height          float64
	RootDepth       float64
	RootTips        int
	Age             float64
	TimeToGerminate float64
	ResourceStatus  string
	DeathReason     string
	Alive           bool
	Leaves          int
	Bloom           float64
	StemWidth       float64
	WaterReserve    float64
}

// healthLabel buckets health relative to its maximum.
func healthLabel(health, maxHealth float64) string {
	ratio := 0.0
	if maxHealth > 0 {
		ratio = health / maxHealth
	}
	switch {
	case ratio > 0.7:
		return "healthy"
	case ratio < 0.3:
		return "dying"
	default:
		return "stable"
	}
}

// Stats summarizes the plant.
func (p *Plant) Stats() Stats {
	cells := len(p.stemSegments) + p.roots.SegmentCount()
	health := healthLabel(p.health, p.healthParams.MaxHealth)
	if !p.alive {
		health = "dead"
	}
	return Stats{
		Kind:            p.Kind().String(),
		Stage:           p.Stage().String(),
		Status:          health,
		Health:          health,
		HealthValue:     p.health,
		Weight:          float64(cells) * 2 / 1000,
		Height:          p.height,
		RootDepth:       p.RootDepth(),
		RootTips:        p.roots.TipCount(),
		Age:             p.age,
		TimeToGerminate: p.timeToGerminate,
		ResourceStatus:  p.stress.String(),
		DeathReason:     p.deathReason,
		Alive:           p.alive,
		Leaves:          len(p.leaves),
		Bloom:           p.bloom,
		StemWidth:       p.stemWidth,
		WaterReserve:    p.waterReserve,
	}
}
