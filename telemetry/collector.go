package telemetry

import (
	"github.com/pthm-cable/sprout/plant"
	"github.com/pthm-cable/sprout/roots"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	sowings         int
	germinations    int
	sunflowerDeaths int
	cactusDeaths    int
	newSegments     int
	branches        int
	retractions     int
	dormant         int
	depthCapped     int
}

// NewCollector creates a new stats collector.
// windowTicks: how many ticks each stats window lasts
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
	}
}

// RecordSowing records a seed being sown.
func (c *Collector) RecordSowing() {
	c.sowings++
}

// RecordGermination records a seed turning into a plant.
func (c *Collector) RecordGermination() {
	c.germinations++
}

// RecordDeath records a plant death.
func (c *Collector) RecordDeath(kind plant.Kind) {
	if kind == plant.Cactus {
		c.cactusDeaths++
	} else {
		c.sunflowerDeaths++
	}
}

// RecordRoots adds one root system's tick report.
func (c *Collector) RecordRoots(r roots.Report) {
	c.newSegments += r.NewSegments()
	c.branches += r.Count(roots.Branched)
	c.retractions += r.Count(roots.Retracted)
	c.dormant += r.Count(roots.Dormant)
	c.depthCapped += r.Count(roots.DepthCapped)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// GardenSample is the garden state sampled at window end.
type GardenSample struct {
	SimTimeSec float64
	Day        int

	Seeds     int
	Flowering int
	Dead      int

	// Values over living plants
	Healths    []float64
	Heights    []float64
	RootDepths []float64

	SoilMoisture float64
	Temperature  float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample GardenSample) WindowStats {
	health := Summarize(sample.Healths)
	height := Summarize(sample.Heights)
	depth := Summarize(sample.RootDepths)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      sample.SimTimeSec,
		Day:             sample.Day,

		Seeds:     sample.Seeds,
		Growing:   len(sample.Healths),
		Flowering: sample.Flowering,
		Dead:      sample.Dead,

		Sowings:         c.sowings,
		Germinations:    c.germinations,
		SunflowerDeaths: c.sunflowerDeaths,
		CactusDeaths:    c.cactusDeaths,

		NewSegments:  c.newSegments,
		Branches:     c.branches,
		Retractions:  c.retractions,
		DormantTicks: c.dormant,
		DepthCapped:  c.depthCapped,

		HealthMean: health.Mean,
		HealthP10:  health.P10,
		HealthP50:  health.P50,
		HealthP90:  health.P90,

		HeightMean: height.Mean,
		HeightStd:  height.Std,
		HeightP10:  height.P10,
		HeightP50:  height.P50,
		HeightP90:  height.P90,

		RootDepthMean: depth.Mean,

		SoilMoisture: sample.SoilMoisture,
		Temperature:  sample.Temperature,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.sowings = 0
	c.germinations = 0
	c.sunflowerDeaths = 0
	c.cactusDeaths = 0
	c.newSegments = 0
	c.branches = 0
	c.retractions = 0
	c.dormant = 0
	c.depthCapped = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
