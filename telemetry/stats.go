package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated garden statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Day             int     `csv:"day"`

	// Specimen counts at window end
	Seeds     int `csv:"seeds"`
	Growing   int `csv:"growing"`
	Flowering int `csv:"flowering"`
	Dead      int `csv:"dead"`

	// Events during window
	Sowings         int `csv:"sowings"`
	Germinations    int `csv:"germinations"`
	SunflowerDeaths int `csv:"sunflower_deaths"`
	CactusDeaths    int `csv:"cactus_deaths"`

	// Root growth during window
	NewSegments  int `csv:"new_segments"`
	Branches     int `csv:"branches"`
	Retractions  int `csv:"retractions"`
	DormantTicks int `csv:"dormant_ticks"`
	DepthCapped  int `csv:"depth_capped"`

	// Health distribution over living plants (sampled at window end)
	HealthMean float64 `csv:"health_mean"`
	HealthP10  float64 `csv:"health_p10"`
	HealthP50  float64 `csv:"health_p50"`
	HealthP90  float64 `csv:"health_p90"`

	// Height distribution over living plants
	HeightMean float64 `csv:"height_mean"`
	HeightStd  float64 `csv:"height_std"`
	HeightP10  float64 `csv:"height_p10"`
	HeightP50  float64 `csv:"height_p50"`
	HeightP90  float64 `csv:"height_p90"`

	RootDepthMean float64 `csv:"root_depth_mean"`

	// Environment
	SoilMoisture float64 `csv:"soil_moisture"`
	Temperature  float64 `csv:"temperature"`
}

// Deaths returns the number of deaths in the window.
func (s WindowStats) Deaths() int {
	return s.SunflowerDeaths + s.CactusDeaths
}

// Summary is a distribution summary.
type Summary struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Summarize computes the population mean, standard deviation and percentiles.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// CV returns the coefficient of variation, or 0 when the mean is 0.
func (s Summary) CV() float64 {
	if s.Mean == 0 {
		return 0
	}
	return s.Std / s.Mean
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("day", s.Day),
		slog.Int("seeds", s.Seeds),
		slog.Int("growing", s.Growing),
		slog.Int("flowering", s.Flowering),
		slog.Int("dead", s.Dead),
		slog.Int("sowings", s.Sowings),
		slog.Int("germinations", s.Germinations),
		slog.Int("sunflower_deaths", s.SunflowerDeaths),
		slog.Int("cactus_deaths", s.CactusDeaths),
		slog.Int("new_segments", s.NewSegments),
		slog.Int("branches", s.Branches),
		slog.Int("retractions", s.Retractions),
		slog.Int("dormant_ticks", s.DormantTicks),
		slog.Int("depth_capped", s.DepthCapped),
		slog.Float64("health_mean", s.HealthMean),
		slog.Float64("health_p10", s.HealthP10),
		slog.Float64("health_p50", s.HealthP50),
		slog.Float64("health_p90", s.HealthP90),
		slog.Float64("height_mean", s.HeightMean),
		slog.Float64("height_std", s.HeightStd),
		slog.Float64("height_p10", s.HeightP10),
		slog.Float64("height_p50", s.HeightP50),
		slog.Float64("height_p90", s.HeightP90),
		slog.Float64("root_depth_mean", s.RootDepthMean),
		slog.Float64("soil_moisture", s.SoilMoisture),
		slog.Float64("temperature", s.Temperature),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"day", s.Day,
		"seeds", s.Seeds,
		"growing", s.Growing,
		"flowering", s.Flowering,
		"dead", s.Dead,
		"sowings", s.Sowings,
		"germinations", s.Germinations,
		"deaths", s.Deaths(),
		"new_segments", s.NewSegments,
		"branches", s.Branches,
		"retractions", s.Retractions,
		"health_mean", s.HealthMean,
		"health_p10", s.HealthP10,
		"height_mean", s.HeightMean,
		"height_p90", s.HeightP90,
		"root_depth_mean", s.RootDepthMean,
		"soil_moisture", s.SoilMoisture,
		"temperature", s.Temperature,
	)
}
