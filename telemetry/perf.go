package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one timed step of a garden tick.
type Phase uint8

const (
	PhaseWeather Phase = iota
	PhaseSoil
	PhaseRootsShoots
	PhaseCleanup
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"weather", "soil", "roots_shoots", "cleanup", "telemetry"}

func (ph Phase) String() string {
	if ph < numPhases {
		return phaseNames[ph]
	}
	return "unknown"
}

// tickSample is the timing of one finished tick.
type tickSample struct {
	total     time.Duration
	phases    [numPhases]time.Duration
	specimens int
}

// PerfCollector times tick phases over a rolling window of ticks.
type PerfCollector struct {
	now     func() time.Time
	budget  time.Duration
	samples []tickSample
	next    int
	filled  int

	current    tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool
}

// NewPerfCollector creates a collector over windowSize ticks. Ticks longer
// than budget are counted as over budget; a zero budget disables the count.
func NewPerfCollector(windowSize int, budget time.Duration) *PerfCollector {
	if windowSize < 1 {
		windowSize = 200
	}
	return &PerfCollector{
		now:     time.Now,
		budget:  budget,
		samples: make([]tickSample, windowSize),
	}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = tickSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase < numPhases {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick finishes the tick. specimens is the garden population during the tick.
func (p *PerfCollector) EndTick(specimens int) {
	now := p.now()
	p.closePhase(now)
	p.current.total = now.Sub(p.tickStart)
	p.current.specimens = specimens

	p.samples[p.next] = p.current
	p.next = (p.next + 1) % len(p.samples)
	if p.filled < len(p.samples) {
		p.filled++
	}
}

// LastTickDuration returns the duration of the most recently finished tick.
func (p *PerfCollector) LastTickDuration() time.Duration {
	if p.filled == 0 {
		return 0
	}
	return p.samples[(p.next-1+len(p.samples))%len(p.samples)].total
}

// PerfStats summarizes tick timing over the window.
type PerfStats struct {
	Ticks int

	MeanTick time.Duration
	P50Tick  time.Duration
	P90Tick  time.Duration
	MaxTick  time.Duration

	// PhasePct is each phase's share of total tick time, in percent.
	PhasePct [numPhases]float64

	TicksPerSecond         float64
	SpecimenTicksPerSecond float64
	OverBudget             int
}

// Stats computes statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.filled == 0 {
		return PerfStats{}
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	var specimenTicks int
	stats := PerfStats{Ticks: p.filled}
	micros := make([]float64, p.filled)

	for i, s := range p.samples[:p.filled] {
		total += s.total
		specimenTicks += s.specimens
		micros[i] = float64(s.total) / float64(time.Microsecond)
		for ph, d := range s.phases {
			phaseSum[ph] += d
		}
		stats.MaxTick = max(stats.MaxTick, s.total)
		if p.budget > 0 && s.total > p.budget {
			stats.OverBudget++
		}
	}

	sum := Summarize(micros)
	stats.MeanTick = micro(sum.Mean)
	stats.P50Tick = micro(sum.P50)
	stats.P90Tick = micro(sum.P90)

	if total > 0 {
		for ph, d := range phaseSum {
			stats.PhasePct[ph] = float64(d) / float64(total) * 100
		}
		secs := total.Seconds()
		stats.TicksPerSecond = float64(p.filled) / secs
		stats.SpecimenTicksPerSecond = float64(specimenTicks) / secs
	}
	return stats
}

func micro(us float64) time.Duration {
	return time.Duration(us * float64(time.Microsecond))
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("mean_tick_us", s.MeanTick.Microseconds()),
		slog.Int64("p90_tick_us", s.P90Tick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
		slog.Int("specimen_ticks_per_sec", int(s.SpecimenTicksPerSecond)),
	}
	if s.OverBudget > 0 {
		attrs = append(attrs, slog.Int("over_budget", s.OverBudget))
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd           int32   `csv:"window_end"`
	Ticks               int     `csv:"ticks"`
	MeanTickUS          int64   `csv:"mean_tick_us"`
	P50TickUS           int64   `csv:"p50_tick_us"`
	P90TickUS           int64   `csv:"p90_tick_us"`
	MaxTickUS           int64   `csv:"max_tick_us"`
	TicksPerSec         float64 `csv:"ticks_per_sec"`
	SpecimenTicksPerSec float64 `csv:"specimen_ticks_per_sec"`
	OverBudget          int     `csv:"over_budget"`
	WeatherPct          float64 `csv:"weather_pct"`
	SoilPct             float64 `csv:"soil_pct"`
	RootsShootsPct      float64 `csv:"roots_shoots_pct"`
	CleanupPct          float64 `csv:"cleanup_pct"`
	TelemetryPct        float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:           windowEnd,
		Ticks:               s.Ticks,
		MeanTickUS:          s.MeanTick.Microseconds(),
		P50TickUS:           s.P50Tick.Microseconds(),
		P90TickUS:           s.P90Tick.Microseconds(),
		MaxTickUS:           s.MaxTick.Microseconds(),
		TicksPerSec:         s.TicksPerSecond,
		SpecimenTicksPerSec: s.SpecimenTicksPerSecond,
		OverBudget:          s.OverBudget,
		WeatherPct:          s.PhasePct[PhaseWeather],
		SoilPct:             s.PhasePct[PhaseSoil],
		RootsShootsPct:      s.PhasePct[PhaseRootsShoots],
		CleanupPct:          s.PhasePct[PhaseCleanup],
		TelemetryPct:        s.PhasePct[PhaseTelemetry],
	}
}
