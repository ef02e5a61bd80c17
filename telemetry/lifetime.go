package telemetry

// LifetimeStats tracks per-specimen statistics over its lifetime.
type LifetimeStats struct {
	ID        uint32 `csv:"id" json:"id"`
	Kind      string `csv:"kind" json:"kind"`
	SeedSize  string `csv:"seed_size" json:"seed_size"`
	X         int    `csv:"x" json:"x"`
	Row       int    `csv:"row" json:"row"`
	SownTick  int32  `csv:"sown_tick" json:"sown_tick"`
	GermTick  int32  `csv:"germination_tick" json:"germination_tick"` // -1 until germination
	DeathTick int32  `csv:"death_tick" json:"death_tick"`             // -1 while alive

	PeakHeight   float64 `csv:"peak_height" json:"peak_height"`
	MaxRootDepth float64 `csv:"max_root_depth" json:"max_root_depth"`
	StressTicks  int     `csv:"stress_ticks" json:"stress_ticks"` // ticks with any stress label
	Branches     int     `csv:"branches" json:"branches"`
	DeathReason  string  `csv:"death_reason" json:"death_reason"`
}

// LifetimeTracker manages per-specimen lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a newly sown specimen.
func (lt *LifetimeTracker) Register(id uint32, sownTick int32, kind, seedSize string, x, row int) {
	lt.stats[id] = &LifetimeStats{
		ID:        id,
		Kind:      kind,
		SeedSize:  seedSize,
		X:         x,
		Row:       row,
		SownTick:  sownTick,
		GermTick:  -1,
		DeathTick: -1,
	}
}

// Get returns the lifetime stats for a specimen, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a specimen's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordGermination stores the germination tick.
func (lt *LifetimeTracker) RecordGermination(id uint32, tick int32) {
	if s := lt.stats[id]; s != nil && s.GermTick < 0 {
		s.GermTick = tick
	}
}

// RecordGrowth tracks peak height and root depth.
func (lt *LifetimeTracker) RecordGrowth(id uint32, height, rootDepth float64, stressed bool, branches int) {
	s := lt.stats[id]
	if s == nil {
		return
	}
	s.PeakHeight = max(s.PeakHeight, height)
	s.MaxRootDepth = max(s.MaxRootDepth, rootDepth)
	if stressed {
		s.StressTicks++
	}
	s.Branches += branches
}

// RecordDeath stores the death tick and reason.
func (lt *LifetimeTracker) RecordDeath(id uint32, tick int32, reason string) {
	if s := lt.stats[id]; s != nil && s.DeathTick < 0 {
		s.DeathTick = tick
		s.DeathReason = reason
	}
}

// All returns all tracked stats (for snapshots).
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked specimens.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
