package roots

import (
	"math/rand/v2"

	"github.com/pthm-cable/sprout/soil"
)

// Bounds limits a root system to a shallow, wide footprint around its origin.
type Bounds struct {
	MaxDepth  int // rows below origin
	MaxSpread int // columns either side of origin
}

// DepthLimit returns the deepest row a bounded tip may reach.
func (b *Bounds) DepthLimit(origin Point) int {
	return origin.Y + b.MaxDepth
}

// Violated reports whether p lies outside the bounds.
func (b *Bounds) Violated(origin, p Point) bool {
	dx := p.X - origin.X
	if dx < 0 {
		dx = -dx
	}
	return p.Y > b.DepthLimit(origin) || dx > b.MaxSpread
}

// System is the set of tips grown by one plant.
type System struct {
	origin Point
	tips   []*Tip
	params Params
	bounds *Bounds
	rng    *rand.Rand
}

// NewSystem creates a root system with a single tap tip at origin.
// A non-nil bounds makes every tip of the system bounded.
func NewSystem(origin Point, p Params, rng *rand.Rand, bounds *Bounds) *System {
	if p.BranchEvery <= 0 {
		p.BranchEvery = 1
	}
	s := &System{
		origin: origin,
		params: p,
		bounds: bounds,
		rng:    rng,
	}
	s.tips = append(s.tips, newTip(origin, Down, bounds != nil))
	return s
}

// Report counts the outcomes of one Grow call.
type Report struct {
	counts [numOutcomes]int
}

// Count returns how many tips produced o.
func (r Report) Count(o Outcome) int {
	if o >= numOutcomes {
		return 0
	}
	return r.counts[o]
}

// NewSegments returns the number of segments kept this call.
func (r Report) NewSegments() int {
	return r.counts[Grew] + r.counts[Branched]
}

// Grow advances every tip once. Tips spawned during the call start growing next call.
func (s *System) Grow(env soil.Sampler, clk Clock) Report {
	var r Report
	n := len(s.tips)
	for i := 0; i < n; i++ {
		r.counts[s.tips[i].Grow(env, s, clk)]++
	}
	return r
}

// Origin returns the cell the system grows from.
func (s *System) Origin() Point {
	return s.origin
}

// Tips returns the tips in creation order. The slice must not be modified.
func (s *System) Tips() []*Tip {
	return s.tips
}

// TipCount returns the number of tips.
func (s *System) TipCount() int {
	return len(s.tips)
}

// Bounds returns the system's bounds, or nil when unbounded.
func (s *System) Bounds() *Bounds {
	return s.bounds
}

// SegmentCount returns the total number of segments over all tips.
func (s *System) SegmentCount() int {
	n := 0
	for _, t := range s.tips {
		n += t.Len()
	}
	return n
}

// Depth returns how many rows below the origin the deepest segment lies.
func (s *System) Depth() int {
	deepest := 0
	for _, t := range s.tips {
		for _, seg := range t.segments {
			if d := seg.Pos.Y - s.origin.Y; d > deepest {
				deepest = d
			}
		}
	}
	return deepest
}

// Heads returns the head cell of every tip, in tip order.
func (s *System) Heads() []Point {
	heads := make([]Point, len(s.tips))
	for i, t := range s.tips {
		heads[i] = t.Head()
	}
	return heads
}

// MeanNutrients averages nutrient availability over the tip heads.
func (s *System) MeanNutrients(env soil.Sampler) float64 {
	heads := s.Heads()
	if len(heads) == 0 {
		return 0
	}
	var sum float64
	for _, h := range heads {
		sum += NutrientAvailability(env.Sample(h.X, h.Y), s.params.NutrientSaturation)
	}
	return sum / float64(len(heads))
}
