package roots

import "github.com/pthm-cable/sprout/soil"

// Outcome is the result of one growth call on a tip.
type Outcome uint8

const (
	Saturated   Outcome = iota // segment cap reached; nothing changed
	Dormant                    // no eligible direction
	Accumulated                // budget added, no whole segment yet
	Grew                       // one segment appended
	Branched                   // one segment appended and a new tip spawned
	Retracted                  // segment appended out of bounds and removed again
	DepthCapped                // bounded tip already at its depth limit
	numOutcomes
)

var outcomeNames = [...]string{
	Saturated:   "saturated",
	Dormant:     "dormant",
	Accumulated: "accumulated",
	Grew:        "grew",
	Branched:    "branched",
	Retracted:   "retracted",
	DepthCapped: "depth_capped",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Tip is the growing end of one root branch.
type Tip struct {
	Tag Direction

	segments []Segment
	occupied map[Point]struct{}
	acc      Accumulator
	created  int
	marks    []Point
	bounded  bool
}

func newTip(at Point, tag Direction, bounded bool) *Tip {
	t := &Tip{
		Tag:      tag,
		occupied: make(map[Point]struct{}),
		bounded:  bounded,
	}
	t.place(at)
	return t
}

func (t *Tip) place(p Point) {
	t.segments = append(t.segments, Segment{Pos: p})
	t.occupied[p] = struct{}{}
}

// retract removes the newest segment and frees its cell.
func (t *Tip) retract() {
	last := t.segments[len(t.segments)-1]
	t.segments = t.segments[:len(t.segments)-1]
	delete(t.occupied, last.Pos)
}

func (t *Tip) age() {
	for i := range t.segments {
		t.segments[i].Age++
	}
}

// Head returns the position of the newest segment.
func (t *Tip) Head() Point {
	return t.segments[len(t.segments)-1].Pos
}

// Len returns the number of segments.
func (t *Tip) Len() int {
	return len(t.segments)
}

// Segments returns the segments oldest first. The slice must not be modified.
func (t *Tip) Segments() []Segment {
	return t.segments
}

// Occupies reports whether this tip already has a segment at p.
func (t *Tip) Occupies(p Point) bool {
	_, ok := t.occupied[p]
	return ok
}

// Budget returns the ungrown remainder in segments.
func (t *Tip) Budget() float64 {
	return t.acc.Value()
}

// Created returns the number of segments this tip has materialized.
func (t *Tip) Created() int {
	return t.created
}

// Marks returns the lateral mark positions recorded for display.
func (t *Tip) Marks() []Point {
	return t.marks
}

// Bounded reports whether the tip is held to depth and spread limits.
func (t *Tip) Bounded() bool {
	return t.bounded
}

// Grow runs one growth step of t within sys.
func (t *Tip) Grow(env soil.Sampler, sys *System, clk Clock) Outcome {
	if len(t.segments) >= sys.params.MaxSegments {
		return Saturated
	}
	if t.bounded && sys.bounds != nil && t.Head().Y >= sys.bounds.DepthLimit(sys.origin) {
		t.age()
		return DepthCapped
	}

	out := t.step(env, sys, clk)
	t.age()
	return out
}

func (t *Tip) step(env soil.Sampler, sys *System, clk Clock) Outcome {
	p := &sys.params
	head := t.Head()

	var (
		eligible [numExplore]Direction
		scores   [numExplore]float64
		n        int
	)
	for _, d := range Exploration {
		to := head.Add(d)
		if !env.InBounds(to.X, to.Y) || t.Occupies(to) {
			continue
		}
		eligible[n] = d
		scores[n] = p.Score(env.Sample(to.X, to.Y), env.HorizonResistance(to.Y), d)
		n++
	}
	if n == 0 {
		return Dormant
	}

	pick := 0
	if sys.rng.Float64() < p.ExploitProbability {
		for i := 1; i < n; i++ {
			if scores[i] > scores[pick] {
				pick = i
			}
		}
	} else {
		pick = sys.rng.IntN(n)
	}

	t.acc.Add(clk.PerTick(p.DailyGrowth) * scores[pick])
	if !t.acc.Take() {
		return Accumulated
	}

	pos := head.Add(eligible[pick])
	t.place(pos)
	t.created++

	if t.bounded && sys.bounds != nil && sys.bounds.Violated(sys.origin, pos) {
		t.retract()
		t.created--
		t.acc.Refund()
		return Retracted
	}

	if p.StaticMarkEvery > 0 && t.created%p.StaticMarkEvery == 0 {
		t.marks = append(t.marks, pos)
	}

	if t.created%p.BranchEvery == 0 && sys.rng.Float64() < p.BranchProbability && len(sys.tips) < p.MaxTips {
		tag := LeftBranch
		if sys.rng.IntN(2) == 1 {
			tag = RightBranch
		}
		sys.tips = append(sys.tips, newTip(pos, tag, t.bounded))
		return Branched
	}
	return Grew
}
