package roots

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/sprout/soil"
)

// uniformEnv is a rectangular grid where every cell reads the same.
type uniformEnv struct {
	cols, rows int
	sample     soil.Sample
	resistance float64
}

func (e uniformEnv) InBounds(x, y int) bool {
	return x >= 0 && x < e.cols && y >= 0 && y < e.rows
}

func (e uniformEnv) Sample(x, y int) soil.Sample {
	if !e.InBounds(x, y) {
		return soil.Sample{}
	}
	return e.sample
}

func (e uniformEnv) HorizonResistance(int) float64 {
	return e.resistance
}

// unitParams scores every direction as exactly the cell moisture.
func unitParams() Params {
	p := Params{
		DailyGrowth:        1,
		MaxSegments:        1000,
		MaxTips:            10,
		ExploitProbability: 1,
		BranchProbability:  0,
		BranchEvery:        2,
		StaticMarkEvery:    5,
		OptimalTemperature: 20,
		TemperatureSigma:   10,
		NutrientSaturation: 50,
		Weights:            Weights{Geo: 1, Hydro: 1, Chemo: 1, Thermo: 1},
	}
	for i := range p.Bias {
		p.Bias[i] = 1
	}
	return p
}

func envWithMoisture(m float64) uniformEnv {
	return uniformEnv{
		cols:       200,
		rows:       200,
		resistance: 1,
		sample: soil.Sample{
			Moisture:    m,
			Nitrogen:    50,
			Phosphorus:  50,
			Potassium:   50,
			Temperature: 20,
		},
	}
}

var unitClock = Clock{DayLength: 1, TimeScale: 1}

func newRNG() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestAccumulatorFloor(t *testing.T) {
	tests := []struct {
		num, den int
	}{
		{1, 10},
		{3, 10},
		{7, 10},
		{1, 4},
		{1, 3},
		{2, 3},
		{1, 7},
		{5, 9},
	}
	for _, tt := range tests {
		s := float64(tt.num) / float64(tt.den)
		var a Accumulator
		taken := 0
		for n := 1; n <= 3000; n++ {
			a.Add(s)
			if a.Take() {
				taken++
			}
			if want := n * tt.num / tt.den; taken != want {
				t.Fatalf("S=%d/%d N=%d: taken %d, want %d", tt.num, tt.den, n, taken, want)
			}
		}
	}
}

func TestAccumulatorIgnoresNonPositive(t *testing.T) {
	var a Accumulator
	a.Add(-1)
	a.Add(0)
	a.Add(math.NaN())
	if a.Value() != 0 {
		t.Errorf("Value = %v, want 0", a.Value())
	}
}

func TestScore(t *testing.T) {
	p := unitParams()
	env := envWithMoisture(0.3)
	got := p.Score(env.sample, 1, Down)
	if math.Abs(got-0.3) > 1e-12 {
		t.Errorf("Score = %v, want 0.3", got)
	}

	p.Weights.Hydro = 3
	p.Bias[Up] = 0.5
	got = p.Score(env.sample, 2, Up)
	want := 3 * (0.3 / 2) * 0.5
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Score with resistance = %v, want %v", got, want)
	}

	if s := p.Score(soil.Sample{}, 1, Down); s != 0 {
		t.Errorf("Score of empty sample = %v, want 0", s)
	}
}

func TestNutrientAvailabilityCaps(t *testing.T) {
	got := NutrientAvailability(soil.Sample{Nitrogen: 100, Phosphorus: 25, Potassium: 0}, 50)
	want := (1 + 0.5 + 0) / 3
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("NutrientAvailability = %v, want %v", got, want)
	}
}

func TestGrowthTracksFloorOfBudget(t *testing.T) {
	sys := NewSystem(Point{X: 100, Y: 0}, unitParams(), newRNG(), nil)
	env := envWithMoisture(0.3)

	for n := 1; n <= 200; n++ {
		sys.Grow(env, unitClock)
		got := sys.Tips()[0].Len() - 1
		want := int(math.Floor(float64(n)*0.3 + 1e-9))
		if got != want {
			t.Fatalf("after %d ticks: %d segments, want %d", n, got, want)
		}
	}
}

func TestBoundedSegments(t *testing.T) {
	p := unitParams()
	p.MaxSegments = 5
	sys := NewSystem(Point{X: 100, Y: 0}, p, newRNG(), nil)
	env := envWithMoisture(1)

	for i := 0; i < 50; i++ {
		sys.Grow(env, unitClock)
		for _, tip := range sys.Tips() {
			if tip.Len() > p.MaxSegments {
				t.Fatalf("tip has %d segments, cap %d", tip.Len(), p.MaxSegments)
			}
		}
	}

	tip := sys.Tips()[0]
	before := append([]Segment(nil), tip.Segments()...)
	if out := tip.Grow(env, sys, unitClock); out != Saturated {
		t.Fatalf("Grow at cap = %v, want saturated", out)
	}
	for i, seg := range tip.Segments() {
		if seg != before[i] {
			t.Errorf("segment %d changed at cap: %+v -> %+v", i, before[i], seg)
		}
	}
}

func TestOccupiedPositionsUnique(t *testing.T) {
	p := unitParams()
	p.ExploitProbability = 0.5
	p.BranchProbability = 0.8
	p.MaxSegments = 70
	sys := NewSystem(Point{X: 100, Y: 0}, p, newRNG(), nil)
	env := envWithMoisture(1)

	for i := 0; i < 300; i++ {
		sys.Grow(env, unitClock)
		for ti, tip := range sys.Tips() {
			seen := make(map[Point]bool, tip.Len())
			for _, seg := range tip.Segments() {
				if seen[seg.Pos] {
					t.Fatalf("tick %d tip %d: duplicate position %+v", i, ti, seg.Pos)
				}
				seen[seg.Pos] = true
				if !tip.Occupies(seg.Pos) {
					t.Fatalf("tick %d tip %d: segment %+v missing from occupied set", i, ti, seg.Pos)
				}
			}
		}
	}
}

func TestTipCap(t *testing.T) {
	p := unitParams()
	p.BranchProbability = 1
	p.BranchEvery = 1
	p.MaxTips = 10
	sys := NewSystem(Point{X: 100, Y: 0}, p, newRNG(), nil)
	env := envWithMoisture(1)

	for i := 0; i < 60; i++ {
		sys.Grow(env, unitClock)
		if sys.TipCount() > p.MaxTips {
			t.Fatalf("tick %d: %d tips, cap %d", i, sys.TipCount(), p.MaxTips)
		}
	}
	if sys.TipCount() != p.MaxTips {
		t.Errorf("TipCount = %d, want %d after sustained branching", sys.TipCount(), p.MaxTips)
	}
}

func TestSpawnedTipWaitsForNextCall(t *testing.T) {
	p := unitParams()
	p.BranchProbability = 1
	p.BranchEvery = 1
	sys := NewSystem(Point{X: 100, Y: 0}, p, newRNG(), nil)
	env := envWithMoisture(1)

	r := sys.Grow(env, unitClock)
	if r.Count(Branched) != 1 {
		t.Fatalf("branched = %d, want 1", r.Count(Branched))
	}
	if sys.TipCount() != 2 {
		t.Fatalf("TipCount = %d, want 2", sys.TipCount())
	}
	branch := sys.Tips()[1]
	if branch.Len() != 1 {
		t.Errorf("new tip grew in the call that spawned it: %d segments", branch.Len())
	}
	if branch.Head() != sys.Tips()[0].Head() {
		t.Errorf("branch starts at %+v, want parent head %+v", branch.Head(), sys.Tips()[0].Head())
	}
	if branch.Tag != LeftBranch && branch.Tag != RightBranch {
		t.Errorf("branch tag = %v", branch.Tag)
	}
}

func TestDormantTipAgesSegments(t *testing.T) {
	center := Point{X: 5, Y: 5}
	sys := NewSystem(Point{X: 5, Y: 0}, unitParams(), newRNG(), nil)

	tip := newTip(center.Add(Left), Down, false)
	for _, d := range []Direction{Right, Down, Up, DownLeft, DownRight} {
		tip.place(center.Add(d))
	}
	tip.place(center)
	tip.age()
	sys.tips = []*Tip{tip}

	before := append([]Segment(nil), tip.Segments()...)
	r := sys.Grow(envWithMoisture(1), unitClock)

	if r.Count(Dormant) != 1 {
		t.Fatalf("dormant = %d, want 1", r.Count(Dormant))
	}
	if r.NewSegments() != 0 || sys.TipCount() != 1 {
		t.Errorf("surrounded tip grew: new=%d tips=%d", r.NewSegments(), sys.TipCount())
	}
	if tip.Len() != len(before) {
		t.Fatalf("Len = %d, want %d", tip.Len(), len(before))
	}
	for i, seg := range tip.Segments() {
		if seg.Pos != before[i].Pos || seg.Age != before[i].Age+1 {
			t.Errorf("segment %d = %+v, want pos %+v age %d", i, seg, before[i].Pos, before[i].Age+1)
		}
	}
}

func TestBoundedTipRetracts(t *testing.T) {
	origin := Point{X: 100, Y: 0}
	sys := NewSystem(origin, unitParams(), newRNG(), &Bounds{MaxDepth: 10, MaxSpread: 2})
	env := envWithMoisture(1)
	tip := sys.Tips()[0]

	// Ties resolve to Left, so the tip walks sideways out of its spread.
	want := []Outcome{Grew, Grew, Retracted}
	for i, w := range want {
		if out := tip.Grow(env, sys, unitClock); out != w {
			t.Fatalf("call %d: %v, want %v", i, out, w)
		}
	}

	outside := Point{X: origin.X - 3, Y: 0}
	if tip.Occupies(outside) {
		t.Errorf("retracted position %+v still occupied", outside)
	}
	if tip.Len() != 3 {
		t.Errorf("Len = %d, want 3", tip.Len())
	}
	if tip.Head() != (Point{X: origin.X - 2, Y: 0}) {
		t.Errorf("Head = %+v", tip.Head())
	}
	if tip.Budget() != 1 {
		t.Errorf("Budget after retraction = %v, want exactly 1", tip.Budget())
	}
	if tip.Created() != 2 {
		t.Errorf("Created = %d, want 2", tip.Created())
	}
}

func TestBoundedTipStopsAtDepth(t *testing.T) {
	p := unitParams()
	for i := range p.Bias {
		p.Bias[i] = 0.1
	}
	p.Bias[Down] = 1
	sys := NewSystem(Point{X: 100, Y: 0}, p, newRNG(), &Bounds{MaxDepth: 2, MaxSpread: 50})
	env := envWithMoisture(1)
	tip := sys.Tips()[0]

	for i := 0; i < 2; i++ {
		if out := tip.Grow(env, sys, unitClock); out != Grew {
			t.Fatalf("call %d: %v, want grew", i, out)
		}
	}
	if out := tip.Grow(env, sys, unitClock); out != DepthCapped {
		t.Fatalf("at depth: %v, want depth_capped", out)
	}
	if sys.Depth() != 2 {
		t.Errorf("Depth = %d, want 2", sys.Depth())
	}
	if tip.Segments()[0].Age != 3 {
		t.Errorf("oldest segment age = %d, want 3", tip.Segments()[0].Age)
	}
}

func TestBranchInheritsBounds(t *testing.T) {
	p := unitParams()
	p.BranchProbability = 1
	p.BranchEvery = 1
	sys := NewSystem(Point{X: 100, Y: 0}, p, newRNG(), &Bounds{MaxDepth: 5, MaxSpread: 5})
	env := envWithMoisture(1)

	for i := 0; i < 20; i++ {
		sys.Grow(env, unitClock)
	}
	for i, tip := range sys.Tips() {
		if !tip.Bounded() {
			t.Errorf("tip %d not bounded", i)
		}
		for _, seg := range tip.Segments() {
			if sys.Bounds().Violated(sys.Origin(), seg.Pos) {
				t.Errorf("tip %d has out-of-bounds segment %+v", i, seg.Pos)
			}
		}
	}
}

func TestStaticMarks(t *testing.T) {
	sys := NewSystem(Point{X: 100, Y: 0}, unitParams(), newRNG(), nil)
	env := envWithMoisture(1)
	for i := 0; i < 12; i++ {
		sys.Grow(env, unitClock)
	}
	if got := len(sys.Tips()[0].Marks()); got != 2 {
		t.Errorf("marks = %d, want 2 after 12 segments", got)
	}
}

func TestClockPerTick(t *testing.T) {
	tests := []struct {
		name string
		clk  Clock
		want float64
	}{
		{"normal", Clock{DayLength: 8, TimeScale: 2}, 1},
		{"zero day", Clock{DayLength: 0, TimeScale: 300}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.clk.PerTick(4); got != tt.want {
				t.Errorf("PerTick(4) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeadsAndMeanNutrients(t *testing.T) {
	p := unitParams()
	p.BranchProbability = 1
	p.BranchEvery = 1
	sys := NewSystem(Point{X: 100, Y: 0}, p, newRNG(), nil)
	env := envWithMoisture(1)

	sys.Grow(env, unitClock)
	heads := sys.Heads()
	if len(heads) != sys.TipCount() {
		t.Fatalf("Heads returned %d points for %d tips", len(heads), sys.TipCount())
	}
	for i, tip := range sys.Tips() {
		if heads[i] != tip.Head() {
			t.Errorf("head %d = %+v, want %+v", i, heads[i], tip.Head())
		}
	}

	// Every cell holds nutrients at saturation.
	if got := sys.MeanNutrients(env); math.Abs(got-1) > 1e-12 {
		t.Errorf("MeanNutrients = %v, want 1", got)
	}
}
