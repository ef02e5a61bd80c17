package roots

import "math"

// fixedOne is one whole segment in accumulator units. A decimal scale keeps
// decimal growth increments exact, so long runs do not drift.
const fixedOne int64 = 1_000_000_000

// Accumulator holds the fractional growth budget of a tip.
type Accumulator struct {
	units int64
}

// roundSlack absorbs float error just above a whole unit.
const roundSlack = 1e-6

// Add credits v segments of budget. Increments round up to the next whole
// unit so repeating fractions such as 1/3 never fall short of a segment.
func (a *Accumulator) Add(v float64) {
	if v <= 0 || math.IsNaN(v) {
		return
	}
	a.units += int64(math.Ceil(v*float64(fixedOne) - roundSlack))
}

// Take consumes one whole segment if available.
func (a *Accumulator) Take() bool {
	if a.units < fixedOne {
		return false
	}
	a.units -= fixedOne
	return true
}

// Refund returns one whole segment to the budget.
func (a *Accumulator) Refund() {
	a.units += fixedOne
}

// Value returns the budget in segments.
func (a Accumulator) Value() float64 {
	return float64(a.units) / float64(fixedOne)
}
