// Package components defines ECS components for the garden.
package components

import (
	"github.com/pthm-cable/sprout/plant"
	"github.com/pthm-cable/sprout/roots"
)

// Position is a specimen's sowing cell. Row 0 is the soil surface.
type Position struct {
	X, Row int
}

// Point converts the position to root grid coordinates.
func (p Position) Point() roots.Point {
	return roots.Point{X: p.X, Y: p.Row}
}

// Specimen identifies one sowing.
type Specimen struct {
	ID       uint32
	Kind     plant.Kind
	Size     plant.SeedSize
	SownTick int32

	// Set once the death has been recorded. The entity stays in the world
	// so its stats keep reporting the death.
	Dead      bool
	DeathTick int32
}

// Growth holds the simulated seed or plant.
type Growth struct {
	Organism *plant.Organism
}
