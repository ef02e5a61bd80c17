// Package plant models organisms above and below ground: seeds that imbibe
// and germinate, plants that grow a shoot and a root system, and the health
// model that decides when they die.
package plant

import "strings"

// Stress is a set of stress kinds raised during one health evaluation.
type Stress uint32

const (
	// Temperature
	SevereHeat Stress = 1 << iota
	Heat
	MildHeat
	SevereFrost
	Frost
	Cold
	MildCold

	// Soil
	LowMoisture
	Waterlogging
	Acidic
	Alkaline

	// Resource limitation (reported only)
	LowSunlight
	LowWater
	LowNutrients

	numStress = iota
)

// Limitations are the resource flags. They carry no penalty and do not
// block recovery.
const Limitations = LowSunlight | LowWater | LowNutrients

var stressLabels = [numStress]string{
	"Severe heat stress",
	"Heat stress",
	"Mild heat stress growth reduced",
	"Severe frost",
	"Frost damage",
	"Cold stress",
	"Mild cold stress plant growth reduced",
	"Low moisture",
	"Waterlogging",
	"Too acidic",
	"Too alkaline",
	"Not enough sunlight",
	"Not enough water",
	"Low nutrients",
}

// Has checks if the set contains all of other.
func (s Stress) Has(other Stress) bool {
	return s&other == other && other != 0
}

// Add adds a stress kind to the set.
func (s Stress) Add(other Stress) Stress {
	return s | other
}

// Remove removes a stress kind from the set.
func (s Stress) Remove(other Stress) Stress {
	return s &^ other
}

// Labels returns the human-readable labels in a fixed order.
func (s Stress) Labels() []string {
	var out []string
	for i := 0; i < numStress; i++ {
		if s&(1<<i) != 0 {
			out = append(out, stressLabels[i])
		}
	}
	return out
}

func (s Stress) String() string {
	if s == 0 {
		return "All good"
	}
	return strings.Join(s.Labels(), ", ")
}
