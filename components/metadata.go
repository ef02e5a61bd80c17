package components

import (
	"fmt"

	"github.com/pthm-cable/sprout/plant"
)

// FieldDescriptor describes a specimen stat for text dumps.
type FieldDescriptor struct {
	ID     string // Unique identifier
	Label  string // Display name
	Format string // Printf format (e.g., "%.2f")
	Group  string // Logical grouping
}

// StatsFieldDescriptors returns metadata for plant.Stats fields.
// Field IDs must match cases in StatsValue().
func StatsFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "kind", Label: "Kind", Format: "%s", Group: "identity"},
		{ID: "stage", Label: "Stage", Format: "%s", Group: "identity"},
		{ID: "health", Label: "Health", Format: "%.0f", Group: "health"},
		{ID: "status", Label: "Status", Format: "%s", Group: "health"},
		{ID: "resources", Label: "Resources", Format: "%s", Group: "health"},
		{ID: "height", Label: "Height", Format: "%.1f", Group: "shoot"},
		{ID: "leaves", Label: "Leaves", Format: "%d", Group: "shoot"},
		{ID: "bloom", Label: "Bloom", Format: "%.1f", Group: "shoot"},
		{ID: "root_depth", Label: "Root Depth", Format: "%.0f", Group: "roots"},
		{ID: "root_tips", Label: "Tips", Format: "%d", Group: "roots"},
		{ID: "weight", Label: "Weight", Format: "%.3f", Group: "biomass"},
		{ID: "age", Label: "Age", Format: "%.1fd", Group: "biomass"},
	}
}

// StatsValue returns the raw value of the field with the given ID.
func StatsValue(s plant.Stats, id string) any {
	switch id {
	case "kind":
		return s.Kind
	case "stage":
		return s.Stage
	case "health":
		return s.HealthValue
	case "status":
		return s.Status
	case "resources":
		return s.ResourceStatus
	case "height":
		return s.Height
	case "leaves":
		return s.Leaves
	case "bloom":
		return s.Bloom
	case "root_depth":
		return s.RootDepth
	case "root_tips":
		return s.RootTips
	case "weight":
		return s.Weight
	case "age":
		return s.Age
	}
	return nil
}

// FormatStats renders every described field as "Label=value" pairs in
// descriptor order.
func FormatStats(s plant.Stats) []string {
	fields := StatsFieldDescriptors()
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, fmt.Sprintf("%s="+f.Format, f.Label, StatsValue(s, f.ID)))
	}
	return out
}
