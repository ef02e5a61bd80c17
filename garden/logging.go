package garden

import (
	"fmt"
	"io"
	"strings"

	"github.com/pthm-cable/sprout/components"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// LogState writes a human-readable dump of the environment and every specimen.
func (g *Garden) LogState() {
	g.mu.Lock()
	defer g.mu.Unlock()

	env := g.environment()
	Logf("=== Garden @ Tick %d (day %d, %s, %s soil) ===", g.tick, env.Day, env.Season, env.Soil)
	Logf("Temperature %.1f°C | light %.0fh | rain %.1f mm/h | moisture %.3f | pH %.1f | time scale %.0f",
		env.Temperature, env.LightHours, env.Precipitation, env.MeanMoisture, env.PH, env.TimeScale)

	query := g.specimenFilter.Query()
	for query.Next() {
		pos, spec, growth := query.Get()
		s := growth.Organism.Stats()
		Logf("  #%-3d (%3d,%3d) %-9s %s", spec.ID, pos.X, pos.Row, growth.Organism.State(), strings.Join(components.FormatStats(s), " "))
		if s.DeathReason != "" {
			Logf("       died: %s", s.DeathReason)
		}
	}
	Logf("")
}
