package scenario

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sprout/plant"
)

// Garden is the set of garden controls a scenario can drive.
type Garden interface {
	Sow(x, row int, kind plant.Kind, size plant.SeedSize) (uint32, error)
	Water(x, row, size int) error
	SetRain(on bool, intensity float64)
	SetSeason(name string) error
	SetPH(ph float64) error
	SetTemperature(t float64)
	SetTimeScale(preset string) error
	SetTimeOfDay(v float64)
	SetSoil(name string) error
}

// Runner applies a scenario's events in tick order.
type Runner struct {
	events []Event
	next   int
}

// NewRunner creates a runner positioned before the first event.
func NewRunner(sc *Scenario) *Runner {
	return &Runner{events: sc.Events}
}

// Setup applies the scenario's starting time scale and pH.
// Soil, season and seed are garden construction options.
func (sc *Scenario) Setup(g Garden) error {
	if sc.TimeScale != "" {
		if err := g.SetTimeScale(sc.TimeScale); err != nil {
			return err
		}
	}
	if sc.PH != 0 {
		if err := g.SetPH(sc.PH); err != nil {
			return err
		}
	}
	return nil
}

// Apply runs every event due at or before tick that has not run yet.
// A failing event is reported and skipped; the rest still run.
func (r *Runner) Apply(g Garden, tick int32) error {
	var errs []error
	for r.next < len(r.events) && r.events[r.next].Tick <= tick {
		e := r.events[r.next]
		r.next++
		if err := e.apply(g); err != nil {
			errs = append(errs, fmt.Errorf("%s at tick %d: %w", e.Action, e.Tick, err))
			continue
		}
		slog.Info("scenario event", "tick", tick, "action", string(e.Action))
	}
	return errors.Join(errs...)
}

// Done reports whether every event has been applied.
func (r *Runner) Done() bool {
	return r.next >= len(r.events)
}

func (e Event) apply(g Garden) error {
	switch e.Action {
	case ActionSow:
		_, err := g.Sow(e.X, e.Row, e.kind, e.size)
		return err
	case ActionWater:
		return g.Water(e.X, e.Row, e.Size)
	case ActionRain:
		g.SetRain(e.On, e.Value)
	case ActionSeason:
		return g.SetSeason(e.Name)
	case ActionPH:
		return g.SetPH(e.Value)
	case ActionTemperature:
		g.SetTemperature(e.Value)
	case ActionTimeScale:
		return g.SetTimeScale(e.Name)
	case ActionTimeOfDay:
		g.SetTimeOfDay(e.Value)
	case ActionSoil:
		return g.SetSoil(e.Name)
	default:
		return fmt.Errorf("unknown action %q", e.Action)
	}
	return nil
}
