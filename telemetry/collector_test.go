package telemetry

import (
	"testing"

	"github.com/pthm-cable/sprout/plant"
)

func TestCollectorFlushResetsWindow(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(9) {
		t.Error("flush before window end")
	}
	if !c.ShouldFlush(10) {
		t.Error("no flush at window end")
	}

	c.RecordSowing()
	c.RecordSowing()
	c.RecordGermination()
	c.RecordDeath(plant.Cactus)
	c.RecordDeath(plant.Sunflower)
	c.RecordDeath(plant.Sunflower)

	s := c.Flush(10, GardenSample{
		Seeds:   1,
		Healths: []float64{50, 100},
		Heights: []float64{10, 30},
	})
	if s.Sowings != 2 || s.Germinations != 1 {
		t.Errorf("sowings=%d germinations=%d", s.Sowings, s.Germinations)
	}
	if s.SunflowerDeaths != 2 || s.CactusDeaths != 1 || s.Deaths() != 3 {
		t.Errorf("deaths: sunflower=%d cactus=%d", s.SunflowerDeaths, s.CactusDeaths)
	}
	if s.Growing != 2 || s.HealthMean != 75 || s.HeightMean != 20 {
		t.Errorf("growing=%d health=%v height=%v", s.Growing, s.HealthMean, s.HeightMean)
	}
	if s.WindowStartTick != 0 || s.WindowEndTick != 10 {
		t.Errorf("window = [%d, %d]", s.WindowStartTick, s.WindowEndTick)
	}

	if c.ShouldFlush(19) {
		t.Error("window did not restart at flush tick")
	}
	next := c.Flush(20, GardenSample{})
	if next.Sowings != 0 || next.Deaths() != 0 || next.WindowStartTick != 10 {
		t.Errorf("counters not reset: %+v", next)
	}
}
