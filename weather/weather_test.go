package weather

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/sprout/config"
)

func init() {
	config.MustInit("")
}

func TestNewSkyResolvesSeason(t *testing.T) {
	s, err := NewSky(config.Cfg(), "Sumer")
	if err != nil {
		t.Fatalf("NewSky: %v", err)
	}
	if s.Season().Name != "summer" {
		t.Errorf("season = %q, want summer", s.Season().Name)
	}
	if s.DayLength() != 800 {
		t.Errorf("day length = %v, want 800", s.DayLength())
	}

	if _, err := NewSky(config.Cfg(), "monsoon"); err == nil {
		t.Error("expected error for unknown season")
	}
}

func TestAdvanceWrapsDays(t *testing.T) {
	s, err := NewSky(config.Cfg(), "spring")
	if err != nil {
		t.Fatal(err)
	}

	// Spring day length 600 at time scale 300: a quarter turn per tick.
	for i := 1; i <= 3; i++ {
		if s.Advance(300) {
			t.Fatalf("tick %d wrapped early", i)
		}
	}
	wraps := 0
	for i := 0; i < 2; i++ {
		if s.Advance(300) {
			wraps++
		}
	}
	if wraps != 1 {
		t.Errorf("wraps over ticks 4-5 = %d, want 1", wraps)
	}
	if s.Day() != 1 {
		t.Errorf("day = %d, want 1", s.Day())
	}
	if s.SunAngle() < 0 || s.SunAngle() >= 2*math.Pi {
		t.Errorf("angle %v out of range", s.SunAngle())
	}
}

func TestTemperatureOverride(t *testing.T) {
	s, err := NewSky(config.Cfg(), "winter")
	if err != nil {
		t.Fatal(err)
	}
	if s.Temperature() != 0 {
		t.Errorf("winter temperature = %v, want 0", s.Temperature())
	}
	s.SetTemperature(55)
	if s.Temperature() != 55 {
		t.Errorf("override = %v, want 55", s.Temperature())
	}
	if err := s.SetSeason("autumn"); err != nil {
		t.Fatal(err)
	}
	if s.Temperature() != 10 {
		t.Errorf("season change should clear override, got %v", s.Temperature())
	}
}

func TestTimeOfDay(t *testing.T) {
	s, err := NewSky(config.Cfg(), "spring")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		in    float64
		angle float64
	}{
		{0, 0},
		{25, math.Pi / 2},
		{50, math.Pi},
		{125, math.Pi / 2},
	}
	for _, tt := range tests {
		s.SetTimeOfDay(tt.in)
		if math.Abs(s.SunAngle()-tt.angle) > 1e-9 {
			t.Errorf("SetTimeOfDay(%v) angle = %v, want %v", tt.in, s.SunAngle(), tt.angle)
		}
	}
}

func TestRollRain(t *testing.T) {
	cfg := config.Cfg().Clone()
	cfg.Weather.AutoRain = true
	s, err := NewSky(cfg, "winter")
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewPCG(3, 0))
	wet := 0
	const days = 2000
	for i := 0; i < days; i++ {
		s.RollRain(rng)
		if on, _ := s.Raining(); on {
			wet++
		}
	}
	frac := float64(wet) / days
	if frac < 0.4 || frac > 0.6 {
		t.Errorf("winter rain fraction = %.2f, want ~0.5", frac)
	}
	if on, _ := s.Raining(); on && s.Precipitation() != cfg.Weather.RainIntensity*0.5 {
		t.Errorf("precipitation = %v", s.Precipitation())
	}
}

func TestRollRainDisabled(t *testing.T) {
	s, err := NewSky(config.Cfg(), "winter")
	if err != nil {
		t.Fatal(err)
	}
	s.SetAutoRain(false)
	s.RollRain(rand.New(rand.NewPCG(1, 0)))
	if on, _ := s.Raining(); on {
		t.Error("rain should stay off when auto rain is disabled")
	}
	if s.Precipitation() != 0 {
		t.Error("no precipitation expected")
	}
}
