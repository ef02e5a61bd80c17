package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/plant"
)

func init() {
	config.MustInit("")
}

const droughtYAML = `
name: drought
soil: lom
season: sumer
seed: 9
ticks: 600
time_scale: fst
ph: 6.5
events:
  - {tick: 200, action: temperature, value: 38}
  - {tick: 0, action: sow, x: 40, row: 2, kind: cactus, seed_size: large}
  - {tick: 0, action: sow, x: 60, row: 2}
  - {tick: 10, action: water, x: 40, row: 2, size: 6}
  - {tick: 10, action: rain, on: false}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	sc, err := Load(writeFile(t, "drought.yaml", droughtYAML), config.Cfg())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if sc.Soil != "loam" || sc.Season != "summer" || sc.TimeScale != "fast" {
		t.Errorf("resolved names = %q %q %q", sc.Soil, sc.Season, sc.TimeScale)
	}
	if sc.Seed != 9 || sc.Ticks != 600 || sc.PH != 6.5 {
		t.Errorf("scenario = %+v", sc)
	}
	if len(sc.Events) != 5 {
		t.Fatalf("got %d events", len(sc.Events))
	}

	// Events are sorted by tick, keeping file order within a tick.
	ticks := []int32{0, 0, 10, 10, 200}
	for i, e := range sc.Events {
		if e.Tick != ticks[i] {
			t.Errorf("event %d tick = %d, want %d", i, e.Tick, ticks[i])
		}
	}
	if e := sc.Events[0]; e.kind != plant.Cactus || e.size != plant.Large {
		t.Errorf("first sowing = %+v", e)
	}
	// Defaults come from the garden config.
	if e := sc.Events[1]; e.Kind != "sunflower" || e.SeedSize != "small" {
		t.Errorf("default sowing = %+v", e)
	}
}

func TestLoadJSONNamesFromFile(t *testing.T) {
	path := writeFile(t, "wet_spring.json", `{"events":[{"tick":3,"action":"season","name":"autum"}]}`)
	sc, err := Load(path, config.Cfg())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sc.Name != "wet_spring" {
		t.Errorf("Name = %q", sc.Name)
	}
	if sc.Events[0].Name != "autumn" {
		t.Errorf("season = %q", sc.Events[0].Name)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown action", `{"events":[{"tick":0,"action":"prune"}]}`, "validating"},
		{"sow without position", `{"events":[{"tick":0,"action":"sow"}]}`, "validating"},
		{"negative tick", `{"events":[{"tick":-1,"action":"ph","value":7}]}`, "validating"},
		{"ph out of range", `{"events":[{"tick":0,"action":"ph","value":20}]}`, "validating"},
		{"unknown field", `{"wind":3}`, "validating"},
		{"unknown soil", `{"soil":"granite"}`, "soil"},
		{"unknown kind", `{"events":[{"tick":0,"action":"sow","x":1,"row":1,"kind":"oak"}]}`, "plant kind"},
		{"not json", `{`, "parsing JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), config.Cfg())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

// fakeGarden records the calls a runner makes.
type fakeGarden struct {
	calls   []string
	sowErr  error
	temp    float64
	raining bool
}

func (f *fakeGarden) Sow(x, row int, kind plant.Kind, size plant.SeedSize) (uint32, error) {
	f.calls = append(f.calls, "sow:"+kind.String()+":"+size.String())
	return 1, f.sowErr
}
func (f *fakeGarden) Water(x, row, size int) error { f.calls = append(f.calls, "water"); return nil }
func (f *fakeGarden) SetRain(on bool, intensity float64) {
	f.calls = append(f.calls, "rain")
	f.raining = on
}
func (f *fakeGarden) SetSeason(name string) error { f.calls = append(f.calls, "season:"+name); return nil }
func (f *fakeGarden) SetPH(ph float64) error { f.calls = append(f.calls, "ph"); return nil }
func (f *fakeGarden) SetTemperature(t float64) {
	f.calls = append(f.calls, "temperature")
	f.temp = t
}
func (f *fakeGarden) SetTimeScale(preset string) error {
	f.calls = append(f.calls, "time_scale:"+preset)
	return nil
}
func (f *fakeGarden) SetTimeOfDay(v float64) { f.calls = append(f.calls, "time_of_day") }
func (f *fakeGarden) SetSoil(name string) error { f.calls = append(f.calls, "soil:"+name); return nil }

func TestRunnerApply(t *testing.T) {
	sc, err := Parse(mustJSON(t, droughtYAML), config.Cfg())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g := &fakeGarden{raining: true}

	if err := sc.Setup(g); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	r := NewRunner(sc)
	for tick := int32(0); tick < 10; tick++ {
		if err := r.Apply(g, tick); err != nil {
			t.Fatalf("Apply(%d): %v", tick, err)
		}
	}
	want := []string{"time_scale:fast", "ph", "sow:cactus:large", "sow:sunflower:small"}
	if strings.Join(g.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", g.calls, want)
	}

	// Skipped ticks still deliver every due event.
	if err := r.Apply(g, 500); err != nil {
		t.Fatalf("Apply(500): %v", err)
	}
	if !r.Done() || g.raining || g.temp != 38 {
		t.Errorf("done=%v raining=%v temp=%v", r.Done(), g.raining, g.temp)
	}
}

func TestRunnerContinuesAfterError(t *testing.T) {
	sc, err := Parse(mustJSON(t, droughtYAML), config.Cfg())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	boom := errors.New("full")
	g := &fakeGarden{sowErr: boom}

	err = NewRunner(sc).Apply(g, 0)
	if !errors.Is(err, boom) {
		t.Fatalf("Apply error = %v, want %v", err, boom)
	}
	if len(g.calls) != 2 {
		t.Errorf("calls = %v, want both sowings attempted", g.calls)
	}
}

func mustJSON(t *testing.T, y string) []byte {
	t.Helper()
	data, err := yamlToJSON([]byte(y))
	if err != nil {
		t.Fatalf("yamlToJSON: %v", err)
	}
	return data
}
