package main

import (
	"testing"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/plant"
)

func init() {
	config.MustInit("")
}

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if diff := back[i] - def[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, def[i], back[i])
		}
	}

	// Defaults match the shipped config.
	got := pv.ExtractFromConfig(config.Cfg())
	for i := range def {
		if got[i] != def[i] {
			t.Errorf("%s default = %v, config has %v", pv.Specs[i].Path, def[i], got[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Cfg().Clone()
	pv.ApplyToConfig(cfg, []float64{-1, 2.5, 10, 0.25})

	w := cfg.Roots.Weights
	if w.Geo != 0 || w.Hydro != 2.5 || w.Chemo != 4 || w.Thermo != 0.25 {
		t.Errorf("weights = %+v", w)
	}
	if config.Cfg().Roots.Weights.Geo != 1.0 {
		t.Error("base config modified")
	}
}

func TestObjective(t *testing.T) {
	deeper := objective(90, 10)
	taller := objective(50, 100)
	if deeper >= taller {
		t.Errorf("objective(90,10)=%v should beat objective(50,100)=%v", deeper, taller)
	}
}

func TestSummarizeStats(t *testing.T) {
	r := summarizeStats([]plant.Stats{
		{RootDepth: 30, Height: 10, Alive: true},
		{RootDepth: 10, Height: 0, Alive: false},
		{Alive: true}, // never germinated
	})
	if r.meanDepth != 40.0/3 || r.meanHeight != 10.0/3 || r.deaths != 1 {
		t.Errorf("result = %+v", r)
	}
}
