package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Roots.MaxTips != 10 {
		t.Errorf("max tips = %d, want 10", cfg.Roots.MaxTips)
	}
	if cfg.Roots.MaxSegments != 70 {
		t.Errorf("max segments = %d, want 70", cfg.Roots.MaxSegments)
	}
	if cfg.Soil.Default != "loam" {
		t.Errorf("default soil = %q, want loam", cfg.Soil.Default)
	}
	if len(cfg.Soil.Types) != 7 {
		t.Errorf("soil types = %d, want 7", len(cfg.Soil.Types))
	}
	if got := cfg.Time.Presets["ultra_fast"]; got != 1200 {
		t.Errorf("ultra_fast preset = %v, want 1200", got)
	}

	loam, ok := cfg.SoilType("loam")
	if !ok {
		t.Fatal("loam missing from catalog")
	}
	if len(loam.Horizons) != 6 || loam.Horizons[3].Name != "B" {
		t.Errorf("unexpected loam horizons: %+v", loam.Horizons)
	}

	summer, ok := cfg.Season("summer")
	if !ok {
		t.Fatal("summer missing")
	}
	if summer.DayLength != 800 || summer.Sunlight != 1.0 {
		t.Errorf("summer = %+v", summer)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("roots:\n  max_tips: 4\nsoil:\n  default: clay\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Roots.MaxTips != 4 {
		t.Errorf("max tips = %d, want 4", cfg.Roots.MaxTips)
	}
	// Untouched fields keep their defaults
	if cfg.Roots.MaxSegments != 70 {
		t.Errorf("max segments = %d, want 70", cfg.Roots.MaxSegments)
	}
	if cfg.Soil.Default != "clay" {
		t.Errorf("default soil = %q, want clay", cfg.Soil.Default)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero grid", "grid:\n  cols: 0\n"},
		{"negative time scale", "time:\n  time_scale: -1\n"},
		{"no tips", "roots:\n  max_tips: 0\n"},
		{"bad season", "seasons:\n  - {name: dark, day_length: 0}\n"},
		{"zero depth decay", "weather:\n  depth_decay: 0\n"},
		{"negative moisture decay", "weather:\n  moisture_decay: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Roots.Weights.Hydro = 4.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Roots.Weights.Hydro != 4.5 {
		t.Errorf("hydro weight = %v, want 4.5", back.Roots.Weights.Hydro)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	c := cfg.Clone()
	c.Soil.Types[0].Retention = 99
	if cfg.Soil.Types[0].Retention == 99 {
		t.Error("clone shares soil catalog with original")
	}
	if _, ok := c.SoilType("peat"); !ok {
		t.Error("clone lost derived soil index")
	}
}

func TestResolveName(t *testing.T) {
	candidates := []string{"sandy", "clay", "silt", "peat", "chalk", "loam", "brown_earth"}

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"loam", "loam", false},
		{"LOAM", "loam", false},
		{"brown earth", "brown_earth", false},
		{"brown-earth", "brown_earth", false},
		{"br", "brown_earth", false},
		{"lom", "loam", false},
		{"chalkk", "chalk", false},
		{"s", "", true}, // too short for prefix, too far for edit distance
		{"granite", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveName(tt.input, candidates)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ResolveName(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveName(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ResolveName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolvePreset(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	name, scale, err := cfg.ResolvePreset("ultra")
	if err != nil {
		t.Fatalf("ResolvePreset: %v", err)
	}
	if name != "ultra_fast" || scale != 1200 {
		t.Errorf("got %s=%v, want ultra_fast=1200", name, scale)
	}
}
