package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// NormalizeName lowercases a user-supplied name and folds spaces and dashes to underscores.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// ResolveName maps a possibly misspelled name onto one of candidates.
// Exact matches win, then a unique prefix of at least two characters,
// then the single closest candidate within the edit distance limit.
func ResolveName(input string, candidates []string) (string, error) {
	in := NormalizeName(input)
	if in == "" {
		return "", fmt.Errorf("empty name (want one of %s)", strings.Join(candidates, ", "))
	}

	for _, c := range candidates {
		if NormalizeName(c) == in {
			return c, nil
		}
	}

	if len(in) >= 2 {
		var prefixed []string
		for _, c := range candidates {
			if strings.HasPrefix(NormalizeName(c), in) {
				prefixed = append(prefixed, c)
			}
		}
		if len(prefixed) == 1 {
			return prefixed[0], nil
		}
		if len(prefixed) > 1 {
			sort.Strings(prefixed)
			return "", fmt.Errorf("ambiguous name %q (matches %s)", input, strings.Join(prefixed, ", "))
		}
	}

	best := ""
	bestDist := -1
	tied := false
	for _, c := range candidates {
		norm := NormalizeName(c)
		dist := levenshtein.ComputeDistance(in, norm)
		if dist > distanceLimit(len(norm)) {
			continue
		}
		switch {
		case bestDist < 0 || dist < bestDist:
			best, bestDist, tied = c, dist, false
		case dist == bestDist:
			tied = true
		}
	}
	if bestDist < 0 {
		return "", fmt.Errorf("unknown name %q (want one of %s)", input, strings.Join(candidates, ", "))
	}
	if tied {
		return "", fmt.Errorf("ambiguous name %q", input)
	}
	return best, nil
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// ResolveSoil resolves a soil type name against the catalog.
func (c *Config) ResolveSoil(name string) (string, error) {
	return ResolveName(name, c.Derived.SoilNames)
}

// ResolveSeason resolves a season name against the season table.
func (c *Config) ResolveSeason(name string) (string, error) {
	return ResolveName(name, c.Derived.SeasonNames)
}

// ResolvePreset resolves a time scale preset name and returns its value.
func (c *Config) ResolvePreset(name string) (string, float64, error) {
	n, err := ResolveName(name, c.Derived.PresetNames)
	if err != nil {
		return "", 0, err
	}
	return n, c.Time.Presets[n], nil
}
