package config

import "sort"

// Presets are named charge counts with known minimum-energy shapes, plus
// the classic 13-charge demonstration run.
var Presets = map[string]*Config{
	"pair": {
		N: 2, Tolerance: 1e-6, RelaxationFactor: 1.0,
	},
	"triangle": {
		N: 3, Tolerance: 1e-5, RelaxationFactor: 1.0,
	},
	"tetrahedron": {
		N: 4, Tolerance: 1e-5, RelaxationFactor: 1.0, Attempts: 3,
	},
	"octahedron": {
		N: 6, Tolerance: 1e-5, RelaxationFactor: 1.0, Attempts: 3,
	},
	"icosahedron": {
		N: 12, Tolerance: 1e-4, RelaxationFactor: 1.0, Attempts: 5,
	},
	"classic": {
		N: 13, Tolerance: 1e-2, RelaxationFactor: 1.0,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}

	// Fill unset fields so the preset table stays terse.
	out := *cfg
	if out.MaxIterations == 0 {
		out.MaxIterations = DefaultMaxIterations
	}
	if out.Attempts == 0 {
		out.Attempts = DefaultAttempts
	}
	if out.ProgressEvery == 0 {
		out.ProgressEvery = DefaultProgressEvery
	}
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
