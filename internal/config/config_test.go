package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/relax"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.N != 13 {
		t.Errorf("expected 13 charges, got %d", cfg.N)
	}
	if cfg.Tolerance <= 0 {
		t.Error("tolerance should be positive")
	}
	if cfg.RelaxationFactor != 1.0 {
		t.Errorf("expected relaxation factor 1.0, got %f", cfg.RelaxationFactor)
	}
	if cfg.MaxIterations <= 0 {
		t.Error("max iterations should be positive")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thomson.yaml")

	cfg := DefaultConfig()
	cfg.N = 7
	cfg.Tolerance = 1e-4
	cfg.Seed = 99
	cfg.Attempts = 4

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.N != 7 || loaded.Tolerance != 1e-4 || loaded.Seed != 99 || loaded.Attempts != 4 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("tetrahedron")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.N != 4 {
		t.Errorf("expected 4 charges, got %d", cfg.N)
	}
	if cfg.MaxIterations == 0 || cfg.Attempts == 0 {
		t.Error("preset defaults not filled in")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) == 0 {
		t.Fatal("expected presets")
	}

	found := false
	for _, name := range presets {
		if name == "classic" {
			found = true
		}
	}
	if !found {
		t.Error("expected classic preset in listing")
	}
}

func TestPresetsConverge(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			rc := cfg.Relax()
			rc.Seed = 1

			var (
				result *relax.Result
				err    error
			)
			if cfg.Attempts > 1 {
				result, err = relax.NewEnsemble(rc, cfg.Attempts, 1).Run(context.Background())
			} else {
				result, err = relax.New(rc).Run(context.Background())
			}
			if err != nil {
				t.Fatalf("solve failed: %v", err)
			}
			if !result.Converged {
				t.Errorf("no convergence within %d iterations at tolerance %.0e", rc.MaxIterations, rc.Tolerance)
			}
		})
	}
}

func TestRelaxMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 5

	rc := cfg.Relax()
	if rc.N != cfg.N || rc.Tolerance != cfg.Tolerance || rc.Seed != 5 {
		t.Errorf("solver config mismatch: %+v", rc)
	}
}
