package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/relax"
)

const (
	DefaultN             = 13
	DefaultTolerance     = 1e-2
	DefaultRelaxation    = 1.0
	DefaultMaxIterations = 1_000_000
	DefaultAttempts      = 1
	DefaultProgressEvery = 2500
)

type Config struct {
	N                int     `yaml:"n"`
	Tolerance        float64 `yaml:"tolerance"`
	RelaxationFactor float64 `yaml:"relaxation_factor"`
	MaxIterations    int     `yaml:"max_iterations"`
	Seed             int64   `yaml:"seed"`
	Attempts         int     `yaml:"attempts"`
	ProgressEvery    int     `yaml:"progress_every"`
}

func DefaultConfig() *Config {
	return &Config{
		N:                DefaultN,
		Tolerance:        DefaultTolerance,
		RelaxationFactor: DefaultRelaxation,
		MaxIterations:    DefaultMaxIterations,
		Attempts:         DefaultAttempts,
		ProgressEvery:    DefaultProgressEvery,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Relax maps the file-level configuration to solver parameters.
func (c *Config) Relax() relax.Config {
	return relax.Config{
		N:                c.N,
		Tolerance:        c.Tolerance,
		RelaxationFactor: c.RelaxationFactor,
		MaxIterations:    c.MaxIterations,
		Seed:             c.Seed,
	}
}
