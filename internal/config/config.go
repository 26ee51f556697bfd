package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/choicemetrics/convd/internal/learning"
	"github.com/choicemetrics/convd/internal/scoring"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Events     EventsConfig     `yaml:"events"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Learning   learning.Params  `yaml:"learning"`
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type ScoringConfig struct {
	Weights      scoring.WeightVector        `yaml:"weights"`
	Bounds       scoring.MultiplierBounds    `yaml:"multiplier_bounds"`
	Availability scoring.AvailabilityAnchors `yaml:"availability_anchors"`

	Time        TimeConfig             `yaml:"time"`
	Economics   scoring.TimeEconomics  `yaml:"economics"`
	Stress      StressConfig           `yaml:"stress"`
	Opportunity OpportunityConfig      `yaml:"opportunity"`
	Comfort     scoring.ComfortWeights `yaml:"comfort"`
}

type TimeConfig struct {
	SaturationMinutes float64 `yaml:"saturation_minutes"`
	CostReference     float64 `yaml:"cost_reference"`
}

type StressConfig struct {
	Ceiling float64 `yaml:"ceiling"`
}

type OpportunityConfig struct {
	Rates   scoring.OpportunityRates `yaml:"rates"`
	Ceiling float64                  `yaml:"ceiling"`
}

type SimulationConfig struct {
	DefaultRuns  int     `yaml:"default_runs"`
	Workers      int     `yaml:"workers"`
	DefaultDelta float64 `yaml:"default_delta"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CalcParams assembles the scoring engine tuning from config.
func (c *Config) CalcParams() scoring.CalcParams {
	return scoring.CalcParams{
		TimeSaturationMinutes: c.Scoring.Time.SaturationMinutes,
		CostReference:         c.Scoring.Time.CostReference,
		Econ:                  c.Scoring.Economics,
		StressCeiling:         c.Scoring.Stress.Ceiling,
		Opportunity:           c.Scoring.Opportunity.Rates,
		OpportunityCeiling:    c.Scoring.Opportunity.Ceiling,
		Comfort:               c.Scoring.Comfort,
	}
}

func Load(path string) (*Config, error) {
	defaults := scoring.DefaultCalcParams()
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Scoring: ScoringConfig{
			Weights:      scoring.DefaultWeights(),
			Bounds:       scoring.DefaultBounds(),
			Availability: scoring.DefaultAnchors(),
			Time: TimeConfig{
				SaturationMinutes: defaults.TimeSaturationMinutes,
				CostReference:     defaults.CostReference,
			},
			Economics: defaults.Econ,
			Stress:    StressConfig{Ceiling: defaults.StressCeiling},
			Opportunity: OpportunityConfig{
				Rates:   defaults.Opportunity,
				Ceiling: defaults.OpportunityCeiling,
			},
			Comfort: defaults.Comfort,
		},
		Learning: learning.DefaultParams(),
		Simulation: SimulationConfig{
			DefaultRuns:  2000,
			Workers:      4,
			DefaultDelta: 0.10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Scoring.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("scoring weights: %w", err)
	}
	if err := cfg.CalcParams().Validate(); err != nil {
		return nil, fmt.Errorf("scoring params: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CONVD_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("CONVD_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("CONVD_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("CONVD_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("CONVD_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("CONVD_LEARNING_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Learning.Rate = f
		}
	}
	if v := os.Getenv("CONVD_SIMULATION_RUNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Simulation.DefaultRuns = n
		}
	}
	if v := os.Getenv("CONVD_SIMULATION_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Simulation.Workers = n
		}
	}
	if v := os.Getenv("CONVD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
