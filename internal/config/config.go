package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatsim/internal/thermal"
)

const (
	DefaultMass           = 10000.0
	DefaultInitialTemp    = 20.0
	DefaultTargetTemp     = 60.0
	DefaultCollectors     = 25
	DefaultCollectorPower = 4.0
)

type Config struct {
	Scenario       string  `yaml:"scenario"`
	Mass           float64 `yaml:"mass"`
	SpecificHeat   float64 `yaml:"specific_heat"`
	InitialTemp    float64 `yaml:"initial_temp"`
	TargetTemp     float64 `yaml:"target_temp"`
	Collectors     int     `yaml:"collectors"`
	CollectorPower float64 `yaml:"collector_power"`
	TimeStep       float64 `yaml:"time_step"`
}

// DefaultConfig is the reference scenario: a 10 m³ store heated from 20°C
// to 60°C by 25 collectors at 4 kW each, stepped at one minute.
func DefaultConfig() *Config {
	return &Config{
		Scenario:       "reference",
		Mass:           DefaultMass,
		SpecificHeat:   thermal.DefaultSpecificHeat,
		InitialTemp:    DefaultInitialTemp,
		TargetTemp:     DefaultTargetTemp,
		Collectors:     DefaultCollectors,
		CollectorPower: DefaultCollectorPower,
		TimeStep:       thermal.DefaultTimeStep,
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

func (c *Config) Params() thermal.Params {
	return thermal.Params{
		Mass:           c.Mass,
		SpecificHeat:   c.SpecificHeat,
		InitialTemp:    c.InitialTemp,
		TargetTemp:     c.TargetTemp,
		Collectors:     c.Collectors,
		CollectorPower: c.CollectorPower,
		TimeStep:       c.TimeStep,
	}.WithDefaults()
}
