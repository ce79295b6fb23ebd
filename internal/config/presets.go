package config

import "sort"

var Presets = map[string]*Config{
	"reference": {
		Scenario: "reference",
		Mass:     10000, InitialTemp: 20, TargetTemp: 60,
		Collectors: 25, CollectorPower: 4,
	},
	"household": {
		Scenario: "household",
		Mass:     200, InitialTemp: 15, TargetTemp: 55,
		Collectors: 2, CollectorPower: 2.5,
	},
	"kettle": {
		Scenario: "kettle",
		Mass:     1.5, InitialTemp: 20, TargetTemp: 95,
		Collectors: 1, CollectorPower: 2, TimeStep: 1,
	},
	"winter-start": {
		Scenario: "winter-start",
		Mass:     10000, InitialTemp: 4, TargetTemp: 60,
		Collectors: 25, CollectorPower: 4,
	},
	"single-panel": {
		Scenario: "single-panel",
		Mass:     500, InitialTemp: 18, TargetTemp: 45,
		Collectors: 1, CollectorPower: 4,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
