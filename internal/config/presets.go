package config

import "sort"

var Presets = map[string]CosmologyConfig{
	"fiducial": {
		OmegaB: 0.05, OmegaM: 0.32, SumMNu: 0.0, NS: 0.96, H: 0.67, W0: -1.0, WA: 0.0, As: 2.1e-9,
	},
	"massive_nu": {
		OmegaB: 0.05, OmegaM: 0.32, SumMNu: 0.12, NS: 0.96, H: 0.67, W0: -1.0, WA: 0.0, As: 2.1e-9,
	},
	"dynamical_de": {
		OmegaB: 0.05, OmegaM: 0.32, SumMNu: 0.06, NS: 0.96, H: 0.67, W0: -0.9, WA: -0.3, As: 2.1e-9,
	},
	"low_matter": {
		OmegaB: 0.045, OmegaM: 0.26, SumMNu: 0.0, NS: 0.97, H: 0.71, W0: -1.0, WA: 0.0, As: 2.0e-9,
	},
	"high_matter": {
		OmegaB: 0.055, OmegaM: 0.38, SumMNu: 0.0, NS: 0.94, H: 0.63, W0: -1.0, WA: 0.0, As: 2.3e-9,
	},
}

// GetPreset returns the default config with the named cosmology, or nil.
func GetPreset(name string) *Config {
	c, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Cosmology = c
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
