package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/integrators"
)

const (
	DefaultDataFile = "ee2_bindata.dat"
	DefaultLogLevel = "info"
	// DataFileEnv overrides data_file when set.
	DataFileEnv = "NLCEMU_DATA"
)

var (
	DefaultRedshifts   = []float64{0, 0.5, 1, 2}
	DefaultWavenumbers = []float64{0.01, 0.03, 0.1, 0.3, 1, 3}
)

type Config struct {
	DataFile    string           `yaml:"data_file"`
	Cosmology   CosmologyConfig  `yaml:"cosmology"`
	Redshifts   []float64        `yaml:"redshifts"`
	Wavenumbers []float64        `yaml:"wavenumbers"`
	Workers     int              `yaml:"workers"`
	LogLevel    string           `yaml:"log_level"`
	Quadrature  QuadratureConfig `yaml:"quadrature"`
	Clock       ClockConfig      `yaml:"clock"`
}

type CosmologyConfig struct {
	OmegaB float64 `yaml:"omega_b"`
	OmegaM float64 `yaml:"omega_m"`
	SumMNu float64 `yaml:"sum_m_nu"`
	NS     float64 `yaml:"n_s"`
	H      float64 `yaml:"h"`
	W0     float64 `yaml:"w_0"`
	WA     float64 `yaml:"w_a"`
	As     float64 `yaml:"a_s"`
}

type QuadratureConfig struct {
	AbsTol          float64 `yaml:"abs_tol"`
	RelTol          float64 `yaml:"rel_tol"`
	MaxSubdivisions int     `yaml:"max_subdivisions"`
}

type ClockConfig struct {
	Samples int `yaml:"samples"`
}

func FromParams(p cosmo.Params) CosmologyConfig {
	return CosmologyConfig{
		OmegaB: p.OmegaB, OmegaM: p.OmegaM, SumMNu: p.SumMNu, NS: p.NS,
		H: p.H, W0: p.W0, WA: p.WA, As: p.As,
	}
}

func (c CosmologyConfig) Params() cosmo.Params {
	return cosmo.Params{
		OmegaB: c.OmegaB, OmegaM: c.OmegaM, SumMNu: c.SumMNu, NS: c.NS,
		H: c.H, W0: c.W0, WA: c.WA, As: c.As,
	}
}

func DefaultConfig() *Config {
	return &Config{
		DataFile:    DefaultDataFile,
		Cosmology:   FromParams(cosmo.Fiducial()),
		Redshifts:   append([]float64(nil), DefaultRedshifts...),
		Wavenumbers: append([]float64(nil), DefaultWavenumbers...),
		LogLevel:    DefaultLogLevel,
		Quadrature: QuadratureConfig{
			AbsTol:          integrators.DefaultAbsTol,
			RelTol:          integrators.DefaultRelTol,
			MaxSubdivisions: integrators.DefaultMaxSubdivisions,
		},
		Clock: ClockConfig{Samples: cosmo.DefaultClockSamples},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
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

// ResolveDataFile returns the data file, preferring $NLCEMU_DATA.
func (c *Config) ResolveDataFile() string {
	if p := os.Getenv(DataFileEnv); p != "" {
		return p
	}
	return c.DataFile
}

func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

func (c *Config) Integrator() *integrators.Adaptive {
	q := c.Quadrature
	return integrators.NewAdaptive().WithTolerance(q.AbsTol, q.RelTol, q.MaxSubdivisions)
}

// CosmologyOptions turns the numeric settings into cosmo.New options.
func (c *Config) CosmologyOptions(logger *slog.Logger) []cosmo.Option {
	return []cosmo.Option{
		cosmo.WithLogger(logger),
		cosmo.WithQuadrature(c.Integrator()),
		cosmo.WithClockSamples(c.Clock.Samples),
	}
}

// Validate checks the settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if err := c.Cosmology.Params().Validate(); err != nil {
		return err
	}
	if c.Quadrature.AbsTol < 0 || c.Quadrature.RelTol < 0 || (c.Quadrature.AbsTol == 0 && c.Quadrature.RelTol == 0) {
		return fmt.Errorf("quadrature tolerances abs=%g rel=%g: need a positive tolerance", c.Quadrature.AbsTol, c.Quadrature.RelTol)
	}
	if c.Quadrature.MaxSubdivisions < 1 {
		return fmt.Errorf("quadrature max_subdivisions %d: must be at least 1", c.Quadrature.MaxSubdivisions)
	}
	if c.Clock.Samples < 3 {
		return fmt.Errorf("clock samples %d: must be at least 3", c.Clock.Samples)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}
