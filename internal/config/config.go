package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Misakavorst/drl-quant-trading/internal/env"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load environment parameters from a separate YAML (e.g.
	// examples/envs/*.yaml). If both EnvironmentFile and Environment are
	// provided, Environment overrides EnvironmentFile field by field.
	EnvironmentFile string            `yaml:"environment_file"`
	Environment     EnvironmentConfig `yaml:"environment"`
	Policy          PolicyConfig      `yaml:"policy"`
}

// EnvironmentConfig doubles as the YAML config section and the JSON
// request overlay, so both tag sets are present.
type EnvironmentConfig struct {
	Name               string  `yaml:"name" json:"name,omitempty"`
	InitialAmount      float64 `yaml:"initial_amount" json:"initial_amount,omitempty"`
	MaxSharesPerTrade  int     `yaml:"max_shares_per_trade" json:"max_shares_per_trade,omitempty"`
	CostFraction       float64 `yaml:"cost_fraction" json:"cost_fraction,omitempty"`
	Gamma              float64 `yaml:"gamma" json:"gamma,omitempty"`
	RewardScale        float64 `yaml:"reward_scale" json:"reward_scale,omitempty"`
	InvestableFraction float64 `yaml:"investable_fraction" json:"investable_fraction,omitempty"`
	CashUtilization    float64 `yaml:"cash_utilization" json:"cash_utilization,omitempty"`
	BeginIndex         int     `yaml:"begin_index" json:"begin_index,omitempty"`
	EndIndex           int     `yaml:"end_index" json:"end_index,omitempty"`
	Encoder            string  `yaml:"encoder" json:"encoder,omitempty"`
	Execution          string  `yaml:"execution" json:"execution,omitempty"`
}

type PolicyConfig struct {
	Name      string `yaml:"name"`
	Seed      int64  `yaml:"seed"`
	ModelPath string `yaml:"model_path"`
	// Levels enables the discrete action adapter when > 0.
	Levels int `yaml:"levels"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it. Useful
// for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.EnvironmentFile != "" {
		envPath := c.EnvironmentFile
		if !filepath.IsAbs(envPath) {
			// Prefer interpreting relative paths as relative to the config
			// file directory, falling back to the path as given.
			cand := filepath.Join(filepath.Dir(path), envPath)
			if _, err := os.Stat(cand); err == nil {
				envPath = cand
			}
		}
		loaded, err := loadEnvironmentFile(envPath)
		if err != nil {
			return nil, err
		}
		c.Environment = MergeEnvironment(loaded, c.Environment)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Policy.Name == "" {
		return errors.New("policy.name is required")
	}
	if c.Policy.Levels < 0 {
		return errors.New("policy.levels must be >= 0")
	}
	if err := c.Environment.ToEnvConfig().Normalize().Validate(); err != nil {
		return fmt.Errorf("environment config invalid: %w", err)
	}
	return nil
}

func (e EnvironmentConfig) ToEnvConfig() env.Config {
	return env.Config{
		InitialAmount:      e.InitialAmount,
		MaxSharesPerTrade:  e.MaxSharesPerTrade,
		CostFraction:       e.CostFraction,
		Gamma:              e.Gamma,
		RewardScale:        e.RewardScale,
		InvestableFraction: e.InvestableFraction,
		CashUtilization:    e.CashUtilization,
		BeginIndex:         e.BeginIndex,
		EndIndex:           e.EndIndex,
		Encoder:            env.EncoderKind(e.Encoder),
		Execution:          env.ExecutionKind(e.Execution),
	}
}

type environmentFileWrapper struct {
	Environment EnvironmentConfig `yaml:"environment"`
}

func loadEnvironmentFile(path string) (EnvironmentConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return EnvironmentConfig{}, err
	}
	var w environmentFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return EnvironmentConfig{}, err
	}
	return w.Environment, nil
}

// MergeEnvironment overlays non-zero fields from override onto base. Used
// when loading an environment file and then applying request overrides.
func MergeEnvironment(base, override EnvironmentConfig) EnvironmentConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.InitialAmount != 0 {
		out.InitialAmount = override.InitialAmount
	}
	if override.MaxSharesPerTrade != 0 {
		out.MaxSharesPerTrade = override.MaxSharesPerTrade
	}
	if override.CostFraction != 0 {
		out.CostFraction = override.CostFraction
	}
	if override.Gamma != 0 {
		out.Gamma = override.Gamma
	}
	if override.RewardScale != 0 {
		out.RewardScale = override.RewardScale
	}
	if override.InvestableFraction != 0 {
		out.InvestableFraction = override.InvestableFraction
	}
	if override.CashUtilization != 0 {
		out.CashUtilization = override.CashUtilization
	}
	if override.BeginIndex != 0 {
		out.BeginIndex = override.BeginIndex
	}
	if override.EndIndex != 0 {
		out.EndIndex = override.EndIndex
	}
	if override.Encoder != "" {
		out.Encoder = override.Encoder
	}
	if override.Execution != "" {
		out.Execution = override.Execution
	}
	return out
}
