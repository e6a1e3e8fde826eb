package env

import (
	"errors"
	"fmt"
)

// EncoderKind selects the observation layout.
type EncoderKind string

const (
	// EncoderCompact is 2 financial features + 4 per asset.
	EncoderCompact EncoderKind = "compact"
	// EncoderExtended is 2 financial features + 6 per asset.
	EncoderExtended EncoderKind = "extended"
)

// ExecutionKind selects how actions are turned into orders.
type ExecutionKind string

const (
	// ExecutionDeltaShares interprets each action component as a signed
	// share delta scaled by MaxSharesPerTrade.
	ExecutionDeltaShares ExecutionKind = "delta-shares"
	// ExecutionTargetWeight softmaxes the action into target portfolio
	// weights and rebalances toward them.
	ExecutionTargetWeight ExecutionKind = "target-weight"
)

// Config holds the immutable episode parameters. Zero fields are filled with
// defaults by Normalize; Validate reports fatal configuration errors before
// any episode runs.
type Config struct {
	InitialAmount     float64
	MaxSharesPerTrade int
	CostFraction      float64
	Gamma             float64
	RewardScale       float64

	// InvestableFraction and CashUtilization are the target-weight policy's
	// safety margins: the fraction of total asset distributed across target
	// weights, and the fraction of cash a single buy may consume. Both are
	// empirically chosen, not derived.
	InvestableFraction float64
	CashUtilization    float64

	// [BeginIndex, EndIndex) selects the slice of the market series this
	// episode runs over. EndIndex == 0 means "to the end of the series".
	BeginIndex int
	EndIndex   int

	Encoder   EncoderKind
	Execution ExecutionKind
}

// DefaultConfig mirrors the parameter defaults of the trading environment:
// $1M initial cash, 100-share trade cap, 10bp cost, gamma 0.99 and a 2^-8
// reward scale.
func DefaultConfig() Config {
	return Config{
		InitialAmount:      1e6,
		MaxSharesPerTrade:  100,
		CostFraction:       0.001,
		Gamma:              0.99,
		RewardScale:        1.0 / 256.0,
		InvestableFraction: 0.95,
		CashUtilization:    0.99,
		Encoder:            EncoderCompact,
		Execution:          ExecutionDeltaShares,
	}
}

// Normalize fills unset fields with defaults.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	if c.InitialAmount == 0 {
		c.InitialAmount = d.InitialAmount
	}
	if c.MaxSharesPerTrade == 0 {
		c.MaxSharesPerTrade = d.MaxSharesPerTrade
	}
	if c.CostFraction == 0 {
		c.CostFraction = d.CostFraction
	}
	if c.Gamma == 0 {
		c.Gamma = d.Gamma
	}
	if c.RewardScale == 0 {
		c.RewardScale = d.RewardScale
	}
	if c.InvestableFraction == 0 {
		c.InvestableFraction = d.InvestableFraction
	}
	if c.CashUtilization == 0 {
		c.CashUtilization = d.CashUtilization
	}
	if c.Encoder == "" {
		c.Encoder = d.Encoder
	}
	if c.Execution == "" {
		c.Execution = d.Execution
	}
	return c
}

func (c Config) Validate() error {
	if c.InitialAmount <= 0 {
		return errors.New("InitialAmount must be > 0")
	}
	if c.MaxSharesPerTrade <= 0 {
		return errors.New("MaxSharesPerTrade must be > 0")
	}
	if c.CostFraction < 0 || c.CostFraction >= 1 {
		return errors.New("CostFraction must be in [0, 1)")
	}
	if c.Gamma < 0 || c.Gamma >= 1 {
		return errors.New("Gamma must be in [0, 1)")
	}
	if c.RewardScale <= 0 {
		return errors.New("RewardScale must be > 0")
	}
	if c.InvestableFraction <= 0 || c.InvestableFraction > 1 {
		return errors.New("InvestableFraction must be in (0, 1]")
	}
	if c.CashUtilization <= 0 || c.CashUtilization > 1 {
		return errors.New("CashUtilization must be in (0, 1]")
	}
	if c.BeginIndex < 0 {
		return errors.New("BeginIndex must be >= 0")
	}
	if c.EndIndex != 0 && c.EndIndex <= c.BeginIndex {
		return fmt.Errorf("EndIndex %d must be 0 or > BeginIndex %d", c.EndIndex, c.BeginIndex)
	}
	switch c.Encoder {
	case EncoderCompact, EncoderExtended:
	default:
		return fmt.Errorf("unknown encoder %q", c.Encoder)
	}
	switch c.Execution {
	case ExecutionDeltaShares, ExecutionTargetWeight:
	default:
		return fmt.Errorf("unknown execution policy %q", c.Execution)
	}
	return nil
}
