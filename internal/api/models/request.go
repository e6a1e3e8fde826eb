package models

import (
	"github.com/Misakavorst/drl-quant-trading/internal/config"
	"github.com/Misakavorst/drl-quant-trading/internal/data"
)

// BacktestRequest is the body for POST /api/v1/backtest. The market data
// comes either inline or from a dataset file on the server; exactly one of
// the two must be set.
type BacktestRequest struct {
	DatasetPath string        `json:"dataset_path,omitempty"`
	Dataset     *data.Dataset `json:"dataset,omitempty"`

	Environment config.EnvironmentConfig `json:"environment,omitempty"`
	Policies    []PolicySpec             `json:"policies" binding:"required"`
	Options     BacktestOptions          `json:"options,omitempty"`
}

// PolicySpec selects one policy to roll out over the test split.
type PolicySpec struct {
	Name      string `json:"name" binding:"required"`
	Seed      int64  `json:"seed,omitempty"`
	ModelPath string `json:"model_path,omitempty"`
}

// BacktestOptions contains optional backtest parameters.
type BacktestOptions struct {
	// LimitDays truncates the series to its first N days. 0 = all.
	LimitDays int `json:"limit_days,omitempty"`
	// IncludeLedger embeds the full per-day ledger in each result.
	IncludeLedger bool `json:"include_ledger,omitempty"`
}
