package backtest

import "github.com/Misakavorst/drl-quant-trading/internal/analysis"

// LedgerRow is one day of rollout output. This is the primary artifact for
// "what happened" during a backtest.
type LedgerRow struct {
	Step int `json:"step"`

	Cash          float64 `json:"cash"`
	HoldingsValue float64 `json:"holdings_value"`
	TotalAsset    float64 `json:"total_asset"`

	Reward    float64 `json:"reward"`
	CumReward float64 `json:"cum_reward"`

	// DailyReturnPct and CumulativeReturnPct are percentage changes of the
	// portfolio value, day over day and versus the starting value.
	DailyReturnPct      float64 `json:"daily_return_pct"`
	CumulativeReturnPct float64 `json:"cumulative_return_pct"`

	Terminated bool `json:"terminated"`
}

// Result bundles the rollout of one policy over one environment slice.
type Result struct {
	Policy string      `json:"policy"`
	Ledger []LedgerRow `json:"ledger,omitempty"`

	InitialAsset float64 `json:"initial_asset"`
	FinalAsset   float64 `json:"final_asset"`
	TotalReward  float64 `json:"total_reward"`

	// Returns and CumulativeReturns repeat the per-day percentage series
	// for plotting without shipping the full ledger.
	Returns           []float64 `json:"returns"`
	CumulativeReturns []float64 `json:"cumulative_returns"`

	Metrics analysis.Metrics `json:"metrics"`
}
