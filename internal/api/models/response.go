package models

import (
	"github.com/Misakavorst/drl-quant-trading/internal/analysis"
	"github.com/Misakavorst/drl-quant-trading/internal/backtest"
)

// BacktestResponse is the result of one backtest run across all requested
// policies.
type BacktestResponse struct {
	ID      string            `json:"id"`
	Status  string            `json:"status"`
	Days    int               `json:"days"`
	Assets  int               `json:"assets"`
	Results []PolicyResult    `json:"results"`
	Ranking []analysis.Ranked `json:"ranking"`
}

// PolicyResult is one policy's rollout, shaped for charting: per-day return
// series plus summary metrics, with the full ledger on request.
type PolicyResult struct {
	Policy            string                `json:"policy"`
	Dates             []string              `json:"dates,omitempty"`
	Returns           []float64             `json:"returns"`
	CumulativeReturns []float64             `json:"cumulative_returns"`
	InitialAsset      float64               `json:"initial_asset"`
	FinalAsset        float64               `json:"final_asset"`
	TotalReward       float64               `json:"total_reward"`
	Metrics           analysis.Metrics      `json:"metrics"`
	Ledger            []backtest.LedgerRow  `json:"ledger,omitempty"`
}

// PolicyInfo describes one available policy for the UI.
type PolicyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters,omitempty"`
}

// ParameterInfo describes one policy parameter.
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// DatasetInfo summarizes a dataset file without shipping its matrices.
type DatasetInfo struct {
	Path    string   `json:"path"`
	Days    int      `json:"days"`
	Assets  int      `json:"assets"`
	Symbols []string `json:"symbols,omitempty"`
	First   string   `json:"first_date,omitempty"`
	Last    string   `json:"last_date,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
