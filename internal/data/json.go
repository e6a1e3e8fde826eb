package data

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Misakavorst/drl-quant-trading/internal/market"
)

// Dataset matches the JSON shape produced by the upstream data-preparation
// pipeline: aligned close prices and technical indicators, pre-cleaned (no
// NaNs), with the 8-column-per-asset indicator layout.
type Dataset struct {
	Symbols    []string    `json:"symbols"`
	Dates      []string    `json:"dates"`
	Close      [][]float64 `json:"close"`
	Indicators [][]float64 `json:"indicators"`
}

// LoadDatasetJSON reads and validates a dataset file.
func LoadDatasetJSON(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Dataset
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return &d, nil
}

func (d *Dataset) Validate() error {
	if len(d.Close) == 0 {
		return fmt.Errorf("no price rows")
	}
	if len(d.Dates) != 0 && len(d.Dates) != len(d.Close) {
		return fmt.Errorf("%d dates for %d price rows", len(d.Dates), len(d.Close))
	}
	if len(d.Symbols) != 0 && len(d.Symbols) != len(d.Close[0]) {
		return fmt.Errorf("%d symbols for %d assets", len(d.Symbols), len(d.Close[0]))
	}
	// Shape consistency of the matrices is market.New's job.
	_, err := market.New(d.Close, d.Indicators)
	return err
}

// Series builds the immutable market series from the dataset.
func (d *Dataset) Series() (*market.Series, error) {
	return market.New(d.Close, d.Indicators)
}
