package market

import (
	"errors"
	"fmt"
)

// FieldsPerAsset is the fixed indicator layout width. For asset i, the
// indicator matrix columns [8i+0 .. 8i+7] hold, in order:
// MACD, Bollinger upper, Bollinger lower, RSI(30), CCI(30), DX(30),
// SMA(30), SMA(60).
const FieldsPerAsset = 8

// Indicator column offsets within one asset's 8-column block.
const (
	FieldMACD = iota
	FieldBollUpper
	FieldBollLower
	FieldRSI
	FieldCCI
	FieldDX
	FieldSMA30
	FieldSMA60
)

// Series is the immutable market input: aligned daily close prices and
// pre-computed technical indicators.
//
// Shapes:
// - prices: (days, assets)
// - indicators: (days, assets*FieldsPerAsset)
//
// Indicators must be pre-sanitized by the upstream data-preparation step
// (NaNs replaced with 0). Series never mutates its matrices; it is safe to
// share one Series across many environment instances.
type Series struct {
	prices     [][]float64
	indicators [][]float64
	assets     int
}

// New validates the matrices and wraps them in a Series. The slices are
// retained, not copied; callers must not mutate them afterwards.
func New(prices, indicators [][]float64) (*Series, error) {
	if len(prices) == 0 {
		return nil, errors.New("prices matrix is empty")
	}
	if len(indicators) != len(prices) {
		return nil, fmt.Errorf("row count mismatch: %d price rows vs %d indicator rows", len(prices), len(indicators))
	}
	assets := len(prices[0])
	if assets == 0 {
		return nil, errors.New("prices matrix has no assets")
	}
	wantCols := assets * FieldsPerAsset
	for day, row := range prices {
		if len(row) != assets {
			return nil, fmt.Errorf("price row %d has %d columns, want %d", day, len(row), assets)
		}
	}
	for day, row := range indicators {
		if len(row) != wantCols {
			return nil, fmt.Errorf("indicator row %d has %d columns, want %d", day, len(row), wantCols)
		}
	}
	return &Series{prices: prices, indicators: indicators, assets: assets}, nil
}

// Days returns the number of trading days in the series.
func (s *Series) Days() int { return len(s.prices) }

// Assets returns the number of tradable instruments.
func (s *Series) Assets() int { return s.assets }

// Prices returns the close-price row for one day. The returned slice is the
// underlying storage; callers must treat it as read-only.
func (s *Series) Prices(day int) []float64 { return s.prices[day] }

// Price returns the close price of one asset on one day.
func (s *Series) Price(day, asset int) float64 { return s.prices[day][asset] }

// Indicator returns one indicator value for an asset. field is one of the
// Field* offsets.
func (s *Series) Indicator(day, asset, field int) float64 {
	return s.indicators[day][asset*FieldsPerAsset+field]
}

// Slice returns a view over days [begin, end). end == 0 means "to the end".
// The view shares storage with the parent series.
func (s *Series) Slice(begin, end int) (*Series, error) {
	if end == 0 {
		end = len(s.prices)
	}
	if begin < 0 || end > len(s.prices) || begin >= end {
		return nil, fmt.Errorf("invalid slice [%d, %d) of %d days", begin, end, len(s.prices))
	}
	return &Series{
		prices:     s.prices[begin:end],
		indicators: s.indicators[begin:end],
		assets:     s.assets,
	}, nil
}
