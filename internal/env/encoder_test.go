package env

import (
	"math"
	"testing"

	"github.com/Misakavorst/drl-quant-trading/internal/market"
	"github.com/Misakavorst/drl-quant-trading/internal/portfolio"
)

// indicatorSeries builds a series with fixed RSI/MACD values for every day.
func indicatorSeries(t *testing.T, days, assets int, price, rsi, macd float64) *market.Series {
	t.Helper()
	prices := make([][]float64, days)
	indicators := make([][]float64, days)
	for d := 0; d < days; d++ {
		prices[d] = make([]float64, assets)
		indicators[d] = make([]float64, assets*market.FieldsPerAsset)
		for a := 0; a < assets; a++ {
			prices[d][a] = price
			indicators[d][a*market.FieldsPerAsset+market.FieldRSI] = rsi
			indicators[d][a*market.FieldsPerAsset+market.FieldMACD] = macd
		}
	}
	s, err := market.New(prices, indicators)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	return s
}

func TestCompactEncoderValues(t *testing.T) {
	price, rsi, macd := 100.0, 70.0, 2.5
	s := indicatorSeries(t, 6, 1, price, rsi, macd)

	p := portfolio.New(1000, 1)
	p.Shares[0] = 5
	p.Recompute(s.Prices(2)) // 1000 + 500

	enc, err := NewEncoder(EncoderCompact, 1000)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	prev := []float64{80}
	obs := enc.Encode(p, s, 2, prev)

	want := []float64{
		math.Tanh(1000.0/1500.0 - 0.5),
		math.Tanh((1500.0 - 1000.0) / 1000.0),
		math.Tanh(500.0 / 1500.0),
		math.Tanh((100.0 - 80.0) / 80.0 * 10),
		math.Tanh((rsi - 50) / 50),
		math.Tanh(macd / (price + priceEps)),
	}
	if len(obs) != len(want) {
		t.Fatalf("observation length %d, want %d", len(obs), len(want))
	}
	for i := range want {
		if math.Abs(obs[i]-want[i]) > 1e-15 {
			t.Errorf("obs[%d] = %v, want %v", i, obs[i], want[i])
		}
	}
}

func TestCompactEncoderDegenerateDenominators(t *testing.T) {
	s := indicatorSeries(t, 3, 2, 100, 50, 0)

	// Bankrupt portfolio and a non-positive previous price must encode to
	// neutral zeros, not NaN.
	p := portfolio.New(0, 2)
	enc, _ := NewEncoder(EncoderCompact, 1000)
	obs := enc.Encode(p, s, 1, []float64{0, -4})
	for i, v := range obs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("obs[%d] = %v on degenerate state", i, v)
		}
	}
	// Position ratio and daily return terms are exactly 0.
	for _, idx := range []int{2, 3, 6, 7} {
		if obs[idx] != 0 {
			t.Errorf("obs[%d] = %v, want 0", idx, obs[idx])
		}
	}
}

func TestExtendedEncoderShareRatioAndWeeklyReturn(t *testing.T) {
	days := 10
	prices := make([][]float64, days)
	indicators := make([][]float64, days)
	for d := 0; d < days; d++ {
		prices[d] = []float64{float64(100 + d), 50}
		indicators[d] = make([]float64, 2*market.FieldsPerAsset)
	}
	s, err := market.New(prices, indicators)
	if err != nil {
		t.Fatalf("series: %v", err)
	}

	p := portfolio.New(0, 2)
	p.Shares[0] = 30
	p.Shares[1] = 10
	p.Recompute(s.Prices(7))

	enc, _ := NewEncoder(EncoderExtended, 1000)
	obs := enc.Encode(p, s, 7, s.Prices(6))

	// Asset 0 block starts right after the 2-value financial block.
	if got, want := obs[2], math.Tanh(30.0/40.0); math.Abs(got-want) > 1e-15 {
		t.Errorf("share ratio = %v, want %v", got, want)
	}
	// 5-day return for asset 0: day 7 vs day 2.
	weekly := (107.0 - 102.0) / 102.0
	if got, want := obs[5], math.Tanh(weekly*5); math.Abs(got-want) > 1e-15 {
		t.Errorf("weekly return = %v, want %v", got, want)
	}
}

func TestExtendedEncoderDayZeroLookback(t *testing.T) {
	s := indicatorSeries(t, 5, 1, 100, 50, 0)
	p := portfolio.New(1000, 1)
	enc, _ := NewEncoder(EncoderExtended, 1000)

	// On day 0 the lookback collapses to 0 and the 5-day return is the
	// neutral 0.
	obs := enc.Encode(p, s, 0, s.Prices(0))
	if obs[5] != 0 {
		t.Fatalf("day-0 weekly return = %v, want 0", obs[5])
	}
}
