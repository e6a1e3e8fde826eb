package backtest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Misakavorst/drl-quant-trading/internal/env"
	"github.com/Misakavorst/drl-quant-trading/internal/market"
	"github.com/Misakavorst/drl-quant-trading/internal/policy"
)

func testSeries(t *testing.T, days, assets int, price func(day, asset int) float64) *market.Series {
	t.Helper()
	prices := make([][]float64, days)
	indicators := make([][]float64, days)
	for d := 0; d < days; d++ {
		prices[d] = make([]float64, assets)
		for a := 0; a < assets; a++ {
			prices[d][a] = price(d, a)
		}
		indicators[d] = make([]float64, assets*market.FieldsPerAsset)
	}
	s, err := market.New(prices, indicators)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	return s
}

func testEnv(t *testing.T, s *market.Series) *env.Env {
	t.Helper()
	e, err := env.New(s, env.Config{})
	if err != nil {
		t.Fatalf("env.New: %v", err)
	}
	return e
}

func TestRunValidatesInputs(t *testing.T) {
	s := testSeries(t, 5, 1, func(int, int) float64 { return 100 })
	e := testEnv(t, s)
	eng := New()
	if _, err := eng.Run(nil, policy.Hold{}, 0); err == nil {
		t.Fatal("expected error for nil environment")
	}
	if _, err := eng.Run(e, nil, 0); err == nil {
		t.Fatal("expected error for nil policy")
	}
}

func TestRunHoldOnFlatMarket(t *testing.T) {
	s := testSeries(t, 12, 2, func(int, int) float64 { return 100 })
	res, err := New().Run(testEnv(t, s), policy.Hold{}, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Policy != "hold" {
		t.Errorf("Policy = %s, want hold", res.Policy)
	}
	if len(res.Ledger) != 11 {
		t.Fatalf("ledger has %d rows, want 11", len(res.Ledger))
	}
	if res.FinalAsset != res.InitialAsset {
		t.Fatalf("holding on a flat market moved value: %v -> %v", res.InitialAsset, res.FinalAsset)
	}
	for i, r := range res.Returns {
		if r != 0 {
			t.Fatalf("return[%d] = %v, want 0", i, r)
		}
	}
	if !res.Ledger[len(res.Ledger)-1].Terminated {
		t.Fatal("last ledger row should be terminal")
	}
}

func TestRunBuyAndHoldTracksMarket(t *testing.T) {
	// Prices rise 1% a day; buy-and-hold should end up ahead.
	s := testSeries(t, 20, 1, func(day, _ int) float64 {
		p := 100.0
		for i := 0; i < day; i++ {
			p *= 1.01
		}
		return p
	})
	res, err := New().Run(testEnv(t, s), policy.BuyAndHold{}, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.FinalAsset <= res.InitialAsset {
		t.Fatalf("buy-and-hold on a rising market lost money: %v -> %v", res.InitialAsset, res.FinalAsset)
	}
	if res.Metrics.SharpeRatio <= 0 {
		t.Fatalf("Sharpe = %v, want positive", res.Metrics.SharpeRatio)
	}
}

func TestRunDeterministicWithSeededPolicy(t *testing.T) {
	s := testSeries(t, 15, 2, func(day, asset int) float64 {
		return 80 + float64(day)*float64(asset+1)
	})
	run := func() *Result {
		res, err := New().Run(testEnv(t, s), policy.NewRandom(99), 99)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}
	a, b := run(), run()
	if a.FinalAsset != b.FinalAsset || a.TotalReward != b.TotalReward {
		t.Fatalf("seeded runs diverged: %v/%v vs %v/%v", a.FinalAsset, a.TotalReward, b.FinalAsset, b.TotalReward)
	}
}

func TestRunProgressCallback(t *testing.T) {
	s := testSeries(t, 10, 1, func(int, int) float64 { return 100 })
	var calls int
	var lastStep int
	eng := New(WithProgress(func(step, total int, asset float64) {
		calls++
		lastStep = step
		if total != 9 {
			t.Errorf("total = %d, want 9", total)
		}
	}))
	if _, err := eng.Run(testEnv(t, s), policy.Hold{}, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Short episode: only the final completion callback fires.
	if calls != 1 || lastStep != 9 {
		t.Fatalf("calls = %d lastStep = %d, want 1 and 9", calls, lastStep)
	}
}

func TestWriteLedgerCSV(t *testing.T) {
	s := testSeries(t, 6, 1, func(int, int) float64 { return 100 })
	res, err := New().Run(testEnv(t, s), policy.BuyAndHold{}, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	path := filepath.Join(t.TempDir(), "ledger.csv")
	if err := WriteLedgerCSV(path, res.Ledger); err != nil {
		t.Fatalf("WriteLedgerCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != len(res.Ledger)+1 {
		t.Fatalf("csv has %d rows, want %d", len(rows), len(res.Ledger)+1)
	}
	if rows[0][0] != "step" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
}
