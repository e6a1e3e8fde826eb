package backtest

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteLedgerCSV writes the per-day ledger to path, one row per step.
func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"step",
		"cash",
		"holdings_value",
		"total_asset",
		"reward",
		"cum_reward",
		"daily_return_pct",
		"cumulative_return_pct",
		"terminated",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Step),
			fmtFloat(r.Cash),
			fmtFloat(r.HoldingsValue),
			fmtFloat(r.TotalAsset),
			fmtFloat(r.Reward),
			fmtFloat(r.CumReward),
			fmtFloat(r.DailyReturnPct),
			fmtFloat(r.CumulativeReturnPct),
			strconv.FormatBool(r.Terminated),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
