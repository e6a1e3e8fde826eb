package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Misakavorst/drl-quant-trading/internal/analysis"
	"github.com/Misakavorst/drl-quant-trading/internal/backtest"
	"github.com/Misakavorst/drl-quant-trading/internal/config"
	"github.com/Misakavorst/drl-quant-trading/internal/data"
	"github.com/Misakavorst/drl-quant-trading/internal/env"
	"github.com/Misakavorst/drl-quant-trading/internal/market"
	"github.com/Misakavorst/drl-quant-trading/internal/policy"
)

func main() {
	root := &cobra.Command{
		Use:           "trading-cli",
		Short:         "Run trading policy backtests from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBacktestCmd())
	root.AddCommand(newCompareCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newBacktestCmd() *cobra.Command {
	var (
		dataPath string
		cfgPath  string
		outPath  string
		limit    int
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Roll one configured policy through a dataset and write its ledger to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			series, err := loadSeries(dataPath, limit)
			if err != nil {
				return err
			}

			e, err := env.New(series, cfg.Environment.ToEnvConfig())
			if err != nil {
				return err
			}

			pol, err := policy.New(policy.Spec{
				Name:      cfg.Policy.Name,
				Seed:      cfg.Policy.Seed,
				ModelPath: cfg.Policy.ModelPath,
				ObsDim:    e.ObservationDim(),
				ActionDim: e.ActionDim(),
			})
			if err != nil {
				return err
			}
			if closer, ok := pol.(interface{ Close() }); ok {
				defer closer.Close()
			}

			log := zap.NewNop()
			if verbose {
				if log, err = zap.NewDevelopment(); err != nil {
					return err
				}
				defer log.Sync()
			}

			engine := backtest.New(backtest.WithLogger(log))
			res, err := engine.Run(e, pol, cfg.Policy.Seed)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return err
			}
			if err := backtest.WriteLedgerCSV(outPath, res.Ledger); err != nil {
				return err
			}

			fmt.Printf("Wrote %d rows to %s\n", len(res.Ledger), outPath)
			fmt.Printf("policy=%s final_asset=%.2f total_return=%.4f sharpe=%.4f max_drawdown=%.4f\n",
				res.Policy, res.FinalAsset,
				res.Metrics.TotalReturn, res.Metrics.SharpeRatio, res.Metrics.MaxDrawdown)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "sample_data.json", "Path to the dataset JSON file")
	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to the YAML config")
	cmd.Flags().StringVar(&outPath, "out", "results/ledger.csv", "Output CSV path")
	cmd.Flags().IntVar(&limit, "n", 0, "Optional: limit to first N trading days (0=all)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log backtest progress")
	cmd.MarkFlagRequired("config")

	return cmd
}

func newCompareCmd() *cobra.Command {
	var (
		dataPath string
		names    string
		seed     int64
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run several policies over the same dataset and rank them by Sharpe ratio",
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := loadSeries(dataPath, limit)
			if err != nil {
				return err
			}

			requested := splitNames(names)
			if len(requested) == 0 {
				// Every baseline except onnx, which needs a model path.
				for _, n := range policy.Names() {
					if n != "onnx" {
						requested = append(requested, n)
					}
				}
			}

			engine := backtest.New()
			results := make([]analysis.Ranked, 0, len(requested))
			for _, name := range requested {
				e, err := env.New(series, env.DefaultConfig())
				if err != nil {
					return err
				}
				pol, err := policy.New(policy.Spec{
					Name:      name,
					Seed:      seed,
					ObsDim:    e.ObservationDim(),
					ActionDim: e.ActionDim(),
				})
				if err != nil {
					return err
				}
				res, err := engine.Run(e, pol, seed)
				if err != nil {
					return err
				}
				results = append(results, analysis.Ranked{Name: name, Metrics: res.Metrics})
			}

			ranked := analysis.RankBySharpe(results)
			fmt.Printf("%-4s %-16s %-10s %-10s %-10s %-10s\n",
				"rank", "policy", "return", "sharpe", "drawdown", "win-rate")
			for i, r := range ranked {
				fmt.Printf("%-4d %-16s %-10.4f %-10.4f %-10.4f %-10.4f\n",
					i+1, r.Name,
					r.Metrics.TotalReturn, r.Metrics.SharpeRatio,
					r.Metrics.MaxDrawdown, r.Metrics.WinRate)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "sample_data.json", "Path to the dataset JSON file")
	cmd.Flags().StringVar(&names, "policies", "", "Comma-separated policy names (default: all baselines)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed shared by all stochastic policies")
	cmd.Flags().IntVar(&limit, "n", 0, "Optional: limit to first N trading days (0=all)")

	return cmd
}

func loadSeries(path string, limit int) (*market.Series, error) {
	ds, err := data.LoadDatasetJSON(path)
	if err != nil {
		return nil, err
	}
	series, err := ds.Series()
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < series.Days() {
		return series.Slice(0, limit)
	}
	return series, nil
}

func splitNames(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
