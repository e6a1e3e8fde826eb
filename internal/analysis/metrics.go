package analysis

import "math"

// tradingDaysPerYear annualizes the Sharpe ratio from daily returns.
const tradingDaysPerYear = 252

// Metrics summarizes one rollout's performance from its daily percentage
// returns.
type Metrics struct {
	// TotalReturn is the compounded return over the whole period, as a
	// fraction (0.10 = +10%).
	TotalReturn float64 `json:"totalReturn"`
	// SharpeRatio is annualized over 252 trading days at a 0% risk-free
	// rate.
	SharpeRatio float64 `json:"sharpeRatio"`
	// MaxDrawdown is the worst peak-to-trough loss, in percent (negative).
	MaxDrawdown float64 `json:"maxDrawdown"`
	// Volatility is the standard deviation of daily returns, as a
	// fraction.
	Volatility float64 `json:"volatility"`
	// WinRate is the fraction of days with positive return.
	WinRate float64 `json:"winRate"`
}

// Compute derives the performance metrics from daily returns expressed in
// percent (1.5 = +1.5% on the day).
func Compute(returns []float64) Metrics {
	if len(returns) == 0 {
		return Metrics{}
	}

	total := 1.0
	wins := 0
	for _, r := range returns {
		total *= 1 + r/100
		if r > 0 {
			wins++
		}
	}

	mean := meanOf(returns)
	std := stdOf(returns, mean)

	// Max drawdown over the cumulative growth curve.
	cum := 1.0
	runningMax := math.Inf(-1)
	maxDrawdown := 0.0
	for _, r := range returns {
		cum *= 1 + r/100
		if cum > runningMax {
			runningMax = cum
		}
		dd := (cum - runningMax) / runningMax
		if dd < maxDrawdown {
			maxDrawdown = dd
		}
	}

	return Metrics{
		TotalReturn: total - 1,
		SharpeRatio: mean / (std + 1e-9) * math.Sqrt(tradingDaysPerYear),
		MaxDrawdown: maxDrawdown * 100,
		Volatility:  std / 100,
		WinRate:     float64(wins) / float64(len(returns)),
	}
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdOf(xs []float64, mean float64) float64 {
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}
