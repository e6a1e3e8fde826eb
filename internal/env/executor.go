package env

import (
	"fmt"
	"math"

	"github.com/Misakavorst/drl-quant-trading/internal/market"
	"github.com/Misakavorst/drl-quant-trading/internal/portfolio"
)

// deadZone suppresses near-zero action components in the delta-shares
// policy, preventing churn from noisy signals.
const deadZone = 0.1

// Executor turns one action vector into simulated orders against the
// portfolio at the given day's close prices. Trades are evaluated
// asset-by-asset in index order within the day; no cross-asset netting.
// A trade that would push cash or a share count below zero is clamped to the
// maximum feasible size, never rejected.
type Executor interface {
	Apply(p *portfolio.Portfolio, s *market.Series, day int, action []float64)
}

// NewExecutor constructs the execution policy named by the config.
func NewExecutor(cfg Config) (Executor, error) {
	switch cfg.Execution {
	case ExecutionDeltaShares:
		return &deltaSharesExecutor{
			maxShares: float64(cfg.MaxSharesPerTrade),
			cost:      cfg.CostFraction,
		}, nil
	case ExecutionTargetWeight:
		return &targetWeightExecutor{
			cost:       cfg.CostFraction,
			investable: cfg.InvestableFraction,
			cashUtil:   cfg.CashUtilization,
		}, nil
	default:
		return nil, fmt.Errorf("unknown execution policy %q", cfg.Execution)
	}
}

// deltaSharesExecutor reads each action component in [-1,1] as a signed
// share delta: filtered through the dead zone, scaled by the per-trade share
// cap and truncated toward zero to whole shares.
type deltaSharesExecutor struct {
	maxShares float64
	cost      float64
}

func (e *deltaSharesExecutor) Apply(p *portfolio.Portfolio, s *market.Series, day int, action []float64) {
	prices := s.Prices(day)
	for i := 0; i < s.Assets(); i++ {
		a := action[i]
		if a > -deadZone && a < deadZone {
			a = 0
		}
		delta := math.Trunc(a * e.maxShares)
		price := prices[i]
		if price <= 0 {
			continue
		}

		if delta > 0 {
			// Buy, capped by what cash can cover at the raw price.
			n := math.Min(math.Floor(p.Cash/price), delta)
			if n > 0 {
				p.Cash -= price * n * (1 + e.cost)
				p.Shares[i] += n
			}
		} else if p.Shares[i] > 0 {
			// Sell, capped at the current position.
			n := math.Min(-delta, p.Shares[i])
			if n > 0 {
				p.Cash += price * n * (1 - e.cost)
				p.Shares[i] -= n
			}
		}
	}
}

// targetWeightExecutor softmaxes the action into target portfolio weights,
// distributes an investable fraction of total asset value across them and
// trades the signed difference between target and current holding values.
type targetWeightExecutor struct {
	cost       float64
	investable float64
	cashUtil   float64
}

func (e *targetWeightExecutor) Apply(p *portfolio.Portfolio, s *market.Series, day int, action []float64) {
	prices := s.Prices(day)
	weights := softmax(action)
	investableAmount := p.TotalAsset * e.investable

	for i := 0; i < s.Assets(); i++ {
		price := prices[i]
		if price <= 0 {
			continue
		}
		targetValue := investableAmount * weights[i]
		currentValue := price * p.Shares[i]
		diff := targetValue - currentValue

		if diff > 0 {
			// Buy toward the target, spending at most the cash
			// utilization cap. Cost is folded into the share count so
			// the debit never exceeds the cap.
			buyValue := math.Min(p.Cash*e.cashUtil, diff)
			n := math.Floor(buyValue / (price * (1 + e.cost)))
			if n > 0 {
				p.Cash -= price * n * (1 + e.cost)
				p.Shares[i] += n
			}
		} else if diff < 0 && p.Shares[i] > 0 {
			n := math.Floor(math.Min(-diff/price, p.Shares[i]))
			if n > 0 {
				p.Cash += price * n * (1 - e.cost)
				p.Shares[i] -= n
			}
		}
	}
}

// softmax with the max subtracted before exponentiating for numerical
// stability. The result sums to 1.
func softmax(x []float64) []float64 {
	maxV := math.Inf(-1)
	for _, v := range x {
		if v > maxV {
			maxV = v
		}
	}
	out := make([]float64, len(x))
	sum := 0.0
	for i, v := range x {
		out[i] = math.Exp(v - maxV)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
