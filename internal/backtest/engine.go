package backtest

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Misakavorst/drl-quant-trading/internal/analysis"
	"github.com/Misakavorst/drl-quant-trading/internal/env"
	"github.com/Misakavorst/drl-quant-trading/internal/policy"
)

// ProgressFunc is called periodically during a rollout with the current
// step, the episode horizon and the portfolio value at that step.
type ProgressFunc func(step, totalSteps int, totalAsset float64)

// progressEvery is how many steps pass between progress callbacks.
const progressEvery = 100

// Engine rolls a policy through an environment and collects the ledger.
type Engine struct {
	log      *zap.Logger
	progress ProgressFunc
}

func New(opts ...Option) *Engine {
	e := &Engine{log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type Option func(*Engine)

// WithLogger attaches a logger for rollout lifecycle events. The environment
// itself never logs.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithProgress attaches a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// Run executes one full episode of pol against environment e, from Reset to
// the terminal step.
func (eng *Engine) Run(e *env.Env, pol policy.Policy, seed int64) (*Result, error) {
	if e == nil {
		return nil, fmt.Errorf("environment is nil")
	}
	if pol == nil {
		return nil, fmt.Errorf("policy is nil")
	}

	obs, _ := e.Reset(seed)
	initial := e.TotalAsset()
	prevValue := initial

	eng.log.Info("rollout started",
		zap.String("policy", pol.Name()),
		zap.Int("max_step", e.MaxStep()),
		zap.Float64("initial_asset", initial),
	)

	ledger := make([]LedgerRow, 0, e.MaxStep())
	returns := make([]float64, 0, e.MaxStep())
	cumReturns := make([]float64, 0, e.MaxStep())
	cumReward := 0.0

	for step := 0; step < e.MaxStep(); step++ {
		action := pol.Decide(policy.Context{
			Step:        step,
			Observation: obs,
			ActionDim:   e.ActionDim(),
		})
		st := e.Step(action)
		obs = st.Observation
		cumReward += st.Reward

		value := e.TotalAsset()
		dailyPct := 0.0
		if prevValue > 0 {
			dailyPct = (value - prevValue) / prevValue * 100
		}
		cumPct := (value - initial) / initial * 100
		prevValue = value

		ledger = append(ledger, LedgerRow{
			Step:                step,
			Cash:                e.Cash(),
			HoldingsValue:       value - e.Cash(),
			TotalAsset:          value,
			Reward:              st.Reward,
			CumReward:           cumReward,
			DailyReturnPct:      dailyPct,
			CumulativeReturnPct: cumPct,
			Terminated:          st.Terminated,
		})
		returns = append(returns, dailyPct)
		cumReturns = append(cumReturns, cumPct)

		if eng.progress != nil && (step+1)%progressEvery == 0 {
			eng.progress(step+1, e.MaxStep(), value)
		}
		if st.Terminated {
			break
		}
	}

	final := e.TotalAsset()
	if eng.progress != nil {
		eng.progress(len(ledger), e.MaxStep(), final)
	}
	eng.log.Info("rollout finished",
		zap.String("policy", pol.Name()),
		zap.Int("steps", len(ledger)),
		zap.Float64("final_asset", final),
	)

	return &Result{
		Policy:            pol.Name(),
		Ledger:            ledger,
		InitialAsset:      initial,
		FinalAsset:        final,
		TotalReward:       cumReward,
		Returns:           returns,
		CumulativeReturns: cumReturns,
		Metrics:           analysis.Compute(returns),
	}, nil
}
