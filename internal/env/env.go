package env

import (
	"fmt"
	"math"

	"github.com/Misakavorst/drl-quant-trading/internal/market"
	"github.com/Misakavorst/drl-quant-trading/internal/portfolio"
)

// Info carries auxiliary step/reset data, mirroring the info dict of the
// usual RL environment contract.
type Info map[string]any

// Box is a continuous space with uniform bounds across all dimensions.
type Box struct {
	Low  float64
	High float64
	Dim  int
}

// Discrete is an integer space {0, ..., N-1}.
type Discrete struct {
	N int
}

// Step is the outcome of advancing the environment by one day.
type Step struct {
	Observation []float64
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        Info
}

// Environment is the capability set a learning algorithm or backtester needs
// from an environment with a continuous per-asset action space.
type Environment interface {
	Reset(seed int64) ([]float64, Info)
	Step(action []float64) Step
	ObservationSpace() Box
	ActionSpace() Box
	TotalAsset() float64
	MaxStep() int
}

// Env simulates a multi-asset trading portfolio as a sequential decision
// process over a daily market series. One instance owns one contiguous slice
// of the series (a train or test split), its own portfolio ledger and day
// cursor.
//
// Env is single-threaded: Reset and Step complete synchronously and the
// instance must not be shared across concurrent rollouts. The underlying
// market series is read-only and may be shared freely.
type Env struct {
	series *market.Series
	cfg    Config

	port    *portfolio.Portfolio
	encoder Encoder
	exec    Executor
	rewards *rewardTracker

	day        int
	maxStep    int
	prevPrices []float64

	// cumulativeReturn is final asset / initial amount, set on the terminal
	// step of each episode.
	cumulativeReturn float64
}

var _ Environment = (*Env)(nil)

// New constructs an environment over the configured slice of the series.
// All configuration errors are reported here, before any episode runs.
func New(series *market.Series, cfg Config) (*Env, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sliced, err := series.Slice(cfg.BeginIndex, cfg.EndIndex)
	if err != nil {
		return nil, err
	}
	if sliced.Days() < 2 {
		return nil, fmt.Errorf("series slice has %d days, need at least 2", sliced.Days())
	}
	encoder, err := NewEncoder(cfg.Encoder, cfg.InitialAmount)
	if err != nil {
		return nil, err
	}
	exec, err := NewExecutor(cfg)
	if err != nil {
		return nil, err
	}

	e := &Env{
		series:  sliced,
		cfg:     cfg,
		port:    portfolio.New(cfg.InitialAmount, sliced.Assets()),
		encoder: encoder,
		exec:    exec,
		rewards: newRewardTracker(cfg.RewardScale, cfg.Gamma),
		maxStep: sliced.Days() - 1,
	}
	e.prevPrices = make([]float64, sliced.Assets())
	return e, nil
}

// Reset starts a fresh episode: all-cash portfolio, day cursor at 0, reward
// history cleared. The environment itself is deterministic; seed exists for
// interface compatibility with stochastic callers and is ignored.
func (e *Env) Reset(seed int64) ([]float64, Info) {
	_ = seed
	e.day = 0
	e.port.Reset(e.cfg.InitialAmount)
	e.port.Recompute(e.series.Prices(0))
	e.rewards.reset()
	copy(e.prevPrices, e.series.Prices(0))
	return e.encoder.Encode(e.port, e.series, 0, e.prevPrices), nil
}

// Step advances the day cursor by one, executes the action against that
// day's close prices and returns the resulting observation and reward.
//
// Episodes terminate exactly when the day cursor reaches maxStep (the last
// day of the slice); Truncated is always false. Stepping past the data
// horizon is treated as an absorbing terminal transition, not an error.
// Calling Step after termination without Reset is undefined by contract.
func (e *Env) Step(action []float64) Step {
	if len(action) != e.series.Assets() {
		panic(fmt.Sprintf("action length %d, want %d assets", len(action), e.series.Assets()))
	}
	e.day++

	// Horizon guard: past the end of the data there is nothing to trade.
	if e.day >= e.series.Days() {
		return Step{
			Observation: e.encoder.Encode(e.port, e.series, e.day, e.prevPrices),
			Reward:      e.rewards.terminalBonus(),
			Terminated:  true,
		}
	}

	copy(e.prevPrices, e.series.Prices(e.day-1))

	assetBefore := e.port.TotalAsset
	e.exec.Apply(e.port, e.series, e.day, action)
	e.port.Recompute(e.series.Prices(e.day))
	reward := e.rewards.step(assetBefore, e.port.TotalAsset)

	terminated := e.day >= e.maxStep
	if terminated {
		reward += e.rewards.terminalBonus()
		e.cumulativeReturn = e.port.TotalAsset / e.cfg.InitialAmount
	}

	return Step{
		Observation: e.encoder.Encode(e.port, e.series, e.day, e.prevPrices),
		Reward:      reward,
		Terminated:  terminated,
	}
}

// TotalAsset returns cash plus holdings valued at the current day's close
// prices (clamped to the last day past the horizon).
func (e *Env) TotalAsset() float64 {
	day := clampDay(e.day, e.series.Days())
	return e.port.Cash + e.port.HoldingsValue(e.series.Prices(day))
}

// CumulativeReturn is final asset over initial amount for the last completed
// episode, 0 before any episode has terminated.
func (e *Env) CumulativeReturn() float64 { return e.cumulativeReturn }

// Cash returns the current cash balance.
func (e *Env) Cash() float64 { return e.port.Cash }

// Shares returns a copy of the current per-asset share counts.
func (e *Env) Shares() []float64 {
	return append([]float64(nil), e.port.Shares...)
}

// Day returns the current day cursor.
func (e *Env) Day() int { return e.day }

// MaxStep is the episode horizon: the number of Step calls until
// termination.
func (e *Env) MaxStep() int { return e.maxStep }

// ObservationDim is the declared state dimension.
func (e *Env) ObservationDim() int { return e.encoder.Dim(e.series.Assets()) }

// ActionDim is the number of assets, one continuous action component each.
func (e *Env) ActionDim() int { return e.series.Assets() }

// ObservationSpace declares unbounded observation limits; in practice every
// component passes through tanh and lies in [-1, 1].
func (e *Env) ObservationSpace() Box {
	return Box{Low: math.Inf(-1), High: math.Inf(1), Dim: e.ObservationDim()}
}

// ActionSpace is [-1, 1] per asset.
func (e *Env) ActionSpace() Box {
	return Box{Low: -1, High: 1, Dim: e.ActionDim()}
}
