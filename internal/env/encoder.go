package env

import (
	"fmt"
	"math"

	"github.com/Misakavorst/drl-quant-trading/internal/market"
	"github.com/Misakavorst/drl-quant-trading/internal/portfolio"
)

const priceEps = 1e-8

// Encoder maps the current portfolio and market day to a fixed-length
// observation vector. Implementations are pure: no mutation, deterministic,
// and every component bounded to [-1, 1] via tanh.
//
// Division by a non-positive denominator (total asset, previous price, total
// shares) yields 0 for that term; the encoder never fails on degenerate
// portfolio states such as the one right after reset.
type Encoder interface {
	// Dim is the observation length for a given asset count.
	Dim(assets int) int
	// Encode builds the observation for the given day. prevPrices is the
	// prior day's close-price row, used for daily returns.
	Encode(p *portfolio.Portfolio, s *market.Series, day int, prevPrices []float64) []float64
}

// NewEncoder constructs the encoder variant named by kind.
func NewEncoder(kind EncoderKind, initialAmount float64) (Encoder, error) {
	switch kind {
	case EncoderCompact:
		return &compactEncoder{initialAmount: initialAmount}, nil
	case EncoderExtended:
		return &extendedEncoder{initialAmount: initialAmount}, nil
	default:
		return nil, fmt.Errorf("unknown encoder %q", kind)
	}
}

// compactEncoder produces 2 financial features plus 4 per asset:
// position ratio, daily return (x10), normalized RSI, normalized MACD.
type compactEncoder struct {
	initialAmount float64
}

func (e *compactEncoder) Dim(assets int) int { return 2 + assets*4 }

func (e *compactEncoder) Encode(p *portfolio.Portfolio, s *market.Series, day int, prevPrices []float64) []float64 {
	dayIdx := clampDay(day, s.Days())
	prices := s.Prices(dayIdx)

	obs := make([]float64, 0, e.Dim(s.Assets()))
	obs = appendFinancial(obs, p, e.initialAmount)

	for i := 0; i < s.Assets(); i++ {
		obs = append(obs,
			math.Tanh(positionRatio(p, prices, i)),
			math.Tanh(priceReturn(prices[i], prevPrices[i])*10),
			rsiNorm(s, dayIdx, i),
			macdNorm(s, dayIdx, i, prices[i]),
		)
	}
	assertDim(len(obs), e.Dim(s.Assets()))
	return obs
}

// extendedEncoder produces 2 financial features plus 6 per asset: share-count
// ratio, position ratio, daily return (x10), 5-day return (x5), normalized
// RSI, normalized MACD.
type extendedEncoder struct {
	initialAmount float64
}

func (e *extendedEncoder) Dim(assets int) int { return 2 + assets*6 }

func (e *extendedEncoder) Encode(p *portfolio.Portfolio, s *market.Series, day int, prevPrices []float64) []float64 {
	dayIdx := clampDay(day, s.Days())
	prices := s.Prices(dayIdx)

	totalShares := 0.0
	for _, n := range p.Shares {
		totalShares += n
	}

	obs := make([]float64, 0, e.Dim(s.Assets()))
	obs = appendFinancial(obs, p, e.initialAmount)

	for i := 0; i < s.Assets(); i++ {
		shareRatio := 0.0
		if totalShares > 0 {
			shareRatio = p.Shares[i] / totalShares
		}

		// 5-day return, shortened near the start of the series. A zero
		// lookback on day 0 yields a neutral 0.
		weekly := 0.0
		if lookback := min5(dayIdx); lookback > 0 {
			weekly = priceReturn(prices[i], s.Price(dayIdx-lookback, i))
		}

		obs = append(obs,
			math.Tanh(shareRatio),
			math.Tanh(positionRatio(p, prices, i)),
			math.Tanh(priceReturn(prices[i], prevPrices[i])*10),
			math.Tanh(weekly*5),
			rsiNorm(s, dayIdx, i),
			macdNorm(s, dayIdx, i, prices[i]),
		)
	}
	assertDim(len(obs), e.Dim(s.Assets()))
	return obs
}

// appendFinancial appends the 2-value financial block shared by both
// variants: centered cash ratio and total portfolio return.
func appendFinancial(obs []float64, p *portfolio.Portfolio, initialAmount float64) []float64 {
	cashRatio := 0.0
	if p.TotalAsset > 0 {
		cashRatio = p.Cash / p.TotalAsset
	}
	portfolioReturn := (p.TotalAsset - initialAmount) / initialAmount
	return append(obs, math.Tanh(cashRatio-0.5), math.Tanh(portfolioReturn))
}

func positionRatio(p *portfolio.Portfolio, prices []float64, asset int) float64 {
	if p.TotalAsset <= 0 {
		return 0
	}
	return p.Shares[asset] * prices[asset] / p.TotalAsset
}

// priceReturn is (cur - past) / past, neutral 0 when past is non-positive.
func priceReturn(cur, past float64) float64 {
	if past <= 0 {
		return 0
	}
	return (cur - past) / past
}

// rsiNorm recentres RSI around its neutral 50 before the tanh bound.
func rsiNorm(s *market.Series, day, asset int) float64 {
	return math.Tanh((s.Indicator(day, asset, market.FieldRSI) - 50) / 50)
}

// macdNorm normalizes MACD by the asset's own price level so assets with
// very different prices produce comparable features.
func macdNorm(s *market.Series, day, asset int, price float64) float64 {
	return math.Tanh(s.Indicator(day, asset, market.FieldMACD) / (price + priceEps))
}

func clampDay(day, days int) int {
	if day >= days {
		return days - 1
	}
	return day
}

func min5(day int) int {
	if day < 5 {
		return day
	}
	return 5
}

// assertDim is the dimension invariant: a mismatch between the produced
// observation and the declared state dimension is an internal-consistency
// bug, not a recoverable condition.
func assertDim(got, want int) {
	if got != want {
		panic(fmt.Sprintf("observation length %d, declared dimension %d", got, want))
	}
}
