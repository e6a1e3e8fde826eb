package portfolio

// Portfolio is the mutable ledger of one episode: cash plus whole-unit share
// counts per asset, and the total asset value derived from them.
//
// It is mutated only by the environment's execution step; everything else
// reads it. Invariant: Cash >= 0 and Shares[i] >= 0 at all times (trade sizes
// are clamped, never rejected).
type Portfolio struct {
	Cash       float64
	Shares     []float64
	TotalAsset float64
}

// New creates a flat portfolio holding only cash.
func New(cash float64, assets int) *Portfolio {
	return &Portfolio{
		Cash:       cash,
		Shares:     make([]float64, assets),
		TotalAsset: cash,
	}
}

// Reset returns the portfolio to its initial all-cash state in place.
func (p *Portfolio) Reset(cash float64) {
	p.Cash = cash
	for i := range p.Shares {
		p.Shares[i] = 0
	}
	p.TotalAsset = cash
}

// HoldingsValue returns the market value of the share positions at the given
// close prices.
func (p *Portfolio) HoldingsValue(prices []float64) float64 {
	v := 0.0
	for i, n := range p.Shares {
		v += n * prices[i]
	}
	return v
}

// Recompute refreshes TotalAsset from cash plus holdings at the given prices.
// Call after every mutation.
func (p *Portfolio) Recompute(prices []float64) {
	p.TotalAsset = p.Cash + p.HoldingsValue(prices)
}
