package policy

import "math/rand"

// BuyAndHold goes all-in on every asset on the first day and holds.
type BuyAndHold struct{}

func (BuyAndHold) Name() string { return "buy-and-hold" }

func (BuyAndHold) Decide(ctx Context) []float64 {
	action := make([]float64, ctx.ActionDim)
	if ctx.Step == 0 {
		for i := range action {
			action[i] = 1
		}
	}
	return action
}

// Hold never trades.
type Hold struct{}

func (Hold) Name() string { return "hold" }

func (Hold) Decide(ctx Context) []float64 {
	return make([]float64, ctx.ActionDim)
}

// Uniform emits seeded uniform noise in [-Scale, Scale]. The classic
// baselines are scale presets: random (1.0), moving-average (0.5),
// equal-weight (0.3). They measure how much a learned policy beats
// undirected trading at different intensities.
type Uniform struct {
	name  string
	scale float64
	rng   *rand.Rand
}

func NewRandom(seed int64) *Uniform {
	return &Uniform{name: "random", scale: 1.0, rng: rand.New(rand.NewSource(seed))}
}

func NewMovingAverage(seed int64) *Uniform {
	return &Uniform{name: "moving-average", scale: 0.5, rng: rand.New(rand.NewSource(seed))}
}

func NewEqualWeight(seed int64) *Uniform {
	return &Uniform{name: "equal-weight", scale: 0.3, rng: rand.New(rand.NewSource(seed))}
}

func (u *Uniform) Name() string { return u.name }

func (u *Uniform) Decide(ctx Context) []float64 {
	action := make([]float64, ctx.ActionDim)
	for i := range action {
		action[i] = (u.rng.Float64()*2 - 1) * u.scale
	}
	return action
}
