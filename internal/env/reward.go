package env

// rewardTracker accumulates the scaled per-step rewards of one episode and
// derives the terminal bonus from them.
type rewardTracker struct {
	scale   float64
	gamma   float64
	rewards []float64
}

func newRewardTracker(scale, gamma float64) *rewardTracker {
	return &rewardTracker{scale: scale, gamma: gamma}
}

func (r *rewardTracker) reset() {
	r.rewards = r.rewards[:0]
}

// step records and returns the reward for one day: the change in total asset
// value, scaled.
func (r *rewardTracker) step(assetBefore, assetAfter float64) float64 {
	reward := (assetAfter - assetBefore) * r.scale
	r.rewards = append(r.rewards, reward)
	return reward
}

// terminalBonus converts the finite-horizon mean step reward into an
// estimate of its infinite-horizon discounted equivalent, mean/(1-gamma),
// compensating value-based learners for the artificial episode cutoff.
// An empty episode yields 0.
func (r *rewardTracker) terminalBonus() float64 {
	if len(r.rewards) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range r.rewards {
		sum += v
	}
	mean := sum / float64(len(r.rewards))
	return mean / (1 - r.gamma)
}
