package policy

// Context is what a policy sees when deciding one day's action.
type Context struct {
	// Step counts decisions within the episode, starting at 0.
	Step int
	// Observation is the environment's encoded state vector.
	Observation []float64
	// ActionDim is the number of assets; Decide must return a vector of
	// this length with components in [-1, 1].
	ActionDim int
}

// Policy produces one continuous action vector per day. Implementations that
// use randomness must be seeded at construction so rollouts are
// reproducible.
type Policy interface {
	Name() string
	Decide(ctx Context) []float64
}
