package env

import (
	"fmt"
)

// DiscreteEnv adapts an Env's continuous per-asset action space into a
// single discrete index in [0, L^N), for value-based learners that cannot
// emit action vectors.
//
// Each index is read as an N-digit base-L number; digit i selects the level
// for asset i (asset 0 in the least significant digit). The full index →
// action-vector table is precomputed at construction and is the adapter's
// only state beyond the wrapped environment.
type DiscreteEnv struct {
	inner  *Env
	levels []float64
	table  [][]float64
}

// maxDiscreteActions caps the lookup table size; L^N grows fast with the
// asset count.
const maxDiscreteActions = 1 << 22

// NewDiscrete wraps env with levelsPerAsset discretization levels. 3, 5 and
// 7 levels use the conventional hand-picked tables; any other count splits
// [-1, 1] linearly.
func NewDiscrete(env *Env, levelsPerAsset int) (*DiscreteEnv, error) {
	if levelsPerAsset <= 0 {
		return nil, fmt.Errorf("levels per asset must be positive, got %d", levelsPerAsset)
	}
	levels := levelTable(levelsPerAsset)

	n := env.ActionDim()
	total := 1
	for i := 0; i < n; i++ {
		total *= levelsPerAsset
		if total > maxDiscreteActions {
			return nil, fmt.Errorf("%d levels over %d assets exceeds %d discrete actions", levelsPerAsset, n, maxDiscreteActions)
		}
	}

	table := make([][]float64, total)
	for idx := 0; idx < total; idx++ {
		vec := make([]float64, n)
		rem := idx
		for asset := 0; asset < n; asset++ {
			vec[asset] = levels[rem%levelsPerAsset]
			rem /= levelsPerAsset
		}
		table[idx] = vec
	}

	return &DiscreteEnv{inner: env, levels: levels, table: table}, nil
}

func levelTable(n int) []float64 {
	switch n {
	case 3:
		return []float64{-1, 0, 1}
	case 5:
		return []float64{-1, -0.5, 0, 0.5, 1}
	case 7:
		return []float64{-1, -0.67, -0.33, 0, 0.33, 0.67, 1}
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = -1
		return out
	}
	for i := range out {
		out[i] = -1 + 2*float64(i)/float64(n-1)
	}
	return out
}

// Reset resets the wrapped environment.
func (d *DiscreteEnv) Reset(seed int64) ([]float64, Info) {
	return d.inner.Reset(seed)
}

// Step decodes the index into its continuous action vector and forwards it
// unchanged.
func (d *DiscreteEnv) Step(index int) Step {
	if index < 0 || index >= len(d.table) {
		panic(fmt.Sprintf("discrete action %d out of range [0, %d)", index, len(d.table)))
	}
	return d.inner.Step(d.table[index])
}

// Levels returns the continuous value table for one asset's digit.
func (d *DiscreteEnv) Levels() []float64 { return d.levels }

// Decode returns the continuous action vector an index maps to.
func (d *DiscreteEnv) Decode(index int) []float64 { return d.table[index] }

func (d *DiscreteEnv) ObservationSpace() Box { return d.inner.ObservationSpace() }

// ActionSpace is the flattened discrete space {0, ..., L^N - 1}.
func (d *DiscreteEnv) ActionSpace() Discrete { return Discrete{N: len(d.table)} }

func (d *DiscreteEnv) TotalAsset() float64 { return d.inner.TotalAsset() }

func (d *DiscreteEnv) MaxStep() int { return d.inner.MaxStep() }
