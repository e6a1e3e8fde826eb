package env

import (
	"math"
	"testing"
)

func TestDiscreteLevelTables(t *testing.T) {
	cases := []struct {
		levels int
		want   []float64
	}{
		{3, []float64{-1, 0, 1}},
		{5, []float64{-1, -0.5, 0, 0.5, 1}},
		{7, []float64{-1, -0.67, -0.33, 0, 0.33, 0.67, 1}},
		{4, []float64{-1, -1.0 / 3, 1.0 / 3, 1}},
	}
	for _, c := range cases {
		got := levelTable(c.levels)
		if len(got) != len(c.want) {
			t.Fatalf("levels=%d: got %d entries", c.levels, len(got))
		}
		for i := range got {
			if math.Abs(got[i]-c.want[i]) > 1e-12 {
				t.Errorf("levels=%d[%d] = %v, want %v", c.levels, i, got[i], c.want[i])
			}
		}
	}
}

func TestDiscreteDecode(t *testing.T) {
	s := flatSeries(t, 5, 2, 100)
	e := newEnv(t, s, Config{})
	d, err := NewDiscrete(e, 3)
	if err != nil {
		t.Fatalf("NewDiscrete: %v", err)
	}

	if d.ActionSpace().N != 9 {
		t.Fatalf("action space size = %d, want 9", d.ActionSpace().N)
	}

	// Asset 0 lives in the least significant digit: index 5 = 1*3 + 2
	// decodes to levels [2, 1] = [+1, 0].
	got := d.Decode(5)
	want := []float64{1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Decode(5) = %v, want %v", got, want)
		}
	}

	// Every index decodes to a distinct vector within [-1, 1].
	seen := map[[2]float64]bool{}
	for idx := 0; idx < d.ActionSpace().N; idx++ {
		v := d.Decode(idx)
		key := [2]float64{v[0], v[1]}
		if seen[key] {
			t.Fatalf("duplicate decode for index %d: %v", idx, v)
		}
		seen[key] = true
	}
}

func TestDiscreteStepMatchesContinuous(t *testing.T) {
	s := priceSeries(t, 8, 2, func(day, asset int) float64 {
		return 100 + float64(day*(asset+1))
	})

	cont := newEnv(t, s, Config{})
	disc, err := NewDiscrete(newEnv(t, s, Config{}), 3)
	if err != nil {
		t.Fatalf("NewDiscrete: %v", err)
	}

	cont.Reset(0)
	disc.Reset(0)

	// Index 8 = [+1, +1] in base 3.
	indices := []int{8, 0, 4, 8}
	for _, idx := range indices {
		sc := cont.Step(disc.Decode(idx))
		sd := disc.Step(idx)
		if sc.Reward != sd.Reward {
			t.Fatalf("index %d: reward %v vs %v", idx, sc.Reward, sd.Reward)
		}
		for j := range sc.Observation {
			if sc.Observation[j] != sd.Observation[j] {
				t.Fatalf("index %d: observation[%d] differs", idx, j)
			}
		}
	}
}

func TestDiscreteConstructionErrors(t *testing.T) {
	s := flatSeries(t, 5, 2, 100)
	e := newEnv(t, s, Config{})
	if _, err := NewDiscrete(e, 0); err == nil {
		t.Fatal("expected error for zero levels")
	}
	if _, err := NewDiscrete(e, -3); err == nil {
		t.Fatal("expected error for negative levels")
	}
}
