package policy

import "fmt"

// Spec names a policy plus the parameters needed to build it.
type Spec struct {
	Name string
	// Seed drives the stochastic baselines; deterministic policies ignore
	// it.
	Seed int64
	// ModelPath locates the exported network for the onnx policy.
	ModelPath string
	// ObsDim and ActionDim size the onnx model's tensors.
	ObsDim    int
	ActionDim int
}

// Names lists the built-in policies in registry order.
func Names() []string {
	return []string{"buy-and-hold", "hold", "random", "moving-average", "equal-weight", "onnx"}
}

// New builds a policy from its spec. Unknown names are construction errors.
func New(spec Spec) (Policy, error) {
	switch spec.Name {
	case "buy-and-hold":
		return BuyAndHold{}, nil
	case "hold":
		return Hold{}, nil
	case "random":
		return NewRandom(spec.Seed), nil
	case "moving-average":
		return NewMovingAverage(spec.Seed), nil
	case "equal-weight":
		return NewEqualWeight(spec.Seed), nil
	case "onnx":
		if spec.ModelPath == "" {
			return nil, fmt.Errorf("onnx policy requires a model path")
		}
		return NewOnnx(spec.ModelPath, spec.ObsDim, spec.ActionDim)
	default:
		return nil, fmt.Errorf("unknown policy %q", spec.Name)
	}
}
