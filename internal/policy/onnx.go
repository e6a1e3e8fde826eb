package policy

import (
	"fmt"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var ortInit sync.Once

func initializeORT() error {
	var err error
	ortInit.Do(func() {
		libPath := "/usr/lib/libonnxruntime.so"
		switch runtime.GOOS {
		case "windows":
			libPath = "onnxruntime.dll"
		case "darwin":
			libPath = "libonnxruntime.dylib"
		}
		ort.SetSharedLibraryPath(libPath)
		err = ort.InitializeEnvironment()
	})
	return err
}

// Onnx runs predict-style inference against an exported actor network. The
// model is opaque to the simulation core: it maps one observation vector to
// one action vector, nothing more.
type Onnx struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	obsDim  int
	actDim  int
}

// NewOnnx loads a model expecting a (1, obsDim) float32 input named "obs"
// and producing a (1, actionDim) output named "action".
func NewOnnx(modelPath string, obsDim, actionDim int) (*Onnx, error) {
	if err := initializeORT(); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}

	input, err := ort.NewTensor(ort.NewShape(1, int64(obsDim)), make([]float32, obsDim))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(actionDim)))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"obs"}, []string{"action"},
		[]ort.Value{input}, []ort.Value{output}, nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &Onnx{
		session: session,
		input:   input,
		output:  output,
		obsDim:  obsDim,
		actDim:  actionDim,
	}, nil
}

func (o *Onnx) Name() string { return "onnx" }

// Predict runs one inference pass.
func (o *Onnx) Predict(obs []float64) ([]float64, error) {
	if len(obs) != o.obsDim {
		return nil, fmt.Errorf("observation length %d, model expects %d", len(obs), o.obsDim)
	}
	in := o.input.GetData()
	for i, v := range obs {
		in[i] = float32(v)
	}
	if err := o.session.Run(); err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}
	out := o.output.GetData()
	action := make([]float64, o.actDim)
	for i := range action {
		action[i] = clamp1(float64(out[i]))
	}
	return action, nil
}

// Decide satisfies Policy. Inference failure degrades to the neutral hold
// action rather than aborting the rollout.
func (o *Onnx) Decide(ctx Context) []float64 {
	action, err := o.Predict(ctx.Observation)
	if err != nil {
		return make([]float64, ctx.ActionDim)
	}
	return action
}

func (o *Onnx) Close() {
	if o.session != nil {
		o.session.Destroy()
	}
	if o.input != nil {
		o.input.Destroy()
	}
	if o.output != nil {
		o.output.Destroy()
	}
}

func clamp1(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
