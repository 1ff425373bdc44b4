package inference

import (
	"image"

	"github.com/nvr-ai/go-iou/inference/providers"
	"github.com/nvr-ai/go-iou/models/postprocess"
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// Session represents a model session from the onnxruntime with its
// preallocated input tensor. Outputs are allocated by onnxruntime on every
// run, so dynamic output dimensions such as the detection count are honoured.
type Session struct {
	Session     *ort.DynamicAdvancedSession
	Input       *ort.Tensor[float32]
	InputName   string
	OutputNames []string
}

// NewSessionArgs represents the arguments for creating a new session.
type NewSessionArgs struct {
	// The path to the ONNX model file.
	ModelPath string
	// The path to the onnxruntime shared library. Empty uses the platform default.
	SharedLibraryPath string
	// The execution provider configuration.
	Provider providers.Config
	// InputSize is the network width and height used when the model leaves
	// its spatial input dimensions dynamic.
	InputSize image.Point
}

// NewSession creates a new ONNX Runtime session.
//
// Order of operations:
//  1. Library path check and environment setup.
//  2. Input/output discovery from the model file.
//  3. Input tensor allocation, with dynamic dimensions resolved by inputShape.
//  4. Session options and execution provider.
//  5. Session creation.
//
// Arguments:
//   - args: The arguments for the session.
//
// Returns:
//   - *Session: The session. The caller must Close it.
//   - error: An error if any step fails. Partially created tensors are released.
func NewSession(args NewSessionArgs) (*Session, error) {
	if err := initEnvironment(args.SharedLibraryPath); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(args.ModelPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading inputs/outputs of %s", args.ModelPath)
	}
	if len(inputs) != 1 {
		return nil, errors.Errorf("expected one model input, got %d", len(inputs))
	}
	if len(outputs) == 0 {
		return nil, errors.New("model has no outputs")
	}

	shape, err := inputShape(inputs[0].Dimensions, args.InputSize)
	if err != nil {
		return nil, errors.Wrapf(err, "input %s", inputs[0].Name)
	}

	s := &Session{InputName: inputs[0].Name}
	s.Input, err = ort.NewEmptyTensor[float32](shape)
	if err != nil {
		return nil, errors.Wrap(err, "error creating input tensor")
	}
	for _, info := range outputs {
		s.OutputNames = append(s.OutputNames, info.Name)
	}

	options, err := providers.NewSessionOptions(args.Provider)
	if err != nil {
		s.Close()
		return nil, err
	}
	defer options.Destroy()

	s.Session, err = ort.NewDynamicAdvancedSession(
		args.ModelPath,
		[]string{s.InputName},
		s.OutputNames,
		options,
	)
	if err != nil {
		s.Close()
		return nil, errors.Wrap(err, "error creating ORT session")
	}

	return s, nil
}

// Run executes the model over the current input tensor contents and returns
// a copy of every output as rows.
func (s *Session) Run() ([]postprocess.Output, error) {
	if s.Session == nil {
		return nil, errors.New("session is closed")
	}

	values := make([]ort.Value, len(s.OutputNames))
	defer func() {
		for _, v := range values {
			if v != nil {
				v.Destroy()
			}
		}
	}()

	if err := s.Session.Run([]ort.Value{s.Input}, values); err != nil {
		return nil, err
	}

	outputs := make([]postprocess.Output, 0, len(values))
	for i, v := range values {
		t, ok := v.(*ort.Tensor[float32])
		if !ok {
			return nil, errors.Errorf("output %s is not a float32 tensor", s.OutputNames[i])
		}
		out, err := OutputFromTensor(t.GetShape(), t.GetData())
		if err != nil {
			return nil, errors.Wrapf(err, "output %s", s.OutputNames[i])
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// InputSize returns the spatial size (width, height) of an NCHW input.
func (s *Session) InputSize() (width, height int) {
	shape := s.Input.GetShape()
	if len(shape) != 4 {
		return 0, 0
	}
	return int(shape[3]), int(shape[2])
}

// Close releases the resources associated with the Session.
//
// Returns:
//   - error: The error from destroying the session, if any.
func (s *Session) Close() error {
	var err error
	if s.Session != nil {
		err = s.Session.Destroy()
		s.Session = nil
	}
	if s.Input != nil {
		s.Input.Destroy()
		s.Input = nil
	}

	if err != nil {
		return errors.Wrap(err, "error destroying ORT session")
	}
	return nil
}

func initEnvironment(libPath string) error {
	if ort.IsInitialized() {
		return nil
	}

	path, err := providers.GetSharedLibPath(libPath)
	if err != nil {
		return err
	}
	ort.SetSharedLibraryPath(path)

	if err := ort.InitializeEnvironment(); err != nil {
		return errors.Wrap(err, "error initializing ORT environment")
	}
	return nil
}

// inputShape resolves an NCHW input declaration to a concrete shape. A
// dynamic batch becomes 1, dynamic channels become 3 and dynamic height or
// width come from size.
func inputShape(dims ort.Shape, size image.Point) (ort.Shape, error) {
	if len(dims) != 4 {
		return nil, errors.Errorf("expected an NCHW input, got %v", dims)
	}

	shape := make(ort.Shape, len(dims))
	copy(shape, dims)
	if shape[0] <= 0 {
		shape[0] = 1
	}
	if shape[1] <= 0 {
		shape[1] = 3
	}
	if shape[2] <= 0 {
		if size.Y <= 0 {
			return nil, errors.Errorf("dynamic input height %v needs a configured size", dims)
		}
		shape[2] = int64(size.Y)
	}
	if shape[3] <= 0 {
		if size.X <= 0 {
			return nil, errors.Errorf("dynamic input width %v needs a configured size", dims)
		}
		shape[3] = int64(size.X)
	}
	return shape, nil
}
