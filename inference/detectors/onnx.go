package detectors

import (
	"context"
	"image"

	"github.com/nvr-ai/go-iou/inference"
	"github.com/nvr-ai/go-iou/models/postprocess"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// ONNX runs an exported YOLO model through onnxruntime.
type ONNX struct {
	session    *inference.Session
	inputShape image.Point
	log        *zap.Logger
}

// NewONNX creates the onnxruntime session for cfg.WeightsFile.
//
// When the model declares a static NCHW input its spatial size wins over
// cfg.InputShape; dynamic height and width take cfg.InputShape.
//
// Arguments:
//   - cfg: The detector configuration.
//   - log: The logger.
//
// Returns:
//   - *ONNX: The engine. The caller must Close it.
//   - error: An error if the session cannot be created.
func NewONNX(cfg Config, log *zap.Logger) (*ONNX, error) {
	session, err := inference.NewSession(inference.NewSessionArgs{
		ModelPath:         cfg.WeightsFile,
		SharedLibraryPath: cfg.SharedLibraryPath,
		Provider:          cfg.Provider,
		InputSize:         cfg.InputShape,
	})
	if err != nil {
		return nil, err
	}

	w, h := session.InputSize()
	shape := image.Point{X: w, Y: h}
	if shape != cfg.InputShape {
		log.Warn("model input size overrides configured size",
			zap.Int("width", w), zap.Int("height", h))
	}

	log.Info("onnx session created",
		zap.String("model", cfg.WeightsFile),
		zap.String("provider", string(cfg.Provider.Backend)),
		zap.Strings("outputs", session.OutputNames),
	)

	return &ONNX{session: session, inputShape: shape, log: log}, nil
}

// Infer runs one forward pass over img.
func (o *ONNX) Infer(ctx context.Context, img gocv.Mat) ([]postprocess.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img.Empty() {
		return nil, errors.New("empty image")
	}

	rgb, err := img.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert image")
	}

	if err := inference.PrepareInput(rgb, o.inputShape, o.session.Input.GetData()); err != nil {
		return nil, errors.Wrap(err, "failed to prepare input")
	}

	outputs, err := o.session.Run()
	if err != nil {
		return nil, errors.Wrap(err, "failed to run inference")
	}
	return outputs, nil
}

// Close releases the session.
func (o *ONNX) Close() error {
	return o.session.Close()
}
