package detectors

import (
	"context"
	"image"

	"github.com/nvr-ai/go-iou/models/postprocess"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// DNN runs a darknet network through the OpenCV DNN module.
type DNN struct {
	net         gocv.Net
	outputNames []string
	inputShape  image.Point
	log         *zap.Logger
}

// NewDNN loads a darknet cfg/weights pair and resolves its output layers.
//
// Arguments:
//   - cfg: The detector configuration.
//   - log: The logger.
//
// Returns:
//   - *DNN: The engine. The caller must Close it.
//   - error: An error if the network cannot be loaded.
func NewDNN(cfg Config, log *zap.Logger) (*DNN, error) {
	net := gocv.ReadNet(cfg.WeightsFile, cfg.CfgFile)
	if net.Empty() {
		net.Close()
		return nil, errors.Errorf("failed to load network from %s and %s", cfg.WeightsFile, cfg.CfgFile)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendOpenCV); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "failed to set preferable backend")
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "failed to set preferable target")
	}

	names := outputLayerNames(net.GetLayerNames(), net.GetUnconnectedOutLayers())
	if len(names) == 0 {
		net.Close()
		return nil, errors.New("network has no output layers")
	}

	log.Info("dnn network loaded",
		zap.String("weights", cfg.WeightsFile),
		zap.String("cfg", cfg.CfgFile),
		zap.Strings("outputs", names),
	)

	return &DNN{
		net:         net,
		outputNames: names,
		inputShape:  cfg.InputShape,
		log:         log,
	}, nil
}

// outputLayerNames maps the 1-based unconnected layer ids to layer names.
func outputLayerNames(layers []string, unconnected []int) []string {
	names := make([]string, 0, len(unconnected))
	for _, id := range unconnected {
		if id >= 1 && id <= len(layers) {
			names = append(names, layers[id-1])
		}
	}
	return names
}

// Infer runs one forward pass over img.
func (d *DNN) Infer(ctx context.Context, img gocv.Mat) ([]postprocess.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img.Empty() {
		return nil, errors.New("empty image")
	}

	blob := gocv.BlobFromImage(img, 1.0/255.0, d.inputShape, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	mats := d.net.ForwardLayers(d.outputNames)
	defer func() {
		for i := range mats {
			mats[i].Close()
		}
	}()

	outputs := make([]postprocess.Output, 0, len(mats))
	for i, m := range mats {
		data, err := m.DataPtrFloat32()
		if err != nil {
			return nil, errors.Wrapf(err, "error reading output %s", d.outputNames[i])
		}

		// The Mat memory is released on Close.
		owned := make([]float32, len(data))
		copy(owned, data)
		outputs = append(outputs, postprocess.Output{Rows: m.Rows(), Cols: m.Cols(), Data: owned})
	}

	return outputs, nil
}

// Close releases the network.
func (d *DNN) Close() error {
	return d.net.Close()
}
