// Package detectors - Detector backends behind the inference.Engine interface.
package detectors

import (
	"image"

	"github.com/nvr-ai/go-iou/inference"
	"github.com/nvr-ai/go-iou/inference/providers"
	"github.com/pkg/errors"
)

// Config describes which network to load and how to run it.
type Config struct {
	// Engine selects the backend. Empty means inference.EngineDNN.
	Engine inference.EngineType `json:"engine" yaml:"engine"`

	// WeightsFile is the darknet .weights file, or the .onnx model for
	// inference.EngineONNX.
	WeightsFile string `json:"weights_file" yaml:"weights_file"`

	// CfgFile is the darknet .cfg file. Unused by inference.EngineONNX.
	CfgFile string `json:"cfg_file" yaml:"cfg_file"`

	// InputShape defines the network input dimensions (width, height).
	InputShape image.Point `json:"input_shape" yaml:"input_shape"`

	// Provider is the onnxruntime execution provider configuration.
	Provider providers.Config `json:"provider" yaml:"provider"`

	// SharedLibraryPath is the onnxruntime library. Empty uses the platform default.
	SharedLibraryPath string `json:"shared_library_path" yaml:"shared_library_path"`
}

// DefaultConfig returns a darknet configuration for a 416x416 network.
//
// Returns:
//   - Config: The default configuration. Model files must still be set.
//
// @example
// config := DefaultConfig()
// config.WeightsFile = "yolov4.weights"
// config.CfgFile = "yolov4.cfg"
// engine, err := New(config)
func DefaultConfig() Config {
	return Config{
		Engine:     inference.EngineDNN,
		InputShape: image.Point{X: 416, Y: 416},
		Provider:   providers.Config{Backend: providers.CPUProviderBackend},
	}
}

// Validate checks the fields required by the selected engine.
func (c Config) Validate() error {
	if c.InputShape.X <= 0 || c.InputShape.Y <= 0 {
		return errors.Errorf("input shape must be positive, got %v", c.InputShape)
	}
	if c.WeightsFile == "" {
		return errors.New("weights file is required")
	}

	engine, err := inference.ParseEngineType(string(c.Engine))
	if err != nil {
		return err
	}
	switch engine {
	case inference.EngineDNN:
		if c.CfgFile == "" {
			return errors.New("cfg file is required for the dnn engine")
		}
	case inference.EngineONNX:
		return c.Provider.Validate()
	}
	return nil
}
