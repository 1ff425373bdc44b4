package inference

import "github.com/pkg/errors"

// EngineType is the type of the engine
type EngineType string

const (
	// EngineDNN runs darknet cfg/weights through the OpenCV DNN module.
	EngineDNN EngineType = "dnn"
	// EngineONNX is the ONNX engine that uses the onnxruntime library.
	EngineONNX EngineType = "onnx"
)

// Engines is a list of all supported engines
var Engines = []EngineType{EngineDNN, EngineONNX}

// ParseEngineType maps a configuration value to an engine type. An empty
// value selects EngineDNN.
func ParseEngineType(s string) (EngineType, error) {
	if s == "" {
		return EngineDNN, nil
	}
	for _, e := range Engines {
		if string(e) == s {
			return e, nil
		}
	}
	return "", errors.Errorf("unsupported engine %q", s)
}
