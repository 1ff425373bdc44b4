package detectors

import (
	"github.com/nvr-ai/go-iou/inference"
	"go.uber.org/zap"
)

// New builds the engine selected by cfg.Engine.
//
// Arguments:
//   - cfg: The detector configuration.
//   - log: The logger. Nil disables logging.
//
// Returns:
//   - inference.Engine: The engine. The caller must Close it.
//   - error: An error if the configuration is invalid or loading fails.
func New(cfg Config, log *zap.Logger) (inference.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	engine, _ := inference.ParseEngineType(string(cfg.Engine))
	if engine == inference.EngineONNX {
		return NewONNX(cfg, log)
	}
	return NewDNN(cfg, log)
}
