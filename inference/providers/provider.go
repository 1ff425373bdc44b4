// Package providers - ONNX Runtime execution providers.
package providers

import (
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// Backend selects the ONNX Runtime execution provider.
type Backend string

const (
	// CPUProviderBackend runs on the default CPU provider.
	CPUProviderBackend Backend = "cpu"
	// CUDAProviderBackend uses NVIDIA CUDA for GPU acceleration.
	CUDAProviderBackend Backend = "cuda"
	// CoreMLProviderBackend uses Apple CoreML for macOS acceleration.
	CoreMLProviderBackend Backend = "coreml"
	// OpenVINOProviderBackend uses Intel OpenVINO for inference optimization.
	OpenVINOProviderBackend Backend = "openvino"
)

// Config selects an execution provider and its options.
type Config struct {
	// Backend specifies the provider to append. Empty means CPU.
	Backend Backend `json:"backend" yaml:"backend"`
	// Sets the number of threads used to parallelize execution within nodes.
	// Zero keeps the runtime default.
	IntraOpThreads int `json:"intra_op_threads" yaml:"intra_op_threads"`
	// Sets the number of threads used to parallelize execution across nodes.
	InterOpThreads int `json:"inter_op_threads" yaml:"inter_op_threads"`

	CUDA     CUDAOptions     `json:"cuda" yaml:"cuda"`
	CoreML   CoreMLOptions   `json:"coreml" yaml:"coreml"`
	OpenVINO OpenVINOOptions `json:"openvino" yaml:"openvino"`
}

// Validate checks that the backend is known.
func (c Config) Validate() error {
	switch c.Backend {
	case "", CPUProviderBackend, CUDAProviderBackend, CoreMLProviderBackend, OpenVINOProviderBackend:
		return nil
	default:
		return errors.Errorf("unsupported execution provider %q", c.Backend)
	}
}

// NewSessionOptions builds session options with threading, graph
// optimization and the configured execution provider applied.
//
// The caller owns the returned options and must Destroy them.
//
// Arguments:
//   - cfg: The provider configuration.
//
// Returns:
//   - *ort.SessionOptions: The session options.
//   - error: An error if the options or provider could not be set.
func NewSessionOptions(cfg Config) (*ort.SessionOptions, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "error creating ORT session options")
	}

	if err := configure(options, cfg); err != nil {
		options.Destroy()
		return nil, err
	}

	return options, nil
}

func configure(options *ort.SessionOptions, cfg Config) error {
	if cfg.IntraOpThreads > 0 {
		if err := options.SetIntraOpNumThreads(cfg.IntraOpThreads); err != nil {
			return errors.Wrap(err, "error setting intra-op threads")
		}
	}
	if cfg.InterOpThreads > 0 {
		if err := options.SetInterOpNumThreads(cfg.InterOpThreads); err != nil {
			return errors.Wrap(err, "error setting inter-op threads")
		}
	}
	if err := options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended); err != nil {
		return errors.Wrap(err, "error setting graph optimization level")
	}

	switch cfg.Backend {
	case CUDAProviderBackend:
		return appendCUDA(options, cfg.CUDA)
	case CoreMLProviderBackend:
		if err := options.AppendExecutionProviderCoreML(cfg.CoreML.Flags()); err != nil {
			return errors.Wrap(err, "error enabling CoreML")
		}
	case OpenVINOProviderBackend:
		if err := options.AppendExecutionProviderOpenVINO(cfg.OpenVINO.ToMap()); err != nil {
			return errors.Wrap(err, "error enabling OpenVINO")
		}
	}
	return nil
}
