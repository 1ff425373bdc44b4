package providers

// CoreML provider flags, see coreml_provider_factory.h.
const (
	coreMLUseCPUOnly        uint32 = 0x001
	coreMLEnableOnSubgraph  uint32 = 0x002
	coreMLOnlyEnableWithANE uint32 = 0x004
	coreMLOnlyStaticShapes  uint32 = 0x008
	coreMLCreateMLProgram   uint32 = 0x010
)

// CoreMLOptions contains arguments for the CoreML provider.
// See: https://onnxruntime.ai/docs/execution-providers/CoreML-ExecutionProvider.html
type CoreMLOptions struct {
	// Limit CoreML to running on CPU only.
	CPUOnly bool `json:"cpu_only" yaml:"cpu_only"`
	// Enable CoreML EP to run on a subgraph in the body of a control flow operator.
	EnableOnSubgraphs bool `json:"enable_on_subgraphs" yaml:"enable_on_subgraphs"`
	// Only enable CoreML EP for Apple devices with a compatible Apple Neural Engine.
	RequireANE bool `json:"require_ane" yaml:"require_ane"`
	// Only allow the CoreML EP to take nodes with inputs that have static shapes.
	RequireStaticInputShapes bool `json:"require_static_input_shapes" yaml:"require_static_input_shapes"`
	// Create an MLProgram format model. Requires Core ML 5 or later.
	MLProgram bool `json:"ml_program" yaml:"ml_program"`
}

// Flags packs the options into the CoreML provider bit field.
func (o CoreMLOptions) Flags() uint32 {
	var flags uint32
	if o.CPUOnly {
		flags |= coreMLUseCPUOnly
	}
	if o.EnableOnSubgraphs {
		flags |= coreMLEnableOnSubgraph
	}
	if o.RequireANE {
		flags |= coreMLOnlyEnableWithANE
	}
	if o.RequireStaticInputShapes {
		flags |= coreMLOnlyStaticShapes
	}
	if o.MLProgram {
		flags |= coreMLCreateMLProgram
	}
	return flags
}
