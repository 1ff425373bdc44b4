package inference

import (
	"github.com/nvr-ai/go-iou/models/postprocess"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// OutputFromTensor reshapes an N-d detector output into region rows.
//
// Every dimension but the last is folded into rows, so [1, N, 85] and
// [N, 1, 85] both become N rows of 85 columns. The data is copied.
//
// Arguments:
//   - shape: The output tensor shape.
//   - data: The flat output tensor data.
//
// Returns:
//   - postprocess.Output: The row view of the output.
//   - error: An error if the shape does not describe the data.
func OutputFromTensor(shape []int64, data []float32) (postprocess.Output, error) {
	if len(shape) == 0 {
		return postprocess.Output{}, errors.New("empty output shape")
	}

	dims := make([]int, len(shape))
	total := 1
	for i, d := range shape {
		if d <= 0 {
			return postprocess.Output{}, errors.Errorf("output shape %v has a non-positive dimension", shape)
		}
		dims[i] = int(d)
		total *= dims[i]
	}
	if total != len(data) {
		return postprocess.Output{}, errors.Errorf("output shape %v needs %d values, got %d", shape, total, len(data))
	}

	backing := make([]float32, total)
	copy(backing, data)
	dense := tensor.New(tensor.WithShape(dims...), tensor.WithBacking(backing))

	cols := dims[len(dims)-1]
	rows := dense.Shape().TotalSize() / cols
	if err := dense.Reshape(rows, cols); err != nil {
		return postprocess.Output{}, errors.Wrapf(err, "error reshaping output %v", shape)
	}

	return postprocess.Output{
		Rows: dense.Shape()[0],
		Cols: dense.Shape()[1],
		Data: dense.Data().([]float32),
	}, nil
}
