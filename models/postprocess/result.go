// Package postprocess - Postprocessing utilities for models.
package postprocess

import (
	"fmt"

	"github.com/nvr-ai/go-iou/images"
)

// Detection is a single object instance, either decoded from a detector or
// read from a ground-truth label file.
type Detection struct {
	// The bounding box of the object in source image pixels.
	Box images.Rect `json:"box" yaml:"box"`
	// The center used for ground-truth matching. Negative components mean
	// the center is missing.
	Center images.Point `json:"center" yaml:"center"`
	// The confidence score. Ground truth carries 1.
	Score float32 `json:"score" yaml:"score"`
	// The predicted or labelled class index.
	Class int `json:"class" yaml:"class"`
}

// Valid reports whether the detection has a class and a non-empty box.
func (d Detection) Valid() bool {
	return d.Class >= 0 && !d.Box.Empty()
}

// HasCenter reports whether a center point is present.
func (d Detection) HasCenter() bool {
	return d.Center.X >= 0 && d.Center.Y >= 0
}

func (d Detection) String() string {
	return fmt.Sprintf("[%d] %.2f %v", d.Class, d.Score, d.Box)
}

// Output is one raw output tensor of a detector, flattened to Rows x Cols in
// row-major order. Each row describes one cell/anchor candidate.
type Output struct {
	Rows int
	Cols int
	Data []float32
}

// Row returns the i-th row. The slice aliases Data and must not be modified.
func (o Output) Row(i int) []float32 {
	return o.Data[i*o.Cols : (i+1)*o.Cols]
}
