// Package inference - Inference engine interface and helpers shared by the
// detector backends.
package inference

import (
	"context"

	"github.com/nvr-ai/go-iou/models/postprocess"
	"gocv.io/x/gocv"
)

// Engine runs one forward pass of a detector over a decoded BGR image.
//
// Implementations resolve their output layers once at construction and own
// the network handle until Close.
type Engine interface {
	// Infer returns the raw region outputs for img. The returned data is
	// owned by the caller.
	Infer(ctx context.Context, img gocv.Mat) ([]postprocess.Output, error)
	// Close releases the network.
	Close() error
}
