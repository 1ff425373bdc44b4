package yolov4

import (
	"image"

	"github.com/nvr-ai/go-iou/models/postprocess"
)

// PostProcess postprocesses the region outputs of the YOLOv4 model.
//
// Candidates are decoded against the source image size, suppressed across
// classes and finally filtered to the registered class set.
//
// Arguments:
//   - outputs: The raw outputs of one forward pass.
//   - size: The source image size in pixels.
//
// Returns:
//   - The surviving detections in descending score order.
func (m *YOLOv4) PostProcess(outputs []postprocess.Output, size image.Point) []postprocess.Detection {
	candidates := postprocess.Decode(outputs, size, m.decodeConfig())
	if len(candidates) == 0 {
		return nil
	}

	return m.options.Classes.Filter(postprocess.ApplyGreedyNMS(candidates, m.options.NMS))
}
