// Package yolov4 - darknet YOLO (v3/v4) region-output model.
package yolov4

import (
	"github.com/nvr-ai/go-iou/models/model"
	"github.com/nvr-ai/go-iou/models/postprocess"
	"github.com/pkg/errors"
)

// YOLOv4 is the instance of the YOLOv4 model.
type YOLOv4 struct {
	options model.Options
}

// Options returns the options for the YOLOv4 model.
//
// Returns:
//   - The options for the YOLOv4 model.
func (m *YOLOv4) Options() model.Options {
	return m.options
}

// NewModel creates a new model.
//
// Arguments:
//   - args: The arguments for creating a new model.
//
// Returns:
//   - The model.
func NewModel(args model.NewModelArgs) (*YOLOv4, error) {
	if args.NMS == nil {
		return nil, errors.New("yolov4: NewModel requires an NMS config")
	}

	if args.Classes == nil || args.Classes.Len() == 0 {
		return nil, errors.Wrap(model.ErrNoClasses, "yolov4: NewModel requires classes")
	}

	nms := *args.NMS
	return &YOLOv4{
		options: model.Options{
			Name:    model.ModelNameYOLOv4,
			Family:  model.ModelFamilyYOLO,
			Path:    args.Path,
			NMS:     &nms,
			Classes: args.Classes,
		},
	}, nil
}

// decodeConfig scans every score column so that ids beyond the class file
// are seen by NMS and then dropped by the class filter.
func (m *YOLOv4) decodeConfig() postprocess.DecodeConfig {
	return postprocess.DecodeConfig{ConfidenceThreshold: m.options.NMS.ConfidenceThreshold}
}
