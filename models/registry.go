// Package models - registry for models.
package models

import (
	"github.com/nvr-ai/go-iou/models/model"
	"github.com/nvr-ai/go-iou/models/yolov4"
	"github.com/pkg/errors"
)

// NewModel creates a new detection model instance based on the specified model type.
//
// An empty name selects the darknet YOLO model, which is the only family the
// evaluation pipeline drives today.
//
// Arguments:
//   - args: Configuration parameters specifying the model type, NMS settings and classes.
//
// Returns:
//   - model.Model: A fully configured model instance implementing the Model interface.
//   - error: An error if the model type is unsupported or validation fails.
//
// Example:
//
//	classes, _ := model.LoadClassFile("data/obj.names")
//	m, err := NewModel(model.NewModelArgs{
//	    Name:    model.ModelNameYOLOv4,
//	    NMS:     &postprocess.NMSConfig{ConfidenceThreshold: 0.5, IoUThreshold: 0.4},
//	    Classes: classes,
//	})
func NewModel(args model.NewModelArgs) (model.Model, error) {
	switch args.Name {
	case model.ModelNameYOLOv4, "":
		m, err := yolov4.NewModel(args)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, errors.Errorf("unsupported model name: %s", args.Name)
	}
}
