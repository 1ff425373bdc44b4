// Package model - Definitions shared by detection models.
package model

import (
	"image"

	"github.com/nvr-ai/go-iou/models/postprocess"
)

// Family is the family of models.
type Family string

const (
	// ModelFamilyYOLO is the YOLO model family.
	ModelFamilyYOLO Family = "yolo"
)

// Name is the unique identifier of a model.
type Name string

const (
	// ModelNameYOLOv4 is the name of the darknet YOLO (v3/v4) model.
	ModelNameYOLOv4 Name = "yolov4"
)

// Options describe a constructed model.
type Options struct {
	Name    Name                   `json:"name" yaml:"name"`
	Family  Family                 `json:"family" yaml:"family"`
	Path    string                 `json:"path" yaml:"path"`
	NMS     *postprocess.NMSConfig `json:"nms" yaml:"nms"`
	Classes *ClassSet              `json:"-" yaml:"-"`
}

// Model turns raw detector outputs into surviving, registered detections.
type Model interface {
	Options() Options
	PostProcess(outputs []postprocess.Output, size image.Point) []postprocess.Detection
}

// NewModelArgs is the arguments for creating a new model.
type NewModelArgs struct {
	Name    Name                   `json:"name" yaml:"name"`
	Path    string                 `json:"path" yaml:"path"`
	NMS     *postprocess.NMSConfig `json:"nms" yaml:"nms"`
	Classes *ClassSet              `json:"-" yaml:"-"`
}
