package dataset

import (
	"image"
	"strconv"
	"strings"

	"github.com/nvr-ai/go-iou/images"
	"github.com/nvr-ai/go-iou/models/postprocess"
	"github.com/nvr-ai/go-iou/util"
)

// labelFields is the number of values on a YOLO label line: class cx cy w h.
const labelFields = 5

// LabelPath returns the label file of an image: the path up to the first
// occurrence of fileType with ".txt" appended. It returns "" when the path
// does not contain fileType.
func LabelPath(imagePath, fileType string) string {
	if fileType == "" {
		return ""
	}
	idx := strings.Index(imagePath, fileType)
	if idx < 0 {
		return ""
	}
	return imagePath[:idx] + ".txt"
}

// ParseLabel converts one normalized YOLO label line to a pixel box.
//
// Coordinates are scaled by the image size and truncated to whole pixels, the
// same rules the decoder applies to network output. The center is stored
// alongside the box. ok is false for lines that do not hold five numbers or
// describe an invalid box.
func ParseLabel(line string, size image.Point) (postprocess.Detection, bool) {
	fields := strings.Fields(line)
	if len(fields) != labelFields {
		return postprocess.Detection{}, false
	}

	var values [labelFields]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return postprocess.Detection{}, false
		}
		values[i] = v
	}

	cx := int(values[1] * float64(size.X))
	cy := int(values[2] * float64(size.Y))
	w := int(values[3] * float64(size.X))
	h := int(values[4] * float64(size.Y))

	det := postprocess.Detection{
		Box:    images.RectFromCenter(cx, cy, w, h),
		Center: images.Point{X: cx, Y: cy},
		Score:  1,
		Class:  int(values[0]),
	}
	return det, det.Valid()
}

// ReadLabels reads every valid box of a label file. A missing file yields no
// boxes and no error.
func ReadLabels(path string, size image.Point) ([]postprocess.Detection, error) {
	if !util.Exists(path) {
		return nil, nil
	}

	lines, err := util.ReadLines(path)
	if err != nil {
		return nil, err
	}

	var boxes []postprocess.Detection
	for _, line := range lines {
		if det, ok := ParseLabel(line, size); ok {
			boxes = append(boxes, det)
		}
	}
	return boxes, nil
}
