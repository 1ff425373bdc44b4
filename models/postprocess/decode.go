package postprocess

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-iou/images"
)

// Row layout of a YOLO region output: box geometry, objectness, class scores.
const (
	fieldCX = iota
	fieldCY
	fieldW
	fieldH
	fieldObjectness
	// BoxFields is the number of leading non-class columns in a row.
	BoxFields
)

// DecodeConfig controls candidate extraction from raw outputs.
type DecodeConfig struct {
	// ConfidenceThreshold is the exclusive lower bound on the best class score.
	ConfidenceThreshold float32 `json:"confidence_threshold" yaml:"confidence_threshold"`
	// NumClasses is the width of the class-score range. Zero means every
	// column after the box fields is a class score.
	NumClasses int `json:"num_classes" yaml:"num_classes"`
}

// Decode turns raw per-cell rows into class-scored candidate boxes.
//
// For every row the best class over the score range is taken (first index
// wins ties) and the row is emitted when that score exceeds the threshold.
// Normalized center/size fields are scaled to the image size and truncated to
// whole pixels before the top-left corner is derived.
//
// Outputs narrower than BoxFields+NumClasses columns are skipped, as are rows
// with non-finite geometry and boxes that truncate to a non-positive width or
// height. The input outputs are never modified.
//
// Arguments:
//   - outputs: The raw output tensors of one forward pass.
//   - size: The source image size in pixels (X = width, Y = height).
//   - cfg: The decoding configuration.
//
// Returns:
//   - The candidates in output/row order.
func Decode(outputs []Output, size image.Point, cfg DecodeConfig) []Detection {
	var candidates []Detection

	for _, out := range outputs {
		if out.Cols < BoxFields+max(cfg.NumClasses, 1) || len(out.Data) < out.Rows*out.Cols {
			continue
		}

		last := out.Cols
		if cfg.NumClasses > 0 {
			last = BoxFields + cfg.NumClasses
		}

		for i := 0; i < out.Rows; i++ {
			row := out.Row(i)

			classID := 0
			score := row[BoxFields]
			for j := BoxFields + 1; j < last; j++ {
				if row[j] > score {
					score = row[j]
					classID = j - BoxFields
				}
			}

			if math32.IsNaN(score) || !(score > cfg.ConfidenceThreshold) {
				continue
			}

			if !finite(row[:fieldObjectness]) {
				continue
			}

			cx := int(row[fieldCX] * float32(size.X))
			cy := int(row[fieldCY] * float32(size.Y))
			w := int(row[fieldW] * float32(size.X))
			h := int(row[fieldH] * float32(size.Y))

			d := Detection{
				Box:    images.RectFromCenter(cx, cy, w, h),
				Center: images.Point{X: cx, Y: cy},
				Score:  score,
				Class:  classID,
			}
			if !d.Valid() {
				continue
			}
			candidates = append(candidates, d)
		}
	}

	return candidates
}

func finite(values []float32) bool {
	for _, v := range values {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}
