// Package evaluation - Ground-truth matching, IoU scoring and the session
// that drives a detector over a test set.
package evaluation

import (
	flatbush "github.com/bmharper/flatbush-go"
	"github.com/nvr-ai/go-iou/models/postprocess"
)

// Pair is a ground-truth box and the predicted box matched to it.
type Pair struct {
	TruthIndex     int
	PredictedIndex int
	Truth          postprocess.Detection
	Predicted      postprocess.Detection
	// Accuracy is the class-gated IoU of the pair.
	Accuracy float64
}

// Match pairs every valid ground-truth box with the first predicted box,
// in predicted order, whose region contains the ground-truth center.
//
// The first containing box wins even when a later one overlaps better.
// Ground truth with a negative class or a missing center is skipped, and
// ground truth without a containing box produces no pair. Accuracy is left
// at zero; see ScorePair.
func Match(truth, predicted []postprocess.Detection) []Pair {
	if len(truth) == 0 || len(predicted) == 0 {
		return nil
	}

	// Index predicted boxes to avoid scanning every box per center.
	fb := flatbush.NewFlatbush[int32]()
	fb.Reserve(len(predicted))
	for _, p := range predicted {
		fb.Add(int32(p.Box.X), int32(p.Box.Y), int32(p.Box.X2()), int32(p.Box.Y2()))
	}
	fb.Finish()

	var pairs []Pair
	var hits []int
	for i, gt := range truth {
		if gt.Class < 0 || !gt.HasCenter() {
			continue
		}

		cx, cy := int32(gt.Center.X), int32(gt.Center.Y)
		hits = fb.SearchFast(cx, cy, cx, cy, hits[:0])

		best := -1
		for _, j := range hits {
			if (best < 0 || j < best) && predicted[j].Box.Contains(gt.Center) {
				best = j
			}
		}
		if best < 0 {
			continue
		}

		pairs = append(pairs, Pair{
			TruthIndex:     i,
			PredictedIndex: best,
			Truth:          gt,
			Predicted:      predicted[best],
		})
	}
	return pairs
}
