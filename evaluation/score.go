package evaluation

import (
	"github.com/nvr-ai/go-iou/images"
	"github.com/nvr-ai/go-iou/models/postprocess"
)

// Reasons an image score is invalid.
const (
	ReasonNoGroundTruth = "no ground truth"
	ReasonNoDetections  = "no detections"
	ReasonNoMatches     = "no matched detections"
)

// ScorePair returns the IoU of the two boxes when their classes agree and 0
// otherwise. A zero union scores 0.
func ScorePair(truth, predicted postprocess.Detection) float64 {
	if truth.Class != predicted.Class {
		return 0
	}

	overlap := images.Overlap(truth.Box, predicted.Box)
	union := images.UnionArea(truth.Box, predicted.Box, overlap)
	if union <= 0 {
		return 0
	}
	return float64(overlap.Area()) / union
}

// ImageScore is the outcome of scoring one image.
type ImageScore struct {
	// Accuracy is the mean pair accuracy. Only meaningful when Valid.
	Accuracy float64
	Pairs    []Pair
	Valid    bool
	// Reason explains an invalid score.
	Reason string
}

// ScoreImage matches and scores one image.
//
// The image accuracy is the mean over matched pairs. An image without ground
// truth, without detections or without any match is invalid rather than 0.
func ScoreImage(truth, predicted []postprocess.Detection) ImageScore {
	switch {
	case len(truth) == 0:
		return ImageScore{Reason: ReasonNoGroundTruth}
	case len(predicted) == 0:
		return ImageScore{Reason: ReasonNoDetections}
	}

	pairs := Match(truth, predicted)
	if len(pairs) == 0 {
		return ImageScore{Reason: ReasonNoMatches}
	}

	var sum float64
	for i := range pairs {
		pairs[i].Accuracy = ScorePair(pairs[i].Truth, pairs[i].Predicted)
		sum += pairs[i].Accuracy
	}

	return ImageScore{
		Accuracy: sum / float64(len(pairs)),
		Pairs:    pairs,
		Valid:    true,
	}
}
