// Package postprocess - provides Non-Maximum Suppression for detection results.
package postprocess

import (
	"sort"

	"github.com/nvr-ai/go-iou/images"
)

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	ConfidenceThreshold float32 `json:"confidence_threshold" yaml:"confidence_threshold"` // Candidates at or below this score are dropped.
	IoUThreshold        float32 `json:"iou_threshold" yaml:"iou_threshold"`               // Overlap threshold for suppression.
	ClassAware          bool    `json:"class_aware" yaml:"class_aware"`                   // If true, suppress only within same class.
}

// ApplyGreedyNMS performs standard greedy Non-Maximum Suppression.
//
// Candidates scoring at or below the confidence threshold are discarded and
// the rest are visited in descending score order (ties keep input order). The
// best remaining candidate is kept and every later candidate whose IoU with it
// exceeds the threshold is suppressed. Unless ClassAware is set, boxes of
// different classes suppress each other.
//
// Arguments:
//   - detections: Candidate detections in any order. The slice is not modified.
//   - config: NMS configuration.
//
// Returns:
//   - The surviving detections in descending score order. If no detections
//     survive, returns nil.
func ApplyGreedyNMS(detections []Detection, config *NMSConfig) []Detection {
	order := make([]int, 0, len(detections))
	for i, d := range detections {
		if d.Score > config.ConfidenceThreshold {
			order = append(order, i)
		}
	}
	if len(order) == 0 {
		return nil
	}

	sort.SliceStable(order, func(a, b int) bool {
		return detections[order[a]].Score > detections[order[b]].Score
	})

	filtered := make([]Detection, 0, len(order))
	used := make([]bool, len(order))

	for i := range order {
		if used[i] {
			continue
		}

		anchor := detections[order[i]]
		filtered = append(filtered, anchor)
		used[i] = true

		for j := i + 1; j < len(order); j++ {
			if used[j] {
				continue
			}
			other := detections[order[j]]
			if config.ClassAware && anchor.Class != other.Class {
				continue
			}
			if images.CalculateIoU(anchor.Box, other.Box) > config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}
