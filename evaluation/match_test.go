package evaluation

import (
	"testing"

	"github.com/nvr-ai/go-iou/images"
	"github.com/nvr-ai/go-iou/models/postprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func truthBox(class int, r images.Rect) postprocess.Detection {
	return postprocess.Detection{Box: r, Center: r.Center(), Score: 1, Class: class}
}

func predBox(class int, score float32, r images.Rect) postprocess.Detection {
	return postprocess.Detection{Box: r, Center: r.Center(), Score: score, Class: class}
}

func TestMatch_FirstContainingWins(t *testing.T) {
	gt := truthBox(0, images.Rect{X: 100, Y: 100, Width: 20, Height: 20})
	predicted := []postprocess.Detection{
		predBox(0, 0.9, images.Rect{X: 0, Y: 0, Width: 50, Height: 50}),     // does not contain center
		predBox(0, 0.8, images.Rect{X: 80, Y: 80, Width: 100, Height: 100}), // contains, loose
		predBox(0, 0.7, images.Rect{X: 100, Y: 100, Width: 20, Height: 20}), // contains, exact
	}

	pairs := Match([]postprocess.Detection{gt}, predicted)
	require.Len(t, pairs, 1)
	assert.Equal(t, 1, pairs[0].PredictedIndex)
	assert.Equal(t, predicted[1], pairs[0].Predicted)
	assert.Equal(t, 0, pairs[0].TruthIndex)
}

func TestMatch_Skips(t *testing.T) {
	predicted := []postprocess.Detection{
		predBox(0, 0.9, images.Rect{X: 0, Y: 0, Width: 100, Height: 100}),
	}

	noCenter := truthBox(0, images.Rect{X: 10, Y: 10, Width: 10, Height: 10})
	noCenter.Center = images.Point{X: -1, Y: 15}
	negClass := truthBox(-1, images.Rect{X: 10, Y: 10, Width: 10, Height: 10})
	outside := truthBox(0, images.Rect{X: 200, Y: 200, Width: 10, Height: 10})
	inside := truthBox(0, images.Rect{X: 40, Y: 40, Width: 10, Height: 10})

	pairs := Match([]postprocess.Detection{noCenter, negClass, outside, inside}, predicted)
	require.Len(t, pairs, 1)
	assert.Equal(t, 3, pairs[0].TruthIndex)
}

func TestMatch_HalfOpenEdges(t *testing.T) {
	predicted := []postprocess.Detection{
		predBox(0, 0.9, images.Rect{X: 0, Y: 0, Width: 10, Height: 10}),
		predBox(0, 0.8, images.Rect{X: 10, Y: 0, Width: 10, Height: 10}),
	}

	gt := postprocess.Detection{
		Box:    images.Rect{X: 8, Y: 3, Width: 4, Height: 4},
		Center: images.Point{X: 10, Y: 5},
		Class:  0,
	}

	pairs := Match([]postprocess.Detection{gt}, predicted)
	require.Len(t, pairs, 1)
	assert.Equal(t, 1, pairs[0].PredictedIndex, "right edge of the first box is exclusive")
}

func TestMatch_Empty(t *testing.T) {
	gt := []postprocess.Detection{truthBox(0, images.Rect{X: 0, Y: 0, Width: 10, Height: 10})}
	assert.Nil(t, Match(gt, nil))
	assert.Nil(t, Match(nil, gt))
}

func TestMatch_AgreesWithLinearScan(t *testing.T) {
	var predicted []postprocess.Detection
	for i := 0; i < 40; i++ {
		x, y := (i*37)%300, (i*53)%300
		predicted = append(predicted, predBox(i%3, 1, images.Rect{X: x, Y: y, Width: 20 + i%30, Height: 25 + i%20}))
	}
	var truth []postprocess.Detection
	for i := 0; i < 60; i++ {
		x, y := (i*41)%320, (i*29)%320
		truth = append(truth, truthBox(i%3, images.Rect{X: x, Y: y, Width: 12, Height: 16}))
	}

	linear := func(gt postprocess.Detection) int {
		for j, p := range predicted {
			if p.Box.Contains(gt.Center) {
				return j
			}
		}
		return -1
	}

	pairs := Match(truth, predicted)
	got := map[int]int{}
	for _, p := range pairs {
		got[p.TruthIndex] = p.PredictedIndex
	}

	for i, gt := range truth {
		want := linear(gt)
		j, ok := got[i]
		if want < 0 {
			assert.False(t, ok, "truth %d", i)
			continue
		}
		assert.True(t, ok, "truth %d", i)
		assert.Equal(t, want, j, "truth %d", i)
	}
}
