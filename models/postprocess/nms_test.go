package postprocess

import (
	"math/rand"
	"testing"

	"github.com/nvr-ai/go-iou/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyGreedyNMS(t *testing.T) {
	a := Detection{Box: images.Rect{X: 0, Y: 0, Width: 100, Height: 100}, Score: 0.9, Class: 0}
	b := Detection{Box: images.Rect{X: 5, Y: 5, Width: 100, Height: 100}, Score: 0.8, Class: 1}
	c := Detection{Box: images.Rect{X: 300, Y: 300, Width: 50, Height: 50}, Score: 0.7, Class: 0}
	low := Detection{Box: images.Rect{X: 600, Y: 600, Width: 50, Height: 50}, Score: 0.2, Class: 0}

	tests := []struct {
		name     string
		input    []Detection
		config   NMSConfig
		expected []Detection
	}{
		{
			name:     "empty input",
			input:    nil,
			config:   NMSConfig{ConfidenceThreshold: 0.5, IoUThreshold: 0.4},
			expected: nil,
		},
		{
			name:     "cross-class overlap is suppressed",
			input:    []Detection{b, c, a},
			config:   NMSConfig{ConfidenceThreshold: 0.5, IoUThreshold: 0.4},
			expected: []Detection{a, c},
		},
		{
			name:     "class aware keeps other classes",
			input:    []Detection{b, c, a},
			config:   NMSConfig{ConfidenceThreshold: 0.5, IoUThreshold: 0.4, ClassAware: true},
			expected: []Detection{a, b, c},
		},
		{
			name:     "low scores are dropped",
			input:    []Detection{low, c},
			config:   NMSConfig{ConfidenceThreshold: 0.5, IoUThreshold: 0.4},
			expected: []Detection{c},
		},
		{
			name:     "overlap at threshold is kept",
			input:    []Detection{a, b},
			config:   NMSConfig{ConfidenceThreshold: 0.5, IoUThreshold: images.CalculateIoU(a.Box, b.Box)},
			expected: []Detection{a, b},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ApplyGreedyNMS(tt.input, &tt.config))
		})
	}
}

func TestApplyGreedyNMS_StableTies(t *testing.T) {
	first := Detection{Box: images.Rect{X: 0, Y: 0, Width: 10, Height: 10}, Score: 0.6, Class: 3}
	second := Detection{Box: images.Rect{X: 100, Y: 0, Width: 10, Height: 10}, Score: 0.6, Class: 4}

	got := ApplyGreedyNMS([]Detection{first, second}, &NMSConfig{ConfidenceThreshold: 0.5, IoUThreshold: 0.5})
	assert.Equal(t, []Detection{first, second}, got)
}

func TestApplyGreedyNMS_NoSurvivorsOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	config := &NMSConfig{ConfidenceThreshold: 0.3, IoUThreshold: 0.45}

	for run := 0; run < 20; run++ {
		input := make([]Detection, 60)
		for i := range input {
			input[i] = Detection{
				Box: images.Rect{
					X:      rng.Intn(200),
					Y:      rng.Intn(200),
					Width:  10 + rng.Intn(60),
					Height: 10 + rng.Intn(60),
				},
				Score: rng.Float32(),
				Class: rng.Intn(3),
			}
		}
		snapshot := append([]Detection(nil), input...)

		kept := ApplyGreedyNMS(input, config)
		require.NotEmpty(t, kept)
		assert.Equal(t, snapshot, input, "input must not be reordered")

		for i := range kept {
			assert.Greater(t, kept[i].Score, config.ConfidenceThreshold)
			if i > 0 {
				assert.GreaterOrEqual(t, kept[i-1].Score, kept[i].Score)
			}
			for j := i + 1; j < len(kept); j++ {
				assert.LessOrEqual(t, images.CalculateIoU(kept[i].Box, kept[j].Box), config.IoUThreshold)
			}
		}
	}
}
