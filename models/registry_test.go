package models

import (
	"testing"

	"github.com/nvr-ai/go-iou/models/model"
	"github.com/nvr-ai/go-iou/models/postprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	args := model.NewModelArgs{
		NMS:     &postprocess.NMSConfig{ConfidenceThreshold: 0.5, IoUThreshold: 0.4},
		Classes: model.NewClassSet([]string{"person"}),
	}

	m, err := NewModel(args)
	require.NoError(t, err)
	assert.Equal(t, model.ModelNameYOLOv4, m.Options().Name)

	args.Name = "rtdetr"
	_, err = NewModel(args)
	assert.ErrorContains(t, err, "unsupported model name")
}
