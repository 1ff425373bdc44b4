package detectors

import (
	"image"
	"testing"

	"github.com/nvr-ai/go-iou/inference"
	"github.com/nvr-ai/go-iou/inference/providers"
	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.WeightsFile = "yolov4.weights"
	valid.CfgFile = "yolov4.cfg"

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"darknet", func(c *Config) {}, false},
		{"missing cfg", func(c *Config) { c.CfgFile = "" }, true},
		{"missing weights", func(c *Config) { c.WeightsFile = "" }, true},
		{"zero input", func(c *Config) { c.InputShape = image.Point{} }, true},
		{"unknown engine", func(c *Config) { c.Engine = "tflite" }, true},
		{"onnx without cfg", func(c *Config) { c.Engine = inference.EngineONNX; c.CfgFile = "" }, false},
		{"onnx bad provider", func(c *Config) {
			c.Engine = inference.EngineONNX
			c.Provider.Backend = "tensorrt"
		}, true},
		{"empty engine", func(c *Config) { c.Engine = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, inference.EngineDNN, c.Engine)
	assert.Equal(t, image.Point{X: 416, Y: 416}, c.InputShape)
	assert.Equal(t, providers.CPUProviderBackend, c.Provider.Backend)
}

func TestOutputLayerNames(t *testing.T) {
	layers := []string{"conv_0", "yolo_139", "conv_140", "yolo_150", "yolo_161"}

	assert.Equal(t, []string{"yolo_139", "yolo_150", "yolo_161"}, outputLayerNames(layers, []int{2, 4, 5}))
	assert.Equal(t, []string{"conv_0"}, outputLayerNames(layers, []int{0, 1, 6}))
	assert.Empty(t, outputLayerNames(layers, nil))
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err)
}
