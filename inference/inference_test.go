package inference

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ort "github.com/yalue/onnxruntime_go"
)

func TestOutputFromTensor(t *testing.T) {
	data := make([]float32, 2*3*7)
	for i := range data {
		data[i] = float32(i)
	}

	out, err := OutputFromTensor([]int64{1, 6, 7}, data)
	require.NoError(t, err)
	assert.Equal(t, 6, out.Rows)
	assert.Equal(t, 7, out.Cols)
	assert.Equal(t, []float32{7, 8, 9, 10, 11, 12, 13}, out.Row(1))

	// The output does not alias the input.
	data[7] = -1
	assert.Equal(t, float32(7), out.Row(1)[0])
}

func TestOutputFromTensor_Errors(t *testing.T) {
	tests := []struct {
		name  string
		shape []int64
		data  []float32
	}{
		{"empty shape", nil, []float32{1}},
		{"dynamic dimension", []int64{-1, 7}, make([]float32, 7)},
		{"size mismatch", []int64{1, 2, 7}, make([]float32, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OutputFromTensor(tt.shape, tt.data)
			assert.Error(t, err)
		})
	}
}

func TestPrepareInput(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	img.Set(1, 1, color.RGBA{R: 51, G: 102, B: 204, A: 255})

	dst := make([]float32, 3*4)
	require.NoError(t, PrepareInput(img, image.Point{X: 2, Y: 2}, dst))

	assert.Equal(t, []float32{1, 0, 0, 0.2}, dst[0:4])
	assert.Equal(t, []float32{0, 1, 0, 0.4}, dst[4:8])
	assert.Equal(t, []float32{0, 0, 1, 0.8}, dst[8:12])
}

func TestPrepareInput_Resizes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	dst := make([]float32, 3*4*4)
	require.NoError(t, PrepareInput(img, image.Point{X: 4, Y: 4}, dst))
	for _, v := range dst {
		assert.InDelta(t, 1.0, v, 0.01)
	}
}

func TestPrepareInput_ShortTensor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	assert.Error(t, PrepareInput(img, image.Point{X: 2, Y: 2}, make([]float32, 4)))
	assert.Error(t, PrepareInput(img, image.Point{}, make([]float32, 12)))
}

func TestParseEngineType(t *testing.T) {
	e, err := ParseEngineType("")
	require.NoError(t, err)
	assert.Equal(t, EngineDNN, e)

	e, err = ParseEngineType("onnx")
	require.NoError(t, err)
	assert.Equal(t, EngineONNX, e)

	_, err = ParseEngineType("tflite")
	assert.Error(t, err)
}

func TestInputShape(t *testing.T) {
	size := image.Point{X: 416, Y: 320}

	tests := []struct {
		name     string
		dims     ort.Shape
		expected ort.Shape
	}{
		{"static", ort.Shape{1, 3, 640, 640}, ort.Shape{1, 3, 640, 640}},
		{"dynamic height and width", ort.Shape{1, 3, -1, -1}, ort.Shape{1, 3, 320, 416}},
		{"dynamic batch", ort.Shape{-1, 3, 608, 608}, ort.Shape{1, 3, 608, 608}},
		{"fully dynamic", ort.Shape{-1, -1, -1, -1}, ort.Shape{1, 3, 320, 416}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dims := append(ort.Shape(nil), tt.dims...)
			shape, err := inputShape(tt.dims, size)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, shape)
			assert.Equal(t, dims, tt.dims, "declaration is not modified")

			// The resolved shape always holds a full frame.
			dst := make([]float32, shape.FlattenedSize())
			img := image.NewRGBA(image.Rect(0, 0, 32, 24))
			assert.NoError(t, PrepareInput(img, image.Point{X: int(shape[3]), Y: int(shape[2])}, dst))
		})
	}
}

func TestInputShape_Errors(t *testing.T) {
	_, err := inputShape(ort.Shape{1, 3, -1, -1}, image.Point{})
	assert.Error(t, err)

	_, err = inputShape(ort.Shape{1, 3, 416}, image.Point{X: 416, Y: 416})
	assert.Error(t, err)
}

func TestOutputFromTensor_DynamicRows(t *testing.T) {
	// An output declared as [1, -1, 85] arrives with its real row count.
	data := make([]float32, 3*85)
	out, err := OutputFromTensor([]int64{1, 3, 85}, data)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Rows)
	assert.Equal(t, 85, out.Cols)
}
