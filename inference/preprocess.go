package inference

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// PrepareInput fills an NCHW float tensor with an RGB image scaled to size.
//
// The image is stretched to size without letterboxing and pixel values are
// scaled to [0, 1], matching the darknet blob layout (scale 1/255, RGB order,
// zero mean).
//
// Arguments:
//   - img: The image to prepare.
//   - size: The network input size (X = width, Y = height).
//   - dst: The destination tensor data to populate.
//
// Returns:
//   - error: An error if the input preparation fails.
func PrepareInput(img image.Image, size image.Point, dst []float32) error {
	if size.X <= 0 || size.Y <= 0 {
		return errors.Errorf("invalid input size %v", size)
	}

	channelSize := size.X * size.Y
	if len(dst) < channelSize*3 {
		return errors.Errorf("destination tensor only holds %d floats, needs %d", len(dst), channelSize*3)
	}
	red := dst[0:channelSize]
	green := dst[channelSize : channelSize*2]
	blue := dst[channelSize*2 : channelSize*3]

	bounds := img.Bounds()
	if bounds.Dx() != size.X || bounds.Dy() != size.Y {
		img = resize.Resize(uint(size.X), uint(size.Y), img, resize.Bilinear)
		bounds = img.Bounds()
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Min.Y+size.Y; y++ {
		for x := bounds.Min.X; x < bounds.Min.X+size.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}
	return nil
}
