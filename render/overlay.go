// Package render - Overlays and key-driven stepping for evaluation results.
package render

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/nvr-ai/go-iou/evaluation"
	"github.com/nvr-ai/go-iou/images"
	"github.com/nvr-ai/go-iou/models/model"
	"gocv.io/x/gocv"
)

const (
	fontFace       = gocv.FontHersheySimplex
	labelScale     = 0.6
	truthScale     = 0.5
	accuracyScale  = 0.8
	textThickness  = 1
	boxThickness   = 2
	infoLineHeight = 20
)

var (
	truthColor = color.RGBA{R: 255, A: 255}
	infoColor  = color.RGBA{G: 255, A: 255}
	labelText  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// palette holds dark colors so white label text stays readable.
var palette = []color.RGBA{
	{R: 31, G: 78, B: 121, A: 255},
	{R: 94, G: 23, B: 58, A: 255},
	{R: 12, G: 88, B: 41, A: 255},
	{R: 97, G: 61, B: 9, A: 255},
	{R: 55, G: 33, B: 99, A: 255},
	{R: 8, G: 74, B: 84, A: 255},
	{R: 90, G: 12, B: 12, A: 255},
	{R: 48, G: 64, B: 20, A: 255},
}

// ClassColor returns a stable color for a class index.
func ClassColor(class int) color.RGBA {
	if class < 0 {
		class = -class
	}
	return palette[class%len(palette)]
}

func toRectangle(r images.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X2(), r.Y2())
}

// PredictionLabel formats the caption of a predicted box.
func PredictionLabel(class int, name string, score float32) string {
	return fmt.Sprintf("[%d] %s, %.2f", class, name, score)
}

// TruthLabel formats the caption of a matched ground-truth box.
func TruthLabel(class int, accuracy float64) string {
	return fmt.Sprintf("[%d] Acc: %.2f", class, accuracy)
}

// AccuracyLabel formats the image accuracy line.
func AccuracyLabel(score evaluation.ImageScore) string {
	if !score.Valid {
		return "Invalid detections"
	}
	return fmt.Sprintf("Prediction accuracy: %.2f", score.Accuracy)
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// Overlay draws predictions, matched ground truth and timing onto a copy of
// the record image. The caller must Close the returned Mat.
func Overlay(result evaluation.ImageResult, classes *model.ClassSet) gocv.Mat {
	rec := result.Record
	dst := rec.Image.Clone()

	for _, d := range rec.Predicted {
		name, _ := classes.Name(d.Class)
		text := PredictionLabel(d.Class, name, d.Score)
		c := ClassColor(d.Class)

		size, baseline := gocv.GetTextSizeWithBaseline(text, fontFace, labelScale, textThickness)
		background := image.Rect(d.Box.X, d.Box.Y-size.Y-baseline, d.Box.X+size.X, d.Box.Y+baseline)
		gocv.Rectangle(&dst, background, c, -1)
		gocv.Rectangle(&dst, toRectangle(d.Box), c, boxThickness)
		gocv.PutText(&dst, text, image.Pt(d.Box.X, d.Box.Y), fontFace, labelScale, labelText, textThickness)
	}

	for _, p := range result.Score.Pairs {
		gt := p.Truth.Box
		gocv.Rectangle(&dst, toRectangle(gt), truthColor, textThickness)
		gocv.PutText(&dst, TruthLabel(p.Truth.Class, p.Accuracy), image.Pt(gt.X, gt.Y2()-5), fontFace, truthScale, truthColor, textThickness)
	}

	info := []string{
		rec.Identity,
		fmt.Sprintf("Inference time: %.3f ms", millis(result.InferenceTime)),
		fmt.Sprintf("Total elapsed: %.3f ms", millis(result.TotalTime)),
	}
	for i, line := range info {
		y := infoLineHeight + int(float64(i)*1.5*infoLineHeight)
		gocv.PutText(&dst, line, image.Pt(10, y), fontFace, labelScale, infoColor, textThickness)
	}

	bottom := image.Pt(10, dst.Rows()-10)
	if result.Score.Valid {
		gocv.PutText(&dst, AccuracyLabel(result.Score), bottom, fontFace, accuracyScale, truthColor, 2)
	} else {
		gocv.PutText(&dst, AccuracyLabel(result.Score), bottom, fontFace, truthScale, truthColor, textThickness)
	}

	return dst
}

// DisplaySize scales size to the given width, keeping the aspect ratio.
func DisplaySize(size image.Point, width int) image.Point {
	if width <= 0 || size.X <= 0 {
		return size
	}
	scale := float64(size.X) / float64(width)
	return image.Pt(int(float64(size.X)/scale), int(float64(size.Y)/scale))
}

// ScaleToWidth resizes src in place to the given display width.
func ScaleToWidth(src *gocv.Mat, width int) {
	size := image.Pt(src.Cols(), src.Rows())
	target := DisplaySize(size, width)
	if target == size {
		return
	}
	gocv.Resize(*src, src, target, 0, 0, gocv.InterpolationLinear)
}
