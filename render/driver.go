package render

import (
	"context"

	"github.com/nvr-ai/go-iou/evaluation"
	"github.com/nvr-ai/go-iou/models/model"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// Keys understood by the window driver.
const (
	KeyNext   = '1'
	KeyPrev   = '0'
	KeyQuit   = 'q'
	KeyToggle = 'r'
)

const (
	// autoDelay is the WaitKey delay in milliseconds while auto-advancing.
	autoDelay = 10
	// pollDelay bounds how long a manual wait blocks before checking ctx.
	pollDelay = 100
)

// KeyCommand maps a key code to a session command. Unknown keys, and -1 for
// no key, keep the current image.
func KeyCommand(key int) evaluation.Command {
	switch key & 0xff {
	case KeyNext:
		return evaluation.CommandNext
	case KeyPrev:
		return evaluation.CommandPrev
	case KeyQuit:
		return evaluation.CommandQuit
	case KeyToggle:
		return evaluation.CommandToggleAuto
	}
	return evaluation.CommandStay
}

// Window shows every result and waits for a key.
type Window struct {
	window  *gocv.Window
	classes *model.ClassSet
	width   int
	log     *zap.Logger
}

// NewWindow opens a display window. Results are scaled to width pixels.
func NewWindow(title string, width int, classes *model.ClassSet, log *zap.Logger) *Window {
	if log == nil {
		log = zap.NewNop()
	}
	return &Window{
		window:  gocv.NewWindow(title),
		classes: classes,
		width:   width,
		log:     log,
	}
}

// Next draws the result and blocks until a key is pressed, or for a short
// delay in auto mode.
func (w *Window) Next(ctx context.Context, result evaluation.ImageResult, auto bool) evaluation.Command {
	img := Overlay(result, w.classes)
	defer img.Close()

	ScaleToWidth(&img, w.width)
	w.window.IMShow(img)

	if auto {
		return KeyCommand(w.window.WaitKey(autoDelay))
	}

	for ctx.Err() == nil {
		if key := w.window.WaitKey(pollDelay); key >= 0 {
			w.log.Debug("key pressed", zap.Int("key", key))
			return KeyCommand(key)
		}
	}
	return evaluation.CommandStay
}

// Close closes the window.
func (w *Window) Close() error {
	return w.window.Close()
}

// Headless never waits. Combined with auto mode it evaluates every image
// once, in order.
type Headless struct{}

// Next always keeps going.
func (Headless) Next(context.Context, evaluation.ImageResult, bool) evaluation.Command {
	return evaluation.CommandStay
}
