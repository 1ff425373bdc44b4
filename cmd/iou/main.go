// Command iou evaluates a YOLO detector against a labelled test set and
// prints the mean per-image IoU accuracy.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"
	"github.com/nvr-ai/go-iou/config"
	"github.com/nvr-ai/go-iou/dataset"
	"github.com/nvr-ai/go-iou/evaluation"
	"github.com/nvr-ai/go-iou/inference/detectors"
	"github.com/nvr-ai/go-iou/logger"
	"github.com/nvr-ai/go-iou/models"
	"github.com/nvr-ai/go-iou/models/model"
	"github.com/nvr-ai/go-iou/profiler"
	"github.com/nvr-ai/go-iou/render"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const windowTitle = "Display window"

type options struct {
	configPath string
	envFile    string
	headless   bool
	auto       bool
	debug      bool
	width      int
}

func main() {
	parser := argparse.NewParser("iou", "Evaluate detector accuracy with IoU against ground truth")
	configPath := parser.String("c", "config", &argparse.Options{Help: "Path to the YAML config file (defaults to $" + config.EnvConfig + ")"})
	envFile := parser.String("e", "env", &argparse.Options{Help: "Environment file to load", Default: ".env"})
	headless := parser.Flag("", "headless", &argparse.Options{Help: "Do not open a window; score every image once"})
	auto := parser.Flag("a", "auto", &argparse.Options{Help: "Start in auto-advance mode"})
	debug := parser.Flag("d", "debug", &argparse.Options{Help: "Enable debug logging"})
	width := parser.Int("w", "width", &argparse.Options{Help: "Display width in pixels", Default: 1000})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	opts := options{
		configPath: *configPath,
		envFile:    *envFile,
		headless:   *headless,
		auto:       *auto,
		debug:      *debug,
		width:      *width,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "iou: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if err := config.LoadEnv(opts.envFile); err != nil {
		return err
	}
	if err := logger.Init(opts.debug); err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer logger.Sync()
	log := logger.Log()

	path, err := config.ResolvePath(opts.configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	log.Info("loaded config", zap.String("path", path), zap.String("backend", cfg.YOLO.Backend))

	ds, err := dataset.Load(cfg.Dataset(), nil, logger.Named("dataset"))
	if err != nil {
		return err
	}
	defer ds.Close()

	nms := cfg.NMS()
	m, err := models.NewModel(model.NewModelArgs{
		Name:    model.ModelNameYOLOv4,
		Path:    cfg.YOLO.WeightsFile,
		NMS:     &nms,
		Classes: ds.Classes,
	})
	if err != nil {
		return err
	}

	engine, err := detectors.New(cfg.Detector(), logger.Named("detector"))
	if err != nil {
		return err
	}
	defer engine.Close()

	prof := profiler.New(profiler.Options{})
	session, err := evaluation.NewSession(evaluation.SessionArgs{
		Dataset:  ds,
		Engine:   engine,
		Model:    m,
		Profiler: prof,
		Logger:   logger.Named("evaluation"),
	})
	if err != nil {
		return err
	}

	var driver evaluation.Driver = render.Headless{}
	auto := opts.auto
	if opts.headless {
		auto = true
	} else {
		w := render.NewWindow(windowTitle, opts.width, ds.Classes, logger.Named("render"))
		defer w.Close()
		driver = w
	}

	if err := session.Run(ctx, driver, auto); err != nil {
		if !stoppedEarly(err) {
			return errors.Wrap(err, "evaluation stopped")
		}
		log.Info("evaluation stopped early", zap.Error(err), zap.Int("scored", session.Tracker().Len()))
	}

	prof.Report(log)
	return summarize(os.Stdout, session)
}

// stoppedEarly reports whether a run ended because its context was done.
// Scores recorded before that point still count.
func stoppedEarly(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type accuracySource interface {
	DatasetAccuracy() (float64, error)
}

// summarize prints the dataset accuracy, or a distinct line when no image
// produced a valid score.
func summarize(w io.Writer, src accuracySource) error {
	acc, err := src.DatasetAccuracy()
	if errors.Is(err, evaluation.ErrNoScore) {
		fmt.Fprintln(w, "Total accuracy of this model: no image produced a valid score")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Total accuracy of this model: %f\n", acc)
	return nil
}
