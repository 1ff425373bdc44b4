package evaluation

import (
	"context"
	"time"

	"github.com/nvr-ai/go-iou/dataset"
	"github.com/nvr-ai/go-iou/inference"
	"github.com/nvr-ai/go-iou/models/model"
	"github.com/nvr-ai/go-iou/profiler"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ReasonInferenceFailed marks an image whose forward pass returned an error.
const ReasonInferenceFailed = "inference failed"

// ImageResult is everything computed for one visit of one image.
type ImageResult struct {
	Index  int
	Record *dataset.Record
	Score  ImageScore
	// Err is the inference error, if any.
	Err           error
	InferenceTime time.Duration
	TotalTime     time.Duration
}

// Reporter consumes image results. Reporters must not modify the record.
type Reporter interface {
	Report(result ImageResult)
}

// Command is what a driver asks the session to do after an image.
type Command int

const (
	// CommandStay keeps the current image, or advances in auto mode.
	CommandStay Command = iota
	// CommandNext moves to the next image, wrapping at the end.
	CommandNext
	// CommandPrev moves to the previous image, wrapping at the start.
	CommandPrev
	// CommandToggleAuto switches auto-advance on or off.
	CommandToggleAuto
	// CommandQuit stops the run.
	CommandQuit
)

// Driver decides where to go after each visited image, for example by
// waiting for a key press.
type Driver interface {
	Next(ctx context.Context, result ImageResult, auto bool) Command
}

// SessionArgs holds the collaborators of a session.
type SessionArgs struct {
	Dataset   *dataset.Dataset
	Engine    inference.Engine
	Model     model.Model
	Profiler  *profiler.Profiler
	Logger    *zap.Logger
	Reporters []Reporter
}

// Session evaluates a detector over a dataset one image at a time.
type Session struct {
	records   []*dataset.Record
	engine    inference.Engine
	model     model.Model
	tracker   *Tracker
	profiler  *profiler.Profiler
	log       *zap.Logger
	reporters []Reporter
}

// NewSession validates the collaborators and creates a session.
func NewSession(args SessionArgs) (*Session, error) {
	if args.Dataset == nil || len(args.Dataset.Records) == 0 {
		return nil, errors.Wrap(dataset.ErrNoImages, "session")
	}
	if args.Engine == nil {
		return nil, errors.New("session requires an engine")
	}
	if args.Model == nil {
		return nil, errors.New("session requires a model")
	}

	s := &Session{
		records:   args.Dataset.Records,
		engine:    args.Engine,
		model:     args.Model,
		tracker:   NewTracker(),
		profiler:  args.Profiler,
		log:       args.Logger,
		reporters: args.Reporters,
	}
	if s.profiler == nil {
		s.profiler = profiler.New(profiler.Options{})
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s, nil
}

// Tracker returns the per-image accuracy tracker.
func (s *Session) Tracker() *Tracker {
	return s.tracker
}

// Profiler returns the stage profiler.
func (s *Session) Profiler() *profiler.Profiler {
	return s.profiler
}

// Len returns the number of images.
func (s *Session) Len() int {
	return len(s.records)
}

// Visit runs inference, post-processing, matching and scoring for one image
// and records its accuracy.
//
// The predicted boxes of the record are recomputed from scratch on every
// visit. An inference error makes the image invalid for this visit and is
// not returned; only context cancellation is.
//
// Arguments:
//   - ctx: The context.
//   - index: The image index.
//
// Returns:
//   - ImageResult: The visit result, also passed to every reporter.
//   - error: A context error, or an out-of-range index.
func (s *Session) Visit(ctx context.Context, index int) (ImageResult, error) {
	if index < 0 || index >= len(s.records) {
		return ImageResult{}, errors.Errorf("image index %d out of range [0, %d)", index, len(s.records))
	}
	if err := ctx.Err(); err != nil {
		return ImageResult{}, err
	}

	start := time.Now()
	rec := s.records[index]
	result := ImageResult{Index: index, Record: rec}

	stop := s.profiler.StartOperation(profiler.StageInference)
	outputs, err := s.engine.Infer(ctx, rec.Image)
	result.InferenceTime = stop()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ImageResult{}, ctxErr
		}
		result.Err = err
	}

	stop = s.profiler.StartOperation(profiler.StagePostprocess)
	rec.Predicted = nil
	if result.Err == nil {
		rec.Predicted = s.model.PostProcess(outputs, rec.Size())
	}
	stop()

	stop = s.profiler.StartOperation(profiler.StageEvaluate)
	if result.Err != nil {
		result.Score = ImageScore{Reason: ReasonInferenceFailed}
	} else {
		result.Score = ScoreImage(rec.GroundTruth, rec.Predicted)
	}
	s.tracker.Record(rec.Identity, result.Score)
	stop()

	result.TotalTime = time.Since(start)
	s.logResult(result)

	if result.Score.Valid {
		s.profiler.RecordMetric("image_accuracy", result.Score.Accuracy)
	}
	s.profiler.RecordMetric("detections", float64(len(rec.Predicted)))

	for _, r := range s.reporters {
		r.Report(result)
	}
	return result, nil
}

func (s *Session) logResult(result ImageResult) {
	rec := result.Record
	fields := []zap.Field{
		zap.Int("index", result.Index),
		zap.String("name", rec.Identity),
		zap.Int("labels", len(rec.GroundTruth)),
		zap.Int("detections", len(rec.Predicted)),
		zap.Duration("inference", result.InferenceTime),
	}

	switch {
	case result.Err != nil:
		s.log.Warn("inference failed", append(fields, zap.Error(result.Err))...)
	case !result.Score.Valid:
		s.log.Warn("invalid detections", append(fields, zap.String("reason", result.Score.Reason))...)
	default:
		s.log.Info("image scored", append(fields,
			zap.Int("matches", len(result.Score.Pairs)),
			zap.Float64("accuracy", result.Score.Accuracy),
		)...)
	}
}

// Run visits images until the driver quits, auto-advance passes the last
// image, or ctx is done.
//
// After each visit the driver's command is applied. CommandNext and
// CommandPrev move exactly one image in either mode; CommandStay and
// CommandToggleAuto advance one image when auto mode is on.
//
// Arguments:
//   - ctx: The context. Cancellation stops the run before the next visit.
//   - driver: Chooses the next image.
//   - auto: Whether to start in auto-advance mode.
//
// Returns:
//   - error: The context error when cancelled, otherwise nil.
func (s *Session) Run(ctx context.Context, driver Driver, auto bool) error {
	cursor := NewCursor(len(s.records))
	cursor.SetAuto(auto)

	for {
		result, err := s.Visit(ctx, cursor.Index())
		if err != nil {
			return err
		}

		switch driver.Next(ctx, result, cursor.Auto()) {
		case CommandQuit:
			return nil
		case CommandNext:
			cursor.Next()
			continue
		case CommandPrev:
			cursor.Prev()
			continue
		case CommandToggleAuto:
			cursor.ToggleAuto()
		}

		if cursor.Auto() && !cursor.Advance() {
			return nil
		}
	}
}

// DatasetAccuracy returns the mean of the latest valid accuracy of every
// scored image, or ErrNoScore.
func (s *Session) DatasetAccuracy() (float64, error) {
	return s.tracker.Accuracy()
}
