// Package profiler - Stage timings and custom metrics reported through zap.
package profiler

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Stage names recorded by the evaluation session.
const (
	StageInference   = "inference"
	StagePostprocess = "postprocess"
	StageEvaluate    = "evaluate"
)

// Profiler tracks operation timings and custom metric values.
//
// It does not sample in the background; statistics are computed when Report
// or Stats is called.
type Profiler struct {
	mu         sync.Mutex
	startTime  time.Time
	maxSamples int

	customMetrics  map[string]*MetricTracker
	operationTimes map[string]*TimeTracker
}

// MetricTracker tracks statistics for a custom metric.
type MetricTracker struct {
	values []float64
	sum    float64
	min    float64
	max    float64
	count  int64
}

// TimeTracker tracks operation timing statistics.
type TimeTracker struct {
	durations []time.Duration
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// Options configures the profiler.
type Options struct {
	// MaxSamples caps the samples kept per metric (default: 600).
	MaxSamples int
}

// New creates a profiler.
//
// Arguments:
// - opts: Configuration options for the profiler
//
// Returns:
// - A configured Profiler instance
func New(opts Options) *Profiler {
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = 600
	}
	return &Profiler{
		startTime:      time.Now(),
		maxSamples:     opts.MaxSamples,
		customMetrics:  make(map[string]*MetricTracker),
		operationTimes: make(map[string]*TimeTracker),
	}
}

// RecordMetric records a custom metric value.
//
// Arguments:
// - name: The name of the metric
// - value: The metric value to record
func (p *Profiler) RecordMetric(name string, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, exists := p.customMetrics[name]
	if !exists {
		tracker = &MetricTracker{min: value, max: value}
		p.customMetrics[name] = tracker
	}

	tracker.values = append(tracker.values, value)
	tracker.sum += value
	if len(tracker.values) > p.maxSamples {
		tracker.sum -= tracker.values[0]
		tracker.values = tracker.values[1:]
	}
	tracker.count++

	tracker.min = min(tracker.min, value)
	tracker.max = max(tracker.max, value)
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track
//
// Returns:
// - A function to call when the operation completes. It returns the elapsed time.
func (p *Profiler) StartOperation(name string) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		d := time.Since(start)
		p.RecordOperation(name, d)
		return d
	}
}

// RecordOperation records the completion time of an operation.
func (p *Profiler) RecordOperation(name string, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, exists := p.operationTimes[name]
	if !exists {
		tracker = &TimeTracker{minTime: duration, maxTime: duration}
		p.operationTimes[name] = tracker
	}

	tracker.durations = append(tracker.durations, duration)
	tracker.totalTime += duration
	if len(tracker.durations) > p.maxSamples {
		tracker.totalTime -= tracker.durations[0]
		tracker.durations = tracker.durations[1:]
	}
	tracker.count++

	tracker.minTime = min(tracker.minTime, duration)
	tracker.maxTime = max(tracker.maxTime, duration)
}

// OperationStats summarizes one timed operation.
type OperationStats struct {
	Name  string
	Avg   time.Duration
	Min   time.Duration
	Max   time.Duration
	Count int64
}

// MetricStats summarizes one custom metric.
type MetricStats struct {
	Name  string
	Avg   float64
	Min   float64
	Max   float64
	Count int64
}

// Stats is a snapshot of everything recorded so far.
type Stats struct {
	Uptime     time.Duration
	Operations []OperationStats
	Metrics    []MetricStats
}

// Stats returns a snapshot sorted by name. Averages cover the retained
// samples.
func (p *Profiler) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{Uptime: time.Since(p.startTime)}
	for name, t := range p.operationTimes {
		if len(t.durations) == 0 {
			continue
		}
		s.Operations = append(s.Operations, OperationStats{
			Name:  name,
			Avg:   t.totalTime / time.Duration(len(t.durations)),
			Min:   t.minTime,
			Max:   t.maxTime,
			Count: t.count,
		})
	}
	for name, m := range p.customMetrics {
		if len(m.values) == 0 {
			continue
		}
		s.Metrics = append(s.Metrics, MetricStats{
			Name:  name,
			Avg:   m.sum / float64(len(m.values)),
			Min:   m.min,
			Max:   m.max,
			Count: m.count,
		})
	}

	sort.Slice(s.Operations, func(i, j int) bool { return s.Operations[i].Name < s.Operations[j].Name })
	sort.Slice(s.Metrics, func(i, j int) bool { return s.Metrics[i].Name < s.Metrics[j].Name })
	return s
}

// Report logs the current statistics and memory usage.
func (p *Profiler) Report(log *zap.Logger) {
	s := p.Stats()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	log.Info("profiler report",
		zap.Duration("uptime", s.Uptime.Truncate(time.Millisecond)),
		zap.Uint64("heap_alloc", mem.HeapAlloc),
		zap.Uint64("sys", mem.Sys),
		zap.Uint32("gc_cycles", mem.NumGC),
	)

	for _, op := range s.Operations {
		log.Info("operation timing",
			zap.String("operation", op.Name),
			zap.Duration("avg", op.Avg.Truncate(time.Microsecond)),
			zap.Duration("min", op.Min.Truncate(time.Microsecond)),
			zap.Duration("max", op.Max.Truncate(time.Microsecond)),
			zap.Int64("count", op.Count),
		)
	}
	for _, m := range s.Metrics {
		log.Info("metric",
			zap.String("metric", m.Name),
			zap.Float64("avg", m.Avg),
			zap.Float64("min", m.Min),
			zap.Float64("max", m.Max),
			zap.Int64("count", m.Count),
		)
	}
}
