package session

import (
	"time"

	"github.com/goliatone/go-widgetgen/internal/logger"
	"github.com/goliatone/go-widgetgen/pkg/interpreter"
	"github.com/goliatone/go-widgetgen/pkg/responses"
)

// Metrics receives controller events. internal/metrics provides the
// Prometheus implementation.
type Metrics interface {
	ObserveGenerate(outcome string, elapsed time.Duration)
	ObserveEdit(outcome string, elapsed time.Duration)
	EditPending(delta int)
	Submitted()
}

// Outcome labels passed to Metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
	OutcomeStale   = "stale"
)

type noopMetrics struct{}

func (noopMetrics) ObserveGenerate(string, time.Duration) {}
func (noopMetrics) ObserveEdit(string, time.Duration)     {}
func (noopMetrics) EditPending(int)                       {}
func (noopMetrics) Submitted()                            {}

// Option configures a Controller.
type Option func(*Controller)

// WithMergePolicy selects how responses survive an edit. PolicyRetain is the
// default.
func WithMergePolicy(policy responses.MergePolicy) Option {
	return func(c *Controller) {
		if policy != "" {
			c.policy = policy
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetrics attaches a metrics sink.
func WithMetrics(metrics Metrics) Option {
	return func(c *Controller) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}

// WithClock overrides time.Now for conversation timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithInterpreterOptions forwards options to every Render call, for example
// interpreter.WithContainerDefaults.
func WithInterpreterOptions(opts ...interpreter.Option) Option {
	return func(c *Controller) {
		c.interpretOpts = append(c.interpretOpts, opts...)
	}
}
