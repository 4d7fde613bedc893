package breaker

import (
	"context"
	"time"

	"github.com/tripswitch/tripswitch"
	"github.com/tripswitch/tripswitch/errors"
	"github.com/tripswitch/tripswitch/metrics"
)

const (
	defaultMaxFailures  = 5
	defaultTimeout      = 3 * time.Second
	defaultResetTimeout = 10 * time.Second
)

// Fallback is the capability a breaker needs from its fallback: another
// protected path run with the original arguments when the primary is
// open and failing. *Breaker satisfies it. Wiring breakers into a
// fallback cycle is a caller error, no cycle detection is made.
type Fallback interface {
	Run(ctx context.Context, done tripswitch.Callback, args ...interface{})
}

// Config is the configuration of the breaker.
type Config struct {
	// ID identifies the breaker on the emitted notifications.
	ID string
	// MaxFailures is the absolute number of trip worthy failures that
	// will open the circuit. Mutually exclusive with MaxFailureThreshold.
	MaxFailures int
	// MaxFailureThreshold is the failure percent (based on every
	// completed execution since the last reset) that will open the
	// circuit. Mutually exclusive with MaxFailures.
	MaxFailureThreshold int
	// Timeout is how long an execution can take before it is deemed
	// hung and failed with a timeout error.
	Timeout time.Duration
	// ResetTimeout is how long the circuit stays open before moving to
	// half open state and admitting a probe execution.
	ResetTimeout time.Duration
	// IsFailure classifies an error as trip worthy. By default any
	// non nil error trips.
	IsFailure func(err error) bool
	// OpenMessage is the message of the error returned on open circuit
	// rejections. Empty uses the default message.
	OpenMessage string
	// TimeoutMessage is the message of the error returned on execution
	// timeouts. Empty uses the default message.
	TimeoutMessage string
	// Fallback, if set, will be run with the original arguments instead
	// of surfacing the error to the caller when an execution fails
	// while the circuit is open, and on every rejection, the half open
	// single probe gate included.
	Fallback Fallback
	// MetricsRecorder receives the breaker notifications. Nil uses a
	// no-op recorder.
	MetricsRecorder metrics.Recorder
}

func (c *Config) validate() error {
	if c.MaxFailures > 0 && c.MaxFailureThreshold > 0 {
		return errors.ErrBothFailurePolicies
	}
	return nil
}

func (c *Config) defaults() {
	if c.MaxFailures <= 0 && c.MaxFailureThreshold <= 0 {
		c.MaxFailures = defaultMaxFailures
	}

	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	if c.ResetTimeout <= 0 {
		c.ResetTimeout = defaultResetTimeout
	}

	if c.IsFailure == nil {
		c.IsFailure = func(err error) bool { return err != nil }
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Dummy
	}
}
