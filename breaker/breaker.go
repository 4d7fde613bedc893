/*
Package breaker implements a circuit breaker around an asynchronous
command that completes through an error-first callback.

The circuit starts closed and executions flow to the command. Every
execution races a deadline timer, whichever finishes first owns the
outcome and the other one is inert. Trip worthy failures are accounted
with an absolute count or a failure percent policy, when the policy
trips the circuit opens and executions are rejected without reaching
the command. After a reset timeout the circuit moves to half open and
admits exactly one probe execution, a successful probe closes the
circuit again, a failed one reopens it.
*/
package breaker

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/tripswitch/tripswitch"
	"github.com/tripswitch/tripswitch/errors"
	"github.com/tripswitch/tripswitch/guard"
	"github.com/tripswitch/tripswitch/metrics"
)

// State is the admission state of a breaker.
type State int

const (
	// StateClosed is the normal operation state, executions flow to the
	// command.
	StateClosed State = iota
	// StateOpen is the tripped state, executions are rejected without
	// reaching the command.
	StateOpen
	// StateHalfOpen is the probation state, a single probe execution is
	// admitted to check if the command recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "close"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker is a circuit breaker for a single command. Safe for
// concurrent use.
type Breaker struct {
	cfg Config
	cmd tripswitch.Command
	rec metrics.Recorder

	mu           sync.Mutex
	state        State
	counter      counter
	pendingClose bool
	resetTimer   *time.Timer
}

// New returns a new breaker protecting cmd.
func New(cmd tripswitch.Command, cfg Config) (*Breaker, error) {
	if cmd == nil {
		return nil, errors.ErrCommandIsNil
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.defaults()

	return &Breaker{
		cfg:     cfg,
		cmd:     cmd,
		rec:     cfg.MetricsRecorder.WithID(cfg.ID),
		state:   StateClosed,
		counter: newCounter(cfg),
	}, nil
}

// Run executes the protected command subject to the circuit state and
// reports the outcome on done. done is always invoked asynchronously
// and exactly once per call, on rejections as well as on completions.
// A panic raised synchronously by the command is accounted as a trip
// worthy failure and then propagated to the caller of Run.
func (b *Breaker) Run(ctx context.Context, done tripswitch.Callback, args ...interface{}) {
	admitted, probe := b.allow()
	if !admitted {
		b.rec.IncReject()
		deliver := done
		if b.cfg.Fallback != nil {
			// A rejection reroutes no matter if the circuit refused it
			// in open state or while a half open probe was in flight.
			deliver = func(error, ...interface{}) {
				b.cfg.Fallback.Run(ctx, done, args...)
			}
		}
		guard.New(deliver)(errors.NewOpen(b.cfg.OpenMessage))
		return
	}

	deliver := done
	if b.cfg.Fallback != nil {
		deliver = func(err error, results ...interface{}) {
			// Reroute to the fallback only when the execution errored
			// and the circuit is open at that moment.
			if err != nil && b.IsOpen() {
				b.cfg.Fallback.Run(ctx, done, args...)
				return
			}
			if done != nil {
				done(err, results...)
			}
		}
	}

	b.rec.IncCommandStarted()

	c := &call{b: b, deliver: deliver, probe: probe, start: time.Now(), settled: make(chan struct{})}
	handler := guard.New(c.complete)

	// The deadline races the real completion through the shared guarded
	// handler, settling releases the timer goroutine.
	timer := time.NewTimer(b.cfg.Timeout)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.C:
			handler(errors.NewTimeout(b.cfg.TimeoutMessage))
		case <-c.settled:
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			c.settle(fmt.Errorf("command panicked: %v", r))
			panic(r)
		}
	}()
	b.cmd.Execute(ctx, handler, args...)
}

// allow decides if an execution is admitted, marking it as the single
// probe when admitting in half open state.
func (b *Breaker) allow() (admitted, probe bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		return false, false
	case StateHalfOpen:
		if b.pendingClose {
			return false, false
		}
		b.pendingClose = true
		return true, true
	}
	return true, false
}

// call is the per execution state: whether it is the half open probe,
// the settled channel releasing the deadline goroutine and the once
// that makes the outcome exclusive.
type call struct {
	b       *Breaker
	deliver tripswitch.Callback
	probe   bool
	start   time.Time
	settled chan struct{}
	once    sync.Once
}

// complete is the shared completion handler, fired through the guard by
// the command, by the deadline timer, whichever happens first.
func (c *call) complete(err error, results ...interface{}) {
	c.settle(err)
	if c.deliver != nil {
		c.deliver(err, results...)
	}
}

// settle records the outcome on the breaker, at most once per call.
func (c *call) settle(err error) {
	c.once.Do(func() {
		close(c.settled)
		c.b.afterExecution(err, c.start, c.probe)
	})
}

// afterExecution accounts the outcome of a finished execution and moves
// the state machine.
func (b *Breaker) afterExecution(err error, start time.Time, probe bool) {
	failure := err != nil && b.cfg.IsFailure(err)

	b.mu.Lock()
	tripped := b.counter.record(failure)

	switch b.state {
	case StateHalfOpen:
		// Only the admitted probe decides the half open outcome, a
		// stale execution admitted before the circuit opened is just
		// accounted. A single probe failure reopens the circuit
		// regardless of the configured policy.
		if probe {
			if failure {
				b.openLocked()
			} else {
				b.closeLocked()
			}
		}
	case StateClosed:
		if tripped {
			b.openLocked()
		}
	}
	b.mu.Unlock()

	if stderrors.Is(err, errors.ErrTimeout) {
		b.rec.IncTimeout()
	}
	if failure {
		b.rec.IncFailure()
	} else {
		b.rec.IncSuccess()
	}
	b.rec.ObserveCommandExecution(start, err == nil)
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// IsOpen returns true if the circuit is open.
func (b *Breaker) IsOpen() bool { return b.State() == StateOpen }

// IsHalfOpen returns true if the circuit is half open.
func (b *Breaker) IsHalfOpen() bool { return b.State() == StateHalfOpen }

// IsClosed returns true if the circuit is closed.
func (b *Breaker) IsClosed() bool { return b.State() == StateClosed }

// Name returns the configured breaker ID.
func (b *Breaker) Name() string { return b.cfg.ID }

// Open forces the circuit into open state. Moving to the current state
// is a no-op and emits no notification.
func (b *Breaker) Open() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.openLocked()
}

// HalfOpen forces the circuit into half open state. Moving to the
// current state is a no-op and emits no notification.
func (b *Breaker) HalfOpen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.halfOpenLocked()
}

// Close forces the circuit into closed state resetting the failure
// accounting. Moving to the current state is a no-op and emits no
// notification.
func (b *Breaker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

func (b *Breaker) openLocked() {
	if b.state == StateOpen {
		return
	}
	b.state = StateOpen
	b.pendingClose = false

	// The reset timer exists only while the circuit is open.
	b.stopResetTimerLocked()
	b.resetTimer = time.AfterFunc(b.cfg.ResetTimeout, b.HalfOpen)

	b.rec.IncCircuitbreakerState(StateOpen.String())
}

func (b *Breaker) halfOpenLocked() {
	if b.state == StateHalfOpen {
		return
	}
	b.state = StateHalfOpen
	b.pendingClose = false
	b.stopResetTimerLocked()

	b.rec.IncCircuitbreakerState(StateHalfOpen.String())
}

func (b *Breaker) closeLocked() {
	if b.state == StateClosed {
		return
	}
	b.state = StateClosed
	b.pendingClose = false
	b.counter.reset()
	b.stopResetTimerLocked()

	b.rec.IncCircuitbreakerState(StateClosed.String())
}

func (b *Breaker) stopResetTimerLocked() {
	if b.resetTimer != nil {
		b.resetTimer.Stop()
		b.resetTimer = nil
	}
}
