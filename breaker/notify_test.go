package breaker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tripswitch/tripswitch"
	"github.com/tripswitch/tripswitch/breaker"
	"github.com/tripswitch/tripswitch/metrics"
)

// spyRecorder records every notification so the tests can assert on the
// breaker observability contract.
type spyRecorder struct {
	mu           sync.Mutex
	id           string
	started      int
	rejects      int
	timeouts     int
	failures     int
	successes    int
	observations int
	stateChanges []string
}

func (s *spyRecorder) WithID(id string) metrics.Recorder {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	return s
}

func (s *spyRecorder) IncCommandStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
}

func (s *spyRecorder) IncReject() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejects++
}

func (s *spyRecorder) IncTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeouts++
}

func (s *spyRecorder) IncFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures++
}

func (s *spyRecorder) IncSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successes++
}

func (s *spyRecorder) ObserveCommandExecution(start time.Time, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observations++
}

func (s *spyRecorder) IncCircuitbreakerState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateChanges = append(s.stateChanges, state)
}

func (s *spyRecorder) snapshot() spyRecorder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return spyRecorder{
		id:           s.id,
		started:      s.started,
		rejects:      s.rejects,
		timeouts:     s.timeouts,
		failures:     s.failures,
		successes:    s.successes,
		observations: s.observations,
		stateChanges: append([]string{}, s.stateChanges...),
	}
}

func TestBreakerNotifications(t *testing.T) {
	assert := assert.New(t)

	rec := &spyRecorder{}
	b, err := breaker.New(flakyCmd, breaker.Config{
		ID:              "test",
		MaxFailures:     2,
		MetricsRecorder: rec,
	})
	assert.NoError(err)

	runSync(t, b)         // success
	runSync(t, b, "fail") // failure
	runSync(t, b, "fail") // failure, opens the circuit
	runSync(t, b)         // rejected

	got := rec.snapshot()
	assert.Equal("test", got.id)
	assert.Equal(3, got.started)
	assert.Equal(1, got.rejects)
	assert.Equal(2, got.failures)
	assert.Equal(1, got.successes)
	assert.Equal(3, got.observations)
	assert.Equal([]string{"open"}, got.stateChanges)
}

func TestBreakerNotificationsOnNoopTransitions(t *testing.T) {
	assert := assert.New(t)

	rec := &spyRecorder{}
	b, err := breaker.New(flakyCmd, breaker.Config{
		MetricsRecorder: rec,
	})
	assert.NoError(err)

	// Forcing the current state emits nothing.
	b.Close()
	assert.Empty(rec.snapshot().stateChanges)

	b.Open()
	b.Open()
	b.HalfOpen()
	b.HalfOpen()
	b.Close()
	b.Close()

	assert.Equal([]string{"open", "half_open", "close"}, rec.snapshot().stateChanges)
}

func TestBreakerTimeoutNotification(t *testing.T) {
	assert := assert.New(t)

	hungCmd := tripswitch.CommandFunc(func(ctx context.Context, done tripswitch.Callback, args ...interface{}) {})

	rec := &spyRecorder{}
	b, err := breaker.New(hungCmd, breaker.Config{
		Timeout:         10 * time.Millisecond,
		MetricsRecorder: rec,
	})
	assert.NoError(err)

	runSync(t, b)

	got := rec.snapshot()
	assert.Equal(1, got.timeouts)
	assert.Equal(1, got.failures)
}
