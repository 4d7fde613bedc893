package guard_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tripswitch/tripswitch"
	"github.com/tripswitch/tripswitch/guard"
)

func TestGuardInvokesAtMostOnce(t *testing.T) {
	tests := []struct {
		name  string
		calls int
	}{
		{
			name:  "A single invocation should deliver once.",
			calls: 1,
		},
		{
			name:  "Repeated invocations should deliver once.",
			calls: 10,
		},
		{
			name:  "A storm of concurrent invocations should deliver once.",
			calls: 100,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert := assert.New(t)

			var delivered int32
			var wg sync.WaitGroup
			done := make(chan struct{})

			cb := guard.New(func(err error, results ...interface{}) {
				atomic.AddInt32(&delivered, 1)
				close(done)
			})

			for i := 0; i < test.calls; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					cb(errors.New("wanted error"))
				}()
			}
			wg.Wait()
			<-done

			// Give late deliveries the chance to show up before counting.
			time.Sleep(10 * time.Millisecond)
			assert.Equal(int32(1), atomic.LoadInt32(&delivered))
		})
	}
}

func TestGuardDeliversAsynchronously(t *testing.T) {
	assert := assert.New(t)

	// The callback blocks until the invoker has returned, a synchronous
	// delivery would deadlock here.
	invokerReturned := make(chan struct{})
	delivered := make(chan struct{})

	cb := guard.New(func(err error, results ...interface{}) {
		<-invokerReturned
		close(delivered)
	})

	cb(nil, "result")
	close(invokerReturned)

	select {
	case <-delivered:
	case <-time.After(1 * time.Second):
		assert.Fail("callback was not delivered")
	}
}

func TestGuardForwardsOutcome(t *testing.T) {
	assert := assert.New(t)

	wantedErr := errors.New("wanted error")
	type outcome struct {
		err     error
		results []interface{}
	}
	outC := make(chan outcome, 1)

	cb := guard.New(func(err error, results ...interface{}) {
		outC <- outcome{err: err, results: results}
	})
	cb(wantedErr, "a", 42)

	res := <-outC
	assert.Equal(wantedErr, res.err)
	assert.Equal([]interface{}{"a", 42}, res.results)
}

func TestGuardIdempotentRewrap(t *testing.T) {
	assert := assert.New(t)

	var delivered int32
	raw := tripswitch.Callback(func(err error, results ...interface{}) {
		atomic.AddInt32(&delivered, 1)
	})
	assert.False(guard.IsGuarded(raw))

	guarded := guard.New(raw)
	assert.True(guard.IsGuarded(guarded))

	// Guarding twice should return the same callback, not a new wrap: a
	// new wrap would carry its own once and deliver a second time.
	reguarded := guard.New(guarded)
	assert.True(guard.IsGuarded(reguarded))

	reguarded(nil)
	guarded(nil)

	time.Sleep(10 * time.Millisecond)
	assert.Equal(int32(1), atomic.LoadInt32(&delivered))
}

func TestGuardNilCallback(t *testing.T) {
	assert := assert.New(t)

	cb := guard.New(nil)
	assert.NotNil(cb)
	assert.NotPanics(func() { cb(errors.New("wanted error")) })
}
