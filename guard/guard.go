/*
Package guard normalizes the delivery of completion callbacks.

A command that sometimes invokes its callback before returning and
sometimes after would let the caller's completion logic run in two
different ordering contexts. A guarded callback always runs on its own
goroutine and at most once, so the command's timing is never observable
by the caller and a late or duplicated invocation is inert.
*/
package guard

import (
	"reflect"
	"sync"

	"github.com/tripswitch/tripswitch"
)

// guardPtr identifies callbacks created by wrap. Every closure returned
// by wrap shares the code pointer of its function literal, which no
// foreign callback can have.
var guardPtr = reflect.ValueOf(wrap(func(error, ...interface{}) {})).Pointer()

// New returns a callback that invokes done at most once and always on a
// fresh goroutine, regardless of how, when or how many times it is
// called. Guarding an already guarded callback returns it unchanged.
// A nil done is replaced with a no-op so the caller may omit it.
func New(done tripswitch.Callback) tripswitch.Callback {
	if done == nil {
		done = func(error, ...interface{}) {}
	}
	if IsGuarded(done) {
		return done
	}
	return wrap(done)
}

// IsGuarded returns true if the callback has been installed by this
// package.
func IsGuarded(cb tripswitch.Callback) bool {
	return cb != nil && reflect.ValueOf(cb).Pointer() == guardPtr
}

func wrap(done tripswitch.Callback) tripswitch.Callback {
	var once sync.Once
	return func(err error, results ...interface{}) {
		once.Do(func() {
			go done(err, results...)
		})
	}
}
