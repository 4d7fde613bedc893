package errors

import "errors"

var (
	// ErrCircuitOpen will be used when the circuit is open and the
	// execution has been rejected without reaching the command.
	ErrCircuitOpen = errors.New("circuit open, command not available")
	// ErrTimeout will be used when a execution timesout.
	ErrTimeout = errors.New("command execution timed out")
	// ErrCommandIsNil is the error used when the command of a breaker is nil.
	ErrCommandIsNil = errors.New("command can't be nil")
	// ErrBothFailurePolicies is the error used when a breaker is configured
	// with an absolute failure count and a failure percentage threshold at
	// the same time.
	ErrBothFailurePolicies = errors.New("max failures and max failure threshold can't be set at the same time")
)

// Is reports whether any error in err's chain matches target, so the
// callers of this package don't need to import the standard errors
// package as well.
func Is(err, target error) bool { return errors.Is(err, target) }

// openError is an open circuit rejection with a custom message. It still
// matches ErrCircuitOpen with errors.Is.
type openError struct {
	msg string
}

func (e openError) Error() string { return e.msg }

func (e openError) Is(target error) bool { return target == ErrCircuitOpen }

// NewOpen returns an open circuit rejection error with a custom message,
// an empty message falls back to ErrCircuitOpen itself.
func NewOpen(msg string) error {
	if msg == "" {
		return ErrCircuitOpen
	}
	return openError{msg: msg}
}

// timeoutError is an execution timeout with a custom message. It still
// matches ErrTimeout with errors.Is.
type timeoutError struct {
	msg string
}

func (e timeoutError) Error() string { return e.msg }

func (e timeoutError) Is(target error) bool { return target == ErrTimeout }

// NewTimeout returns an execution timeout error with a custom message,
// an empty message falls back to ErrTimeout itself.
func NewTimeout(msg string) error {
	if msg == "" {
		return ErrTimeout
	}
	return timeoutError{msg: msg}
}
