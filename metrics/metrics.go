package metrics

import "time"

// Recorder receives the breaker lifecycle notifications. These are
// advisory signals for external monitoring, they are not part of the
// control flow contract.
type Recorder interface {
	// WithID will set the ID name to the recorder and every metric
	// measured with the obtained recorder will be identified with
	// the name.
	WithID(id string) Recorder
	// IncCommandStarted will increment the number of executions started.
	IncCommandStarted()
	// IncReject will increment the number of executions rejected on an
	// open circuit.
	IncReject()
	// IncTimeout will increment the number of executions that hit the
	// deadline.
	IncTimeout()
	// IncFailure will increment the number of trip worthy failures.
	IncFailure()
	// IncSuccess will increment the number of executions that did not
	// count as a failure.
	IncSuccess()
	// ObserveCommandExecution will measure the execution of the command.
	ObserveCommandExecution(start time.Time, success bool)
	// IncCircuitbreakerState increments the number of state changes.
	// Only fired on actual transitions, never on no-op ones.
	IncCircuitbreakerState(state string)
}
