package metrics

import "time"

// Dummy is a no-op recorder, safe to use when no measurement is wanted.
var Dummy Recorder = dummy(0)

type dummy int

func (dummy) WithID(id string) Recorder { return Dummy }

func (dummy) IncCommandStarted() {}

func (dummy) IncReject() {}

func (dummy) IncTimeout() {}

func (dummy) IncFailure() {}

func (dummy) IncSuccess() {}

func (dummy) ObserveCommandExecution(start time.Time, success bool) {}

func (dummy) IncCircuitbreakerState(state string) {}
