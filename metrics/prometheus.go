package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	promNamespace = "tripswitch"

	promCommandSubsystem = "command"
	promCBSubsystem      = "circuitbreaker"
)

type prometheusRec struct {
	// Metrics.
	cmdStarted           *prometheus.CounterVec
	cmdRejects           *prometheus.CounterVec
	cmdTimeouts          *prometheus.CounterVec
	cmdFailures          *prometheus.CounterVec
	cmdSuccesses         *prometheus.CounterVec
	cmdExecutionDuration *prometheus.HistogramVec
	cbStateChanges       *prometheus.CounterVec

	id  string
	reg prometheus.Registerer
}

// NewPrometheusRecorder returns a new Recorder that knows how to measure
// using Prometheus kind metrics.
func NewPrometheusRecorder(reg prometheus.Registerer) Recorder {
	p := &prometheusRec{
		reg: reg,
	}

	p.registerMetrics()
	return p
}

func (p prometheusRec) WithID(id string) Recorder {
	return &prometheusRec{
		cmdStarted:           p.cmdStarted,
		cmdRejects:           p.cmdRejects,
		cmdTimeouts:          p.cmdTimeouts,
		cmdFailures:          p.cmdFailures,
		cmdSuccesses:         p.cmdSuccesses,
		cmdExecutionDuration: p.cmdExecutionDuration,
		cbStateChanges:       p.cbStateChanges,

		id:  id,
		reg: p.reg,
	}
}

func (p *prometheusRec) registerMetrics() {
	p.cmdStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promCommandSubsystem,
		Name:      "started_total",
		Help:      "Total number of command executions started.",
	}, []string{"id"})

	p.cmdRejects = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promCommandSubsystem,
		Name:      "rejects_total",
		Help:      "Total number of executions rejected on an open circuit.",
	}, []string{"id"})

	p.cmdTimeouts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promCommandSubsystem,
		Name:      "timeouts_total",
		Help:      "Total number of executions that hit the deadline.",
	}, []string{"id"})

	p.cmdFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promCommandSubsystem,
		Name:      "failures_total",
		Help:      "Total number of trip worthy failures.",
	}, []string{"id"})

	p.cmdSuccesses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promCommandSubsystem,
		Name:      "successes_total",
		Help:      "Total number of executions that did not count as a failure.",
	}, []string{"id"})

	p.cmdExecutionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promCommandSubsystem,
		Name:      "execution_duration_seconds",
		Help:      "The duration of the command execution in seconds.",
	}, []string{"id", "success"})

	p.cbStateChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promCBSubsystem,
		Name:      "state_changes_total",
		Help:      "Total number of state changes made by the circuit breaker.",
	}, []string{"id", "state"})

	p.reg.MustRegister(p.cmdStarted,
		p.cmdRejects,
		p.cmdTimeouts,
		p.cmdFailures,
		p.cmdSuccesses,
		p.cmdExecutionDuration,
		p.cbStateChanges,
	)
}

func (p prometheusRec) IncCommandStarted() {
	p.cmdStarted.WithLabelValues(p.id).Inc()
}

func (p prometheusRec) IncReject() {
	p.cmdRejects.WithLabelValues(p.id).Inc()
}

func (p prometheusRec) IncTimeout() {
	p.cmdTimeouts.WithLabelValues(p.id).Inc()
}

func (p prometheusRec) IncFailure() {
	p.cmdFailures.WithLabelValues(p.id).Inc()
}

func (p prometheusRec) IncSuccess() {
	p.cmdSuccesses.WithLabelValues(p.id).Inc()
}

func (p prometheusRec) ObserveCommandExecution(start time.Time, success bool) {
	secs := time.Since(start).Seconds()
	p.cmdExecutionDuration.WithLabelValues(p.id, fmt.Sprintf("%t", success)).Observe(secs)
}

func (p prometheusRec) IncCircuitbreakerState(state string) {
	p.cbStateChanges.WithLabelValues(p.id, state).Inc()
}
