package breaker

// counter knows how to account completed executions for a breaker and
// decide when the accumulated failures should trip the circuit open.
// It is not safe for concurrent use, the breaker serializes access.
type counter interface {
	// record accounts one completed execution and returns true when the
	// failure policy says the circuit should trip.
	record(failure bool) (tripped bool)
	// reset clears the accounting.
	reset()
}

// absoluteCounter trips after a fixed number of trip worthy failures,
// the failure being recorded included.
type absoluteCounter struct {
	maxFailures int
	failures    int
}

func (c *absoluteCounter) record(failure bool) bool {
	if !failure {
		return false
	}
	c.failures++
	return c.failures >= c.maxFailures
}

func (c *absoluteCounter) reset() {
	c.failures = 0
}

// thresholdCounter trips when a trip worthy failure arrives while the
// failure percent over the previously completed executions already
// reaches the threshold. A first failure alone never trips, there is
// no rate to evaluate yet.
type thresholdCounter struct {
	threshold int
	requests  int
	failures  int
}

func (c *thresholdCounter) record(failure bool) bool {
	tripped := failure && c.requests > 0 &&
		float64(c.failures)/float64(c.requests)*100 >= float64(c.threshold)

	c.requests++
	if failure {
		c.failures++
	}
	return tripped
}

func (c *thresholdCounter) reset() {
	c.requests = 0
	c.failures = 0
}

func newCounter(cfg Config) counter {
	if cfg.MaxFailureThreshold > 0 {
		return &thresholdCounter{threshold: cfg.MaxFailureThreshold}
	}
	return &absoluteCounter{maxFailures: cfg.MaxFailures}
}
