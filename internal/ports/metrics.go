package ports

import "time"

// MetricsCollector abstracts the metrics backend used to observe simulation
// runs and sweeps. Implementations could use Prometheus, StatsD, or an
// in-memory recorder for tests.
type MetricsCollector interface {
	// RecordLatency records the duration of an operation such as a single
	// engine invocation. Labels carry dimensions like the process name.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a monotonic counter such as the number of
	// simulations attempted or failed.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets a point-in-time value such as the Peclet number of
	// the sweep point currently being simulated.
	RecordGauge(metric string, value float64, labels map[string]string)
}
