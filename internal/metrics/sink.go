// Package metrics records operation latencies. Measurements flow into an
// injected Sink, so tests and sessions can keep their own records while the
// server exports the same data to Prometheus.
package metrics

import (
	"time"
)

// Status values of a Measurement.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Measurement is one timed operation.
type Measurement struct {
	Timestamp   time.Time     `json:"timestamp"`
	Source      string        `json:"source"`
	Destination string        `json:"destination"`
	Operation   string        `json:"operation"`
	Duration    time.Duration `json:"duration"`
	Status      string        `json:"status"`
	Details     string        `json:"details,omitempty"`
}

type Sink interface {
	Observe(Measurement)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) Observe(Measurement) {}

// Measure runs fn, records how long it took in sink and returns fn's error.
// A failing fn is recorded with StatusError and the error text as details.
func Measure(sink Sink, source, destination, operation string, fn func() error) error {
	start := clock()
	err := fn()
	m := Measurement{
		Timestamp:   start,
		Source:      source,
		Destination: destination,
		Operation:   operation,
		Duration:    clock().Sub(start),
		Status:      StatusOK,
	}
	if err != nil {
		m.Status = StatusError
		m.Details = err.Error()
	}
	if sink != nil {
		sink.Observe(m)
	}
	return err
}

// clock is swapped in tests.
var clock = time.Now

// Multi fans every measurement out to all sinks in order.
type Multi []Sink

func (m Multi) Observe(x Measurement) {
	for _, s := range m {
		if s != nil {
			s.Observe(x)
		}
	}
}
