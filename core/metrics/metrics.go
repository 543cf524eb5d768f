// Package metrics defines the sink interface used to record scheduling runs.
// Implementations live in infra/metrics.
package metrics

import "time"

// RunResult summarizes one completed assignment run for observability.
type RunResult struct {
	Date        string
	Meetings    int
	Mentors     int
	Companies   int
	Repeats     int
	Unscheduled int
	Duration    time.Duration
	Time        time.Time
}

// Sink records scheduling run results for observability purposes.
type Sink interface {
	RecordRun(res RunResult) error
}

// NopSink discards all records. It is used when no backend is configured or
// a backend health check fails.
type NopSink struct{}

// RecordRun implements Sink.
func (NopSink) RecordRun(RunResult) error { return nil }
