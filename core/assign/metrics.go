package assign

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	meetingsScheduled   prometheus.Counter
	repeatPairs         prometheus.Counter
	unscheduledEntities *prometheus.CounterVec
	assignDuration      prometheus.Histogram
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, prometheus.Counter, *prometheus.CounterVec, prometheus.Histogram) {
	meetings := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meetings_scheduled_total",
			Help: "Number of meetings placed by the assignment engine",
		},
	)
	repeats := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "repeat_pairs_total",
			Help: "Number of scheduled meetings repeating a pair already in history",
		},
	)
	unsched := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unscheduled_entities_total",
			Help: "Number of mentors and companies left without any meeting",
		},
		[]string{"kind", "reason"},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assignment_duration_seconds",
			Help:    "Wall time of one assignment run",
			Buckets: prometheus.DefBuckets,
		},
	)
	return meetings, repeats, unsched, dur
}

func init() {
	meetingsScheduled, repeatPairs, unscheduledEntities, assignDuration = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers assignment metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(meetingsScheduled, repeatPairs, unscheduledEntities, assignDuration)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	meetingsScheduled, repeatPairs, unscheduledEntities, assignDuration = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
