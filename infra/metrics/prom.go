package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/techstars-london/mentormagic/core/metrics"
)

// PromSink exposes scheduling run results as Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	meetings    prometheus.Gauge
	repeats     prometheus.Gauge
	unscheduled prometheus.Gauge
	duration    prometheus.Histogram
}

// NewPromSink creates the sink and registers its collectors. If reg is nil,
// prometheus.DefaultRegisterer is used.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduling_runs_total",
			Help: "Number of completed scheduling runs",
		}, []string{"date"}),
		meetings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "last_run_meetings",
			Help: "Meetings placed by the most recent run",
		}),
		repeats: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "last_run_repeat_pairs",
			Help: "Repeat pairings in the most recent run",
		}),
		unscheduled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "last_run_unscheduled_entities",
			Help: "Entities left unscheduled by the most recent run",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scheduling_run_duration_seconds",
			Help:    "Wall time of scheduling runs",
			Buckets: prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{s.runs, s.meetings, s.repeats, s.unscheduled, s.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RecordRun implements coremetrics.Sink.
func (s *PromSink) RecordRun(res coremetrics.RunResult) error {
	s.runs.WithLabelValues(res.Date).Inc()
	s.meetings.Set(float64(res.Meetings))
	s.repeats.Set(float64(res.Repeats))
	s.unscheduled.Set(float64(res.Unscheduled))
	s.duration.Observe(res.Duration.Seconds())
	return nil
}

// StartPromServer serves the /metrics endpoint until the context is cancelled.
func StartPromServer(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
