package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "papertrade_job_runs_total",
		Help: "Pipeline job executions by outcome.",
	}, []string{"job", "status"})

	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "papertrade_job_duration_seconds",
		Help:    "Pipeline job wall-clock duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
)
