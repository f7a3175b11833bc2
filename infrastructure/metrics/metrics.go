package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhl_insights_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_insights_cache_operations_total",
			Help: "Cache operations by kind and outcome",
		},
		[]string{"operation", "result"},
	)

	PipelineStageRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_insights_pipeline_stage_runs_total",
			Help: "Post-game pipeline stage executions by outcome",
		},
		[]string{"stage", "result"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhl_insights_pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"stage"},
	)

	SchedulerJobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_insights_scheduler_job_runs_total",
			Help: "Scheduler job executions by job name and outcome",
		},
		[]string{"job", "result"},
	)

	SchedulerPendingJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nhl_insights_scheduler_pending_jobs",
			Help: "Number of jobs waiting for their trigger time",
		},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_insights_upstream_requests_total",
			Help: "Requests to external APIs by service and outcome",
		},
		[]string{"service", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nhl_insights_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	VideosStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_insights_videos_stored_total",
			Help: "Highlight videos written by type",
		},
		[]string{"video_type"},
	)

	RosterChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nhl_insights_roster_changes_total",
			Help: "Roster changes applied by the sync job",
		},
	)
)

func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

func RecordCache(operation string, ok bool) {
	CacheOperations.WithLabelValues(operation, outcome(ok)).Inc()
}

func RecordStage(stage string, duration time.Duration, err error) {
	PipelineStageRuns.WithLabelValues(stage, outcome(err == nil)).Inc()
	PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func RecordJob(job string, err error) {
	SchedulerJobRuns.WithLabelValues(job, outcome(err == nil)).Inc()
}

func RecordUpstream(service string, err error) {
	UpstreamRequests.WithLabelValues(service, outcome(err == nil)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
