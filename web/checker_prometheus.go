package web

import "github.com/prometheus/client_golang/prometheus"

var (
	enqueueSubmissionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctf_checker",
			Subsystem: "http",
			Name:      "enqueue_submission_requests_total",
			Help:      "EnqueueSubmission requests total.",
		},
		[]string{"code", "reason"},
	)
	exportCheatReportRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctf_checker",
			Subsystem: "http",
			Name:      "export_cheat_report_requests_total",
			Help:      "ExportCheatReport requests total.",
		},
		[]string{"code", "reason", "format"},
	)
	exportCheatReportDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ctf_checker",
			Subsystem: "http",
			Name:      "export_cheat_report_duration_seconds",
			Help:      "ExportCheatReport duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"code", "reason", "format"},
	)
)

func init() {
	prometheus.MustRegister(
		enqueueSubmissionRequestsTotal,
		exportCheatReportRequestsTotal,
		exportCheatReportDurationSeconds,
	)
}
