package checker

import "github.com/prometheus/client_golang/prometheus"

var (
	verdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctf_checker",
			Subsystem: "checker",
			Name:      "verdicts_total",
			Help:      "Terminal statuses written by the checker.",
		},
		[]string{"status", "strategy"},
	)
	orphansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctf_checker",
			Subsystem: "checker",
			Name:      "orphans_total",
			Help:      "Submissions purged because their user or challenge no longer exists.",
		},
		[]string{"reason"},
	)
	failuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctf_checker",
			Subsystem: "checker",
			Name:      "failures_total",
			Help:      "Check attempts abandoned with the submission left pending.",
		},
		[]string{"stage"},
	)
	checkDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ctf_checker",
			Subsystem: "checker",
			Name:      "check_duration_seconds",
			Help:      "Time spent checking one submission.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ctf_checker",
			Subsystem: "checker",
			Name:      "queue_depth",
			Help:      "Submissions waiting in the dispatch queue.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		verdictsTotal,
		orphansTotal,
		failuresTotal,
		checkDurationSeconds,
		queueDepth,
	)
}
