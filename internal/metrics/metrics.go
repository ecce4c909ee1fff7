package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TriggersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "route_uploader_triggers_total",
		Help: "Total number of upload triggers by category",
	}, []string{"category"})

	TargetChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "route_uploader_target_changes_total",
		Help: "Total number of upload target changes",
	})

	TransfersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "route_uploader_transfers_total",
		Help: "Total number of transfer calls",
	})

	TransfersSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "route_uploader_transfers_success_total",
		Help: "Total number of successful transfer calls",
	})

	TransfersFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "route_uploader_transfers_failed_total",
		Help: "Total number of failed transfer calls",
	})

	StaleWritesDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "route_uploader_stale_writes_discarded_total",
		Help: "Total number of state writes dropped because the target changed",
	})

	TransferDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_uploader_transfer_duration_seconds",
		Help:    "Transfer call duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	SegmentRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "route_uploader_segment_requests_total",
		Help: "Total number of per-segment upload requests by result",
	}, []string{"result"})
)
