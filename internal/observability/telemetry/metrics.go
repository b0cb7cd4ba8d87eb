package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	RecordsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carboniq_records_ingested_total",
		Help: "Total emission records accepted into the store",
	})

	RowsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carboniq_ingest_rows_skipped_total",
		Help: "Input rows dropped during ingestion (unknown source, bad amount/date)",
	})

	ReportsGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carboniq_reports_generated_total",
		Help: "Reports generated, by format and outcome",
	}, []string{"format", "status"})

	AlertsRaisedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carboniq_alerts_raised_total",
		Help: "Alerts raised, by type and severity",
	}, []string{"type", "severity"})

	RecommendationFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carboniq_recommendation_fallbacks_total",
		Help: "AI recommendation calls that fell back to the static message",
	})

	// Infrastructure metrics
	AggregationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "carboniq_aggregation_latency_seconds",
		Help:    "Latency of a full aggregation pass",
		Buckets: prometheus.DefBuckets,
	})

	SnapshotLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "carboniq_snapshot_latency_seconds",
		Help:    "Latency of dashboard snapshot capture",
		Buckets: []float64{0.25, 0.5, 1, 2, 3, 5, 8},
	})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "carboniq_websocket_clients",
		Help: "Connected live-update websocket clients",
	})
)
