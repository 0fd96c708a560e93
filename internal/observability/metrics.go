package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItemsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_items_classified_total",
		Help: "The total number of content items classified",
	}, []string{"content_type"})

	AccountsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_accounts_processed_total",
		Help: "The total number of account analysis jobs processed",
	}, []string{"status"})

	TagSummaries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_tag_summaries_total",
		Help: "The total number of tag/vibe summaries by source path",
	}, []string{"kind", "source"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insight_llm_request_duration_seconds",
		Help:    "Duration of text-generation collaborator requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	JobDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insight_job_duration_seconds",
		Help:    "Duration in seconds to process one account job",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	JobBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "insight_job_backlog_size",
		Help: "Number of queued account jobs",
	})
)
