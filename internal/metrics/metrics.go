package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 摄取与问答的核心指标，通过/metrics暴露
var (
	IngestDocuments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatpdf",
		Subsystem: "ingest",
		Name:      "documents_total",
		Help:      "Number of ingested documents by final status.",
	}, []string{"status"})

	IngestChunks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chatpdf",
		Subsystem: "ingest",
		Name:      "chunks_indexed_total",
		Help:      "Number of chunks embedded and indexed.",
	})

	IngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "chatpdf",
		Subsystem: "ingest",
		Name:      "duration_seconds",
		Help:      "Wall time of the full ingestion pipeline.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	})

	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatpdf",
		Subsystem: "chat",
		Name:      "requests_total",
		Help:      "Number of chat requests by status.",
	}, []string{"status"})
)
