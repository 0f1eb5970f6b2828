package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultCommitted = "committed"
	resultEmpty     = "empty"
	resultRejected  = "rejected"
	resultFailed    = "failed"
)

var (
	ingestBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hiring",
		Subsystem: "ingest",
		Name:      "batches_total",
		Help:      "Upload batches by kind and outcome.",
	}, []string{"kind", "result"})

	ingestRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hiring",
		Subsystem: "ingest",
		Name:      "rows_committed_total",
		Help:      "Rows committed to storage by kind.",
	}, []string{"kind"})
)
