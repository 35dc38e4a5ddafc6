package repository

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// reorderTotal counts sibling re-enumerations by family and cause
	reorderTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kanban_reorder_total",
		Help: "Total sibling reindex passes by family (column, card) and kind (append, move, remove)",
	}, []string{"family", "kind"})

	// reorderWrites tracks how many position rows a single pass rewrote
	reorderWrites = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kanban_reorder_rows_written",
		Help:    "Position rows rewritten per reindex pass",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	}, []string{"family"})
)
