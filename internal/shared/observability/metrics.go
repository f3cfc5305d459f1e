package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sigwatch_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sigwatch_analysis_seconds",
		Help:    "Time spent analyzing a parsed file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesAnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sigwatch_files_analyzed_total",
		Help: "Total number of files analyzed.",
	})

	FilesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sigwatch_files_skipped_total",
		Help: "Total number of files skipped (unsupported language or parse failure).",
	})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sigwatch_diagnostics_total",
		Help: "Total number of diagnostics emitted, by rule.",
	}, []string{"rule"})

	BudgetExceededTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sigwatch_budget_exceeded_total",
		Help: "Total number of files whose traversal budget ran out.",
	})

	NodesVisitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sigwatch_nodes_visited_total",
		Help: "Total number of syntax nodes visited by the walk driver.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sigwatch_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
