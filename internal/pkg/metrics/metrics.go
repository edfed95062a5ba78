package metrics

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

// Counts how many comments have gone through the full analysis pipeline.
var CommentsAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
    Name: "moderator_comments_analyzed_total",
    Help: "Total number of comments analyzed",
})

// Tracks automatic dispositions by outcome (approve, reject, spam, review).
var DecisionsTotal = promauto.NewCounterVec(
    prometheus.CounterOpts{
        Name: "moderator_decisions_total",
        Help: "Total number of automatic moderation decisions by action",
    },
    []string{"action"},
)

// Counts comments that triggered the spam detector.
var SpamDetected = promauto.NewCounter(prometheus.CounterOpts{
    Name: "moderator_spam_detected_total",
    Help: "Total number of comments flagged as spam",
})

// Counts individual check failures (a failed check produces no flags).
var CheckFailures = promauto.NewCounterVec(
    prometheus.CounterOpts{
        Name: "moderator_check_failures_total",
        Help: "Total number of analyzer checks that failed to complete",
    },
    []string{"check"},
)

// Measures how long a full analysis pass takes.
var AnalysisLatency = promauto.NewHistogram(prometheus.HistogramOpts{
    Name:    "moderator_analysis_latency_seconds",
    Help:    "Time taken to analyze a single comment",
    Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
})

// Batch reanalysis metrics
var (
    BatchRuns = promauto.NewCounter(prometheus.CounterOpts{
        Name: "moderator_batch_runs_total",
        Help: "Total number of batch reanalysis runs",
    })

    BatchItemsProcessed = promauto.NewCounter(prometheus.CounterOpts{
        Name: "moderator_batch_items_processed_total",
        Help: "Total number of pending comments reprocessed in batches",
    })

    BatchSaveFailures = promauto.NewCounter(prometheus.CounterOpts{
        Name: "moderator_batch_save_failures_total",
        Help: "Total number of per-item persistence failures during batch reanalysis",
    })
)

// Reputation tracker metrics
var (
    ReputationRecomputes = promauto.NewCounter(prometheus.CounterOpts{
        Name: "moderator_reputation_recomputes_total",
        Help: "Total number of author reputation recomputations",
    })

    ReputationCacheErrors = promauto.NewCounter(prometheus.CounterOpts{
        Name: "moderator_reputation_cache_errors_total",
        Help: "Total number of reputation counter cache failures",
    })
)

// Audit trail metrics
var (
    AuditFlushes = promauto.NewCounter(prometheus.CounterOpts{
        Name: "moderator_audit_flushes_total",
        Help: "Total number of audit record bulk flushes",
    })

    AuditFailures = promauto.NewCounter(prometheus.CounterOpts{
        Name: "moderator_audit_failures_total",
        Help: "Total number of audit bulk requests that failed",
    })
)

var CircuitBreakerState = promauto.NewGaugeVec(
    prometheus.GaugeOpts{
        Name: "moderator_circuit_breaker_state",
        Help: "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
    },
    []string{"service"},
)
