package moderator

import (
    "context"

    "go.uber.org/zap"

    "moderator/internal/pkg/logger"
    "moderator/internal/pkg/metrics"
    "moderator/internal/pkg/models"
)

// Re-runs the full pipeline over up to limit comments currently pending,
// oldest first. Items are processed independently; one item's failure is
// counted and the batch moves on. Persistence writes are paced by the
// configured rate limiter.
func (m *moderatorService) ReanalyzeBatch(ctx context.Context, limit int) (models.BatchResult, error) {
    if limit <= 0 {
        limit = m.batchLimit
    }

    metrics.BatchRuns.Inc()

    items, err := m.store.FetchOldestPending(ctx, limit)
    if err != nil {
        return models.BatchResult{}, err
    }

    logger.Log.Info("Starting batch reanalysis", zap.Int("pending", len(items)))

    var result models.BatchResult
    for _, item := range items {
        if err := m.limiter.Wait(ctx); err != nil {
            // Context cancelled; report what was done so far.
            return result, err
        }

        result.Processed++
        metrics.BatchItemsProcessed.Inc()

        action, err := m.pipeline.Reprocess(ctx, item)
        if err != nil {
            result.Errors++
            metrics.BatchSaveFailures.Inc()
            logger.Log.Warn("Failed to persist reanalysis outcome",
                zap.String("comment_id", item.ID),
                zap.Error(err))
            continue
        }

        switch action {
        case models.ActionApprove:
            result.Approved++
        case models.ActionReject:
            result.Rejected++
        case models.ActionSpam:
            result.Spam++
        default:
            result.StillPending++
        }
    }

    logger.Log.Info("Batch reanalysis complete",
        zap.Int("processed", result.Processed),
        zap.Int("approved", result.Approved),
        zap.Int("rejected", result.Rejected),
        zap.Int("spam", result.Spam),
        zap.Int("still_pending", result.StillPending),
        zap.Int("errors", result.Errors))

    return result, nil
}
