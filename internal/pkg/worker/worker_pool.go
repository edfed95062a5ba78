package worker

import (
    "context"
    "errors"
    "sync"
    "time"

    "go.uber.org/zap"

    "moderator/internal/pkg/logger"
    "moderator/internal/pkg/pipeline"
    "moderator/internal/pkg/queue"
)

// Manages a pool of workers that drain the submission queue through the
// moderation pipeline.
type WorkerPool struct {
    numWorkers int
    queue      *queue.Queue
    pipeline   *pipeline.Pipeline
    wg         sync.WaitGroup
}

// Creates a new worker pool with the specified number of workers.
func NewWorkerPool(numWorkers int, q *queue.Queue, p *pipeline.Pipeline) *WorkerPool {
    return &WorkerPool{
        numWorkers: numWorkers,
        queue:      q,
        pipeline:   p,
    }
}

// Launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
    logger.Log.Info("Starting worker pool", zap.Int("workers", wp.numWorkers))

    for i := 0; i < wp.numWorkers; i++ {
        wp.wg.Add(1)
        go wp.runWorker(ctx, i)
    }
}

// Blocks until all workers have finished.
func (wp *WorkerPool) Wait() {
    wp.wg.Wait()
}

// The main loop for each worker goroutine.
func (wp *WorkerPool) runWorker(ctx context.Context, id int) {
    defer wp.wg.Done()

    logger.Log.Info("Worker started", zap.Int("worker_id", id))

    for {
        select {
        case <-ctx.Done():
            logger.Log.Info("Worker received stop signal", zap.Int("worker_id", id))
            return
        default:
            comment, err := wp.queue.Remove()
            if err != nil {
                if !errors.Is(err, queue.ErrQueueEmpty) {
                    logger.Log.Warn("Queue read failed", zap.Int("worker_id", id), zap.Error(err))
                }
                time.Sleep(200 * time.Millisecond)
                continue
            }

            stored, result, err := wp.pipeline.ModerateNew(ctx, comment)
            if err != nil {
                logger.Log.Warn("Failed to moderate comment",
                    zap.Int("worker_id", id),
                    zap.String("author", comment.Author.Email),
                    zap.Error(err))
                continue
            }

            logger.Log.Debug("Moderated comment",
                zap.Int("worker_id", id),
                zap.String("comment_id", stored.ID),
                zap.String("action", string(result.AutoAction)),
                zap.Int("score", result.Score))
        }
    }
}
