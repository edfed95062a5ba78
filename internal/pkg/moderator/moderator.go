package moderator

import (
    "context"
    "errors"
    "time"

    "go.uber.org/zap"
    "golang.org/x/time/rate"

    "moderator/internal/pkg/analyzer"
    "moderator/internal/pkg/audit"
    "moderator/internal/pkg/circuitbreaker"
    "moderator/internal/pkg/config"
    "moderator/internal/pkg/logger"
    "moderator/internal/pkg/models"
    "moderator/internal/pkg/patterns"
    "moderator/internal/pkg/pipeline"
    "moderator/internal/pkg/queue"
    "moderator/internal/pkg/reputation"
    "moderator/internal/pkg/store"
    "moderator/internal/pkg/worker"
)

// The service facade over the moderation engine.
type Moderator interface {
    // Analyze scores content against the supplied author context without
    // persisting anything. Called once per new submission.
    Analyze(content string, author models.AuthorContext) models.AnalysisResult

    // EnqueueComment buffers a submission for asynchronous moderation.
    EnqueueComment(ctx context.Context, comment models.Comment) error

    // ReanalyzeBatch re-runs the pipeline over pending comments, oldest
    // first. A limit of 0 uses the configured default.
    ReanalyzeBatch(ctx context.Context, limit int) (models.BatchResult, error)

    StartProcessing(ctx context.Context) error
    StartService(port string)
    Stop()
    QueueDepth() int
    WorkerCount() int
    StartTime() time.Time
}

type moderatorService struct {
    pipeline   *pipeline.Pipeline
    store      store.CommentStore
    queue      *queue.Queue
    workerPool *worker.WorkerPool
    recorder   *audit.BulkRecorder
    limiter    *rate.Limiter
    batchLimit int
    numWorkers int
    startTime  time.Time
    cancel     context.CancelFunc
}

// Creates a Moderator wired from configuration. The comment store is
// injected; persistence technology is the CMS's concern.
func New(cfg *config.Config, commentStore store.CommentStore) (Moderator, error) {
    lib, err := patterns.Load(cfg.PatternsFile)
    if err != nil {
        return nil, err
    }

    submissionQueue, err := queue.CreateQueue(cfg.QueueCapacity)
    if err != nil {
        return nil, err
    }

    var cache reputation.CounterCache
    if cfg.RedisDisabled {
        cache = reputation.NewMemoryCounterCache()
    } else {
        cache, err = reputation.NewRedisCounterCache(cfg)
        if err != nil {
            logger.Log.Warn("Redis unavailable, using in-memory reputation counters", zap.Error(err))
            cache = reputation.NewMemoryCounterCache()
        }
    }

    breaker := circuitbreaker.New("reputation-cache", 5, 30*time.Second)
    tracker := reputation.NewTracker(commentStore, cache, breaker)

    var recorder *audit.BulkRecorder
    if cfg.AuditURL != "" {
        recorder = audit.NewBulkRecorder(cfg.BulkThreshold, cfg.AuditURL, "moderation_audit", cfg.FlushInterval, cfg.MaxRetries)
    }

    pipe := pipeline.New(analyzer.New(lib), tracker, commentStore, recorder)

    numWorkers := cfg.NumWorkers
    if numWorkers <= 0 {
        numWorkers = 1
    }

    rateLimit := cfg.BatchRateLimit
    if rateLimit <= 0 {
        rateLimit = 50
    }

    return &moderatorService{
        pipeline:   pipe,
        store:      commentStore,
        queue:      submissionQueue,
        workerPool: worker.NewWorkerPool(numWorkers, submissionQueue, pipe),
        recorder:   recorder,
        limiter:    rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
        batchLimit: cfg.BatchLimit,
        numWorkers: numWorkers,
        startTime:  time.Now(),
    }, nil
}

func (m *moderatorService) Analyze(content string, author models.AuthorContext) models.AnalysisResult {
    return m.pipeline.Analyze(content, author)
}

func (m *moderatorService) EnqueueComment(ctx context.Context, comment models.Comment) error {
    if comment.Author.Email == "" {
        return errors.New("submission has no author email")
    }
    if comment.CreatedAt.IsZero() {
        comment.CreatedAt = time.Now()
    }
    comment.Status = models.StatusPending
    return m.queue.Insert(comment)
}

// Starts the worker pool draining the submission queue.
func (m *moderatorService) StartProcessing(ctx context.Context) error {
    ctx, m.cancel = context.WithCancel(ctx)
    m.workerPool.Start(ctx)
    return nil
}

// Starts the HTTP service at the given port.
func (m *moderatorService) StartService(port string) {
    logger.Log.Info("Starting moderation HTTP service", zap.String("port", port))
    startHTTP(m, port)
}

// Stops intake, drains the queue through the workers, and flushes the audit
// trail. Submissions accepted before Close are still moderated.
func (m *moderatorService) Stop() {
    logger.Log.Info("Beginning shutdown sequence")

    m.queue.Close()

    if m.cancel != nil {
        for !m.queue.IsEmpty() {
            time.Sleep(50 * time.Millisecond)
        }
        m.cancel()
    }

    logger.Log.Info("Waiting for worker pool to finish")
    m.workerPool.Wait()

    if m.recorder != nil {
        m.recorder.Stop()
    }

    logger.Log.Info("Moderator stopped gracefully")
}

// Returns the current queue depth for health checks.
func (m *moderatorService) QueueDepth() int {
    return m.queue.Length()
}

// Returns the number of workers for health checks.
func (m *moderatorService) WorkerCount() int {
    return m.numWorkers
}

// Returns when the service was started for health checks.
func (m *moderatorService) StartTime() time.Time {
    return m.startTime
}
