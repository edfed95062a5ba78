package reputation

import (
    "context"
    "math"
    "sync"

    "go.uber.org/zap"

    "moderator/internal/pkg/circuitbreaker"
    "moderator/internal/pkg/logger"
    "moderator/internal/pkg/metrics"
    "moderator/internal/pkg/models"
    "moderator/internal/pkg/store"
)

// Recomputes author reputation from the aggregate of their stored comments
// and keeps a counter cache warm so the decision engine's read path stays
// O(1). The cache sits behind a circuit breaker; when it misbehaves, reads
// degrade to a direct store aggregation.
type Tracker struct {
    store   store.CommentStore
    cache   CounterCache
    breaker *circuitbreaker.CircuitBreaker

    mu    sync.Mutex
    locks map[string]*sync.Mutex
}

func NewTracker(commentStore store.CommentStore, cache CounterCache, breaker *circuitbreaker.CircuitBreaker) *Tracker {
    return &Tracker{
        store:   commentStore,
        cache:   cache,
        breaker: breaker,
        locks:   make(map[string]*sync.Mutex),
    }
}

// Returns the author's current status counts, preferring the counter cache.
// A cache miss or failure falls back to the store aggregation and backfills
// the cache.
func (t *Tracker) Counts(ctx context.Context, email string) (store.StatusCounts, error) {
    var counts store.StatusCounts
    var found bool

    err := t.breaker.Execute(func() error {
        var err error
        counts, found, err = t.cache.Get(ctx, email)
        return err
    })
    if err == nil && found {
        return counts, nil
    }
    if err != nil {
        metrics.ReputationCacheErrors.Inc()
        logger.Log.Warn("Reputation counter cache read failed, falling back to store",
            zap.String("author", email),
            zap.Error(err))
    }

    counts, aggErr := t.store.CountByAuthor(ctx, email)
    if aggErr != nil {
        return store.StatusCounts{}, aggErr
    }

    if setErr := t.cache.Set(ctx, email, counts); setErr != nil {
        metrics.ReputationCacheErrors.Inc()
        logger.Log.Warn("Failed to backfill reputation counter cache",
            zap.String("author", email),
            zap.Error(setErr))
    }
    return counts, nil
}

// Recomputes the author's reputation from the store, refreshes the counter
// cache, and persists the summary for external reporting. Called after every
// disposition change.
func (t *Tracker) Recompute(ctx context.Context, email string) (models.AuthorReputation, error) {
    counts, err := t.store.CountByAuthor(ctx, email)
    if err != nil {
        return models.AuthorReputation{}, err
    }

    rep := Derive(counts)
    metrics.ReputationRecomputes.Inc()

    if err := t.cache.Set(ctx, email, counts); err != nil {
        metrics.ReputationCacheErrors.Inc()
        logger.Log.Warn("Failed to refresh reputation counter cache",
            zap.String("author", email),
            zap.Error(err))
    }

    if err := t.store.SaveReputation(ctx, email, rep); err != nil {
        return rep, err
    }

    logger.Log.Debug("Recomputed author reputation",
        zap.String("author", email),
        zap.Int("total", rep.TotalComments),
        zap.Int("score", rep.Score))

    return rep, nil
}

// Derives the stored reputation score from status counts:
// max(0, approvalRate*100 - spamComments*20), rounded to the nearest point.
// A first-time author scores 0; the neutral-history allowance lives in the
// decision engine only.
func Derive(counts store.StatusCounts) models.AuthorReputation {
    rep := models.AuthorReputation{
        TotalComments:    counts.Total,
        ApprovedComments: counts.Approved,
        RejectedComments: counts.Rejected,
        SpamComments:     counts.Spam,
    }

    if counts.Total == 0 {
        return rep
    }

    rate := float64(counts.Approved) / float64(counts.Total)
    score := int(math.Round(rate*100)) - counts.Spam*20
    if score < 0 {
        score = 0
    }
    rep.Score = score
    return rep
}

// Serializes the read-decide-persist sequence for one author so two
// near-simultaneous submissions never decide on the same stale snapshot.
// Locks are never freed; the map is bounded by the number of distinct
// authors seen by this process.
func (t *Tracker) LockAuthor(email string) func() {
    t.mu.Lock()
    lock, ok := t.locks[email]
    if !ok {
        lock = &sync.Mutex{}
        t.locks[email] = lock
    }
    t.mu.Unlock()

    lock.Lock()
    return lock.Unlock
}
