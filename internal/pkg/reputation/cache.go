package reputation

import (
    "context"
    "fmt"
    "strconv"
    "sync"
    "time"

    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "moderator/internal/pkg/config"
    "moderator/internal/pkg/logger"
    "moderator/internal/pkg/store"
)

// A fast read path for per-author status counts. The store aggregation is the
// source of truth; the cache is refreshed after every recompute and may miss.
type CounterCache interface {
    // Get returns the cached counts and whether they were present.
    Get(ctx context.Context, email string) (store.StatusCounts, bool, error)
    // Set stores the counts for an author.
    Set(ctx context.Context, email string, counts store.StatusCounts) error
}

// CounterCache backed by a Redis hash per author.
type redisCounterCache struct {
    client    *redis.Client
    keyPrefix string
    ttl       time.Duration
}

// Creates a Redis-backed counter cache. Fails if Redis is unreachable; the
// caller then falls back to the in-memory cache.
func NewRedisCounterCache(cfg *config.Config) (CounterCache, error) {
    rdb := redis.NewClient(&redis.Options{
        Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
        Password: cfg.RedisPassword, // "" if no auth
        DB:       cfg.RedisDB,
    })

    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := rdb.Ping(ctx).Err(); err != nil {
        logger.Log.Error("Failed to connect to Redis", zap.Error(err))
        return nil, err
    }

    logger.Log.Info("Connected to Redis successfully",
        zap.String("host", cfg.RedisHost),
        zap.String("port", cfg.RedisPort),
    )

    return &redisCounterCache{
        client:    rdb,
        keyPrefix: "author_counts:",
        ttl:       time.Hour,
    }, nil
}

func (c *redisCounterCache) Get(ctx context.Context, email string) (store.StatusCounts, bool, error) {
    ctx, cancel := context.WithTimeout(ctx, time.Second)
    defer cancel()

    fields, err := c.client.HGetAll(ctx, c.keyPrefix+email).Result()
    if err != nil {
        return store.StatusCounts{}, false, err
    }
    if len(fields) == 0 {
        return store.StatusCounts{}, false, nil
    }

    return store.StatusCounts{
        Total:    atoi(fields["total"]),
        Approved: atoi(fields["approved"]),
        Rejected: atoi(fields["rejected"]),
        Spam:     atoi(fields["spam"]),
        Pending:  atoi(fields["pending"]),
    }, true, nil
}

func (c *redisCounterCache) Set(ctx context.Context, email string, counts store.StatusCounts) error {
    ctx, cancel := context.WithTimeout(ctx, time.Second)
    defer cancel()

    key := c.keyPrefix + email
    if err := c.client.HSet(ctx, key,
        "total", counts.Total,
        "approved", counts.Approved,
        "rejected", counts.Rejected,
        "spam", counts.Spam,
        "pending", counts.Pending,
    ).Err(); err != nil {
        return err
    }
    return c.client.Expire(ctx, key, c.ttl).Err()
}

func atoi(s string) int {
    n, _ := strconv.Atoi(s)
    return n
}

// In-memory CounterCache for tests and Redis-less deployments.
type memoryCounterCache struct {
    mu     sync.RWMutex
    counts map[string]store.StatusCounts
}

func NewMemoryCounterCache() CounterCache {
    return &memoryCounterCache{counts: make(map[string]store.StatusCounts)}
}

func (c *memoryCounterCache) Get(ctx context.Context, email string) (store.StatusCounts, bool, error) {
    c.mu.RLock()
    defer c.mu.RUnlock()
    counts, ok := c.counts[email]
    return counts, ok, nil
}

func (c *memoryCounterCache) Set(ctx context.Context, email string, counts store.StatusCounts) error {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.counts[email] = counts
    return nil
}
