package store

import (
    "context"
    "fmt"
    "sort"
    "sync"
    "time"

    "moderator/internal/pkg/models"
)

// An in-memory CommentStore. Used by tests and as the default backing when no
// external document store is wired in.
type MemoryStore struct {
    mu          sync.RWMutex
    comments    map[string]models.Comment
    reputations map[string]models.AuthorReputation
    nextID      int
}

func NewMemoryStore() *MemoryStore {
    return &MemoryStore{
        comments:    make(map[string]models.Comment),
        reputations: make(map[string]models.AuthorReputation),
    }
}

func (s *MemoryStore) Insert(ctx context.Context, comment models.Comment) (string, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    if comment.ID == "" {
        s.nextID++
        comment.ID = fmt.Sprintf("comment-%d", s.nextID)
    }
    if comment.CreatedAt.IsZero() {
        comment.CreatedAt = time.Now()
    }
    s.comments[comment.ID] = comment
    return comment.ID, nil
}

func (s *MemoryStore) FetchOldestPending(ctx context.Context, limit int) ([]models.Comment, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()

    var pending []models.Comment
    for _, c := range s.comments {
        if c.Status == models.StatusPending {
            pending = append(pending, c)
        }
    }

    sort.Slice(pending, func(i, j int) bool {
        return pending[i].CreatedAt.Before(pending[j].CreatedAt)
    })

    if limit > 0 && len(pending) > limit {
        pending = pending[:limit]
    }
    return pending, nil
}

func (s *MemoryStore) UpdateModeration(ctx context.Context, id string, status models.Status, mod models.Moderation) error {
    s.mu.Lock()
    defer s.mu.Unlock()

    comment, ok := s.comments[id]
    if !ok {
        return ErrNotFound
    }

    comment.Status = status
    comment.Moderation = mod

    now := time.Now()
    switch status {
    case models.StatusApproved:
        comment.ApprovedAt = &now
    case models.StatusRejected, models.StatusSpam:
        comment.RejectedAt = &now
    }

    s.comments[id] = comment
    return nil
}

func (s *MemoryStore) CountByAuthor(ctx context.Context, email string) (StatusCounts, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()

    var counts StatusCounts
    for _, c := range s.comments {
        if c.Author.Email != email {
            continue
        }
        counts.Total++
        switch c.Status {
        case models.StatusApproved:
            counts.Approved++
        case models.StatusRejected:
            counts.Rejected++
        case models.StatusSpam:
            counts.Spam++
        case models.StatusPending:
            counts.Pending++
        }
    }
    return counts, nil
}

func (s *MemoryStore) SaveReputation(ctx context.Context, email string, rep models.AuthorReputation) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.reputations[email] = rep
    return nil
}

// Returns the stored reputation summary. Not part of the CommentStore
// contract; tests use it to observe SaveReputation effects.
func (s *MemoryStore) Reputation(email string) (models.AuthorReputation, bool) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    rep, ok := s.reputations[email]
    return rep, ok
}
