package store

import (
    "context"
    "errors"

    "moderator/internal/pkg/models"
)

var ErrNotFound = errors.New("comment not found")

// Per-status counts for one author's comments.
type StatusCounts struct {
    Total    int
    Approved int
    Rejected int
    Spam     int
    Pending  int
}

// The narrow slice of the document store the moderation engine depends on.
// The CMS owns the actual persistence technology; this package only defines
// the contract and ships an in-memory implementation for tests and local use.
type CommentStore interface {
    // Insert stores a new comment and returns its identifier.
    Insert(ctx context.Context, comment models.Comment) (string, error)

    // FetchOldestPending returns up to limit pending comments, oldest first.
    FetchOldestPending(ctx context.Context, limit int) ([]models.Comment, error)

    // UpdateModeration sets the status and moderation fields on a comment.
    UpdateModeration(ctx context.Context, id string, status models.Status, mod models.Moderation) error

    // CountByAuthor aggregates the author's comments by status.
    CountByAuthor(ctx context.Context, email string) (StatusCounts, error)

    // SaveReputation persists the recomputed reputation summary for an
    // author, for use by external reporting.
    SaveReputation(ctx context.Context, email string, rep models.AuthorReputation) error
}
