package queue

import (
    "errors"
    "sync"

    "moderator/internal/pkg/models"
)

var (
    ErrQueueFull   = errors.New("queue is full")
    ErrQueueEmpty  = errors.New("queue is empty")
    ErrQueueClosed = errors.New("queue is closed")
)

// Bounded FIFO buffer of incoming comment submissions, drained by the worker
// pool. Oldest submission out first.
type Queue struct {
    mu       sync.Mutex
    capacity int
    closed   bool
    q        []models.Comment
}

// Creates an empty queue with the specified capacity.
func CreateQueue(capacity int) (*Queue, error) {
    if capacity <= 0 {
        return nil, errors.New("capacity should be greater than 0")
    }
    return &Queue{
        capacity: capacity,
        q:        make([]models.Comment, 0, capacity),
    }, nil
}

// Inserts a submission into the queue.
func (q *Queue) Insert(item models.Comment) error {
    q.mu.Lock()
    defer q.mu.Unlock()
    if q.closed {
        return ErrQueueClosed
    }
    if len(q.q) >= q.capacity {
        return ErrQueueFull
    }
    q.q = append(q.q, item)
    return nil
}

// Removes the oldest submission from the queue.
func (q *Queue) Remove() (models.Comment, error) {
    q.mu.Lock()
    defer q.mu.Unlock()
    if len(q.q) == 0 {
        return models.Comment{}, ErrQueueEmpty
    }
    item := q.q[0]
    q.q = q.q[1:]
    return item, nil
}

// Stops the queue from accepting new submissions. Items already queued can
// still be removed.
func (q *Queue) Close() {
    q.mu.Lock()
    defer q.mu.Unlock()
    q.closed = true
}

// Returns the number of submissions waiting in the queue.
func (q *Queue) Length() int {
    q.mu.Lock()
    defer q.mu.Unlock()
    return len(q.q)
}

// Returns true if the queue is empty.
func (q *Queue) IsEmpty() bool {
    return q.Length() == 0
}
