package reputation

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"moderator/internal/pkg/circuitbreaker"
	"moderator/internal/pkg/logger"
	"moderator/internal/pkg/models"
	"moderator/internal/pkg/store"
)

func init() {
	logger.Log = zap.NewNop() // Set up a no-op logger to avoid nil pointer dereferences in tests.
}

func newTestTracker(commentStore store.CommentStore) *Tracker {
	breaker := circuitbreaker.New("reputation-cache-test", 5, time.Second)
	return NewTracker(commentStore, NewMemoryCounterCache(), breaker)
}

func TestDeriveScoreFormula(t *testing.T) {
	cases := []struct {
		counts store.StatusCounts
		score  int
	}{
		// First-time author: stored score is 0, not neutral.
		{store.StatusCounts{}, 0},
		// 8/10 approved, no spam: 80.
		{store.StatusCounts{Total: 10, Approved: 8, Rejected: 2}, 80},
		// 8/10 approved, 1 spam: 80 - 20 = 60.
		{store.StatusCounts{Total: 10, Approved: 8, Spam: 1, Rejected: 1}, 60},
		// Spam penalty floors at zero.
		{store.StatusCounts{Total: 10, Approved: 5, Spam: 4, Rejected: 1}, 0},
		// Perfect record.
		{store.StatusCounts{Total: 4, Approved: 4}, 100},
		// Fractional rates round to the nearest point: 2/3 is 67, not 66.
		{store.StatusCounts{Total: 3, Approved: 2, Rejected: 1}, 67},
		// 1/3 rounds down to 33.
		{store.StatusCounts{Total: 3, Approved: 1, Rejected: 2}, 33},
	}

	for _, tc := range cases {
		rep := Derive(tc.counts)
		if rep.Score != tc.score {
			t.Errorf("Counts %+v: expected score %d, got %d", tc.counts, tc.score, rep.Score)
		}
		if rep.TotalComments != tc.counts.Total || rep.SpamComments != tc.counts.Spam {
			t.Errorf("Counts %+v: counters not carried over: %+v", tc.counts, rep)
		}
	}
}

// A cache miss falls back to the store aggregation and backfills the cache.
func TestCountsFallsBackToStore(t *testing.T) {
	memStore := store.NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := memStore.Insert(ctx, models.Comment{
			Content: "fine",
			Author:  models.Author{Email: "a@example.com"},
			Status:  models.StatusApproved,
		}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	tracker := newTestTracker(memStore)

	counts, err := tracker.Counts(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Total != 3 || counts.Approved != 3 {
		t.Errorf("Expected 3/3 approved, got %+v", counts)
	}

	// Second read should be served by the backfilled cache.
	cached, found, err := tracker.cache.Get(ctx, "a@example.com")
	if err != nil || !found {
		t.Fatalf("Expected cache to be backfilled, found=%v err=%v", found, err)
	}
	if cached != counts {
		t.Errorf("Cached counts %+v differ from aggregated %+v", cached, counts)
	}
}

// Recompute refreshes the cache and persists the reputation summary.
func TestRecomputePersistsSummary(t *testing.T) {
	memStore := store.NewMemoryStore()
	ctx := context.Background()

	statuses := []models.Status{
		models.StatusApproved, models.StatusApproved, models.StatusApproved,
		models.StatusApproved, models.StatusSpam,
	}
	for _, status := range statuses {
		if _, err := memStore.Insert(ctx, models.Comment{
			Content: "text",
			Author:  models.Author{Email: "b@example.com"},
			Status:  status,
		}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	tracker := newTestTracker(memStore)

	rep, err := tracker.Recompute(ctx, "b@example.com")
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	// 4/5 approved = 80, minus one spam comment = 60.
	if rep.Score != 60 {
		t.Errorf("Expected score 60, got %d", rep.Score)
	}

	stored, ok := memStore.Reputation("b@example.com")
	if !ok {
		t.Fatal("Expected reputation summary to be persisted")
	}
	if stored != rep {
		t.Errorf("Stored summary %+v differs from returned %+v", stored, rep)
	}
}

// Per-author locks serialize but do not deadlock across authors.
func TestLockAuthor(t *testing.T) {
	tracker := newTestTracker(store.NewMemoryStore())

	unlockA := tracker.LockAuthor("a@example.com")
	unlockB := tracker.LockAuthor("b@example.com") // must not block
	unlockB()
	unlockA()

	done := make(chan struct{})
	unlockA = tracker.LockAuthor("a@example.com")
	go func() {
		unlock := tracker.LockAuthor("a@example.com")
		unlock()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Second lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	unlockA()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for lock handoff")
	}
}
