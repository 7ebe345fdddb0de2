package memory

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

func TestOutboxEnqueueAssignsID(t *testing.T) {
	repo := NewOutboxRepository()

	msg, err := repo.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   "FS-1",
		EventType:     "order.created",
		Payload:       []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if msg.ID == "" {
		t.Fatalf("enqueue must assign an id")
	}
	if msg.EnqueuedAt.IsZero() {
		t.Fatalf("enqueue must set EnqueuedAt")
	}
}

func TestOutboxPullPendingOrderedAndLimited(t *testing.T) {
	repo := NewOutboxRepository()

	first, _ := repo.Enqueue(domain.OutboxMessage{AggregateID: "FS-1", EventType: "order.created"})
	time.Sleep(time.Millisecond)
	repo.Enqueue(domain.OutboxMessage{AggregateID: "FS-2", EventType: "order.created"})

	pending, err := repo.PullPending(1)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 message, got %d", len(pending))
	}
	if pending[0].ID != first.ID {
		t.Fatalf("expected oldest message first")
	}
}

func TestOutboxMarkSentRemovesFromPending(t *testing.T) {
	repo := NewOutboxRepository()

	msg, _ := repo.Enqueue(domain.OutboxMessage{AggregateID: "FS-1", EventType: "order.created"})
	if err := repo.MarkSent(msg.ID); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}

	pending, _ := repo.PullPending(10)
	if len(pending) != 0 {
		t.Fatalf("sent message must not be pending, got %d", len(pending))
	}
}

func TestOutboxMarkUnknownID(t *testing.T) {
	repo := NewOutboxRepository()

	if err := repo.MarkSent("missing"); err == nil {
		t.Fatalf("mark sent of unknown id must fail")
	}
	if err := repo.MarkFailed("missing"); err == nil {
		t.Fatalf("mark failed of unknown id must fail")
	}
}

func TestOutboxStats(t *testing.T) {
	repo := NewOutboxRepository()

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PendingCount != 0 || !stats.OldestPendingAt.IsZero() {
		t.Fatalf("empty repo must report zero stats, got %+v", stats)
	}

	msg, _ := repo.Enqueue(domain.OutboxMessage{AggregateID: "FS-1", EventType: "order.created"})
	repo.Enqueue(domain.OutboxMessage{AggregateID: "FS-2", EventType: "order.created"})
	repo.MarkFailed(msg.ID)

	stats, _ = repo.Stats()
	if stats.PendingCount != 1 {
		t.Fatalf("expected 1 pending, got %d", stats.PendingCount)
	}
	if stats.OldestPendingAt.IsZero() {
		t.Fatalf("expected oldest pending timestamp")
	}
}
