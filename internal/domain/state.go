package domain

import (
	"context"
	"time"
)

// Ключи state store. Каждый агрегат сериализуется целиком под своим ключом.
const (
	StateKeyCart       = "foodstream:cart"
	StateKeyOrders     = "foodstream:orders"
	StateKeyFavorites  = "foodstream:favorites"
	StateKeyMiniPlayer = "foodstream:miniplayer"
)

// StateStore — порт durable key-value хранилища JSON-снимков агрегатов.
// Реализации: in-memory, файловая, Redis и PostgreSQL.
type StateStore interface {
	// Load возвращает снимок по ключу или ErrStateNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save перезаписывает снимок целиком.
	Save(ctx context.Context, key string, value []byte) error
	// Delete удаляет ключ; отсутствующий ключ — не ошибка.
	Delete(ctx context.Context, key string) error
	// Ping проверяет доступность хранилища (для health checks).
	Ping(ctx context.Context) error
}

// OutboxMessage хранит данные события, ожидающего публикации в брокер.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	EnqueuedAt    time.Time
}

// OutboxPublisher публикует события из outbox наружу; должен быть идемпотентным.
type OutboxPublisher interface {
	Publish(msg OutboxMessage) error
}

// OutboxStats описывает текущее состояние backlog outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}
