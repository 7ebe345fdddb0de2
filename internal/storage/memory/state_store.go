package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

// stateStoreInMemory — простая in-memory реализация StateStore.
type stateStoreInMemory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewStateStore возвращает in-memory state store для локальной разработки и тестов.
func NewStateStore() domain.StateStore {
	return &stateStoreInMemory{
		items: make(map[string][]byte),
	}
}

// Load возвращает снимок по ключу или ErrStateNotFound.
func (s *stateStoreInMemory) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	// Возвращаем копию, чтобы избежать непредсказуемых мутаций извне.
	return append([]byte(nil), value...), nil
}

// Save перезаписывает снимок целиком.
func (s *stateStoreInMemory) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = append([]byte(nil), value...)
	return nil
}

// Delete удаляет ключ; отсутствующий ключ — не ошибка.
func (s *stateStoreInMemory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// Ping всегда успешен для in-memory хранилища.
func (s *stateStoreInMemory) Ping(context.Context) error {
	return nil
}

var _ domain.StateStore = (*stateStoreInMemory)(nil)
