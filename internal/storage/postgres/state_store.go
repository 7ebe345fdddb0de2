package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

const opTimeout = 5 * time.Second

// stateStorePostgres хранит снимки агрегатов в таблице app_state (key → jsonb).
type stateStorePostgres struct {
	db *sql.DB
}

// NewStateStore создаёт PostgreSQL-реализацию StateStore.
func NewStateStore(store *Store) domain.StateStore {
	return &stateStorePostgres{db: store.DB()}
}

// Load возвращает снимок по ключу или ErrStateNotFound.
func (s *stateStorePostgres) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var value []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT value
		FROM app_state
		WHERE key = $1
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("select state: %w", err)
	}
	return value, nil
}

// Save перезаписывает снимок целиком (upsert по ключу).
func (s *stateStorePostgres) Save(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = NOW()
	`, key, value)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

// Delete удаляет ключ; отсутствующий ключ — не ошибка.
func (s *stateStorePostgres) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

// Ping проверяет доступность базы.
func (s *stateStorePostgres) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

var _ domain.StateStore = (*stateStorePostgres)(nil)
