package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

const opTimeout = 3 * time.Second

// stateStoreRedis хранит снимки агрегатов как строки Redis.
type stateStoreRedis struct {
	client *redis.Client
}

// Options задаёт параметры подключения к Redis.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewStateStore подключается к Redis и проверяет доступность сервера.
func NewStateStore(ctx context.Context, opts Options) (domain.StateStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &stateStoreRedis{client: client}, nil
}

// Load возвращает снимок по ключу или ErrStateNotFound.
func (s *stateStoreRedis) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("get state key: %w", err)
	}
	return value, nil
}

// Save перезаписывает снимок без TTL: состояние живёт до явного удаления.
func (s *stateStoreRedis) Save(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("set state key: %w", err)
	}
	return nil
}

// Delete удаляет ключ; отсутствующий ключ — не ошибка.
func (s *stateStoreRedis) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete state key: %w", err)
	}
	return nil
}

// Ping проверяет доступность Redis.
func (s *stateStoreRedis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// Close закрывает подключение к Redis.
func (s *stateStoreRedis) Close() error {
	return s.client.Close()
}

var _ domain.StateStore = (*stateStoreRedis)(nil)
