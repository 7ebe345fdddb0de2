package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

// stateStoreOnDisk хранит каждый ключ отдельным JSON-файлом в каталоге данных.
// Это ближайший серверный аналог локального browser storage: один снимок
// на агрегат, перезаписываемый целиком.
type stateStoreOnDisk struct {
	mu  sync.Mutex
	dir string
}

// NewStateStore создаёт каталог данных (при необходимости) и возвращает
// файловую реализацию StateStore.
func NewStateStore(dir string) (domain.StateStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &stateStoreOnDisk{dir: dir}, nil
}

// Load читает снимок из файла ключа или возвращает ErrStateNotFound.
func (s *stateStoreOnDisk) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return data, nil
}

// Save записывает снимок атомарно: во временный файл с последующим rename.
func (s *stateStoreOnDisk) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename state file: %w", err)
	}
	return nil
}

// Delete удаляет файл ключа; отсутствующий файл — не ошибка.
func (s *stateStoreOnDisk) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

// Ping проверяет, что каталог данных доступен.
func (s *stateStoreOnDisk) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %q is not a directory", s.dir)
	}
	return nil
}

// path превращает ключ вида foodstream:cart в имя файла foodstream_cart.json.
func (s *stateStoreOnDisk) path(key string) string {
	name := strings.NewReplacer(":", "_", "/", "_").Replace(key)
	return filepath.Join(s.dir, name+".json")
}

var _ domain.StateStore = (*stateStoreOnDisk)(nil)
