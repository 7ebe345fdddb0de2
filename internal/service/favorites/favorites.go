package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodstream/internal/bus"
	"github.com/vladislavdragonenkov/foodstream/internal/domain"
	"github.com/vladislavdragonenkov/foodstream/internal/metrics"
)

const aggregate = "favorites"

// Set — набор идентификаторов позиций каталога, отмеченных пользователем.
// Семантика множества (без дубликатов), порядок добавления сохраняется.
// Сериализуется как JSON-массив строк, совместимый со старым форматом.
type Set struct {
	mu      sync.Mutex
	ids     []string
	index   map[string]struct{}
	state   domain.StateStore
	bus     *bus.Bus
	metrics *metrics.StoreMetrics
	logger  *log.Entry
}

// New восстанавливает избранное из state store; повреждённый снимок
// трактуется как пустой набор.
func New(ctx context.Context, state domain.StateStore, eventBus *bus.Bus, m *metrics.StoreMetrics, logger *log.Entry) *Set {
	if logger == nil {
		logger = log.WithField("component", "favorites-set")
	}

	s := &Set{
		ids:     []string{},
		index:   make(map[string]struct{}),
		state:   state,
		bus:     eventBus,
		metrics: m,
		logger:  logger,
	}
	s.restore(ctx)
	return s
}

func (s *Set) restore(ctx context.Context) {
	if s.state == nil {
		return
	}
	data, err := s.state.Load(ctx, domain.StateKeyFavorites)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			s.logger.WithError(err).Warn("не удалось прочитать снимок избранного, начинаем с пустого")
		}
		return
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		s.logger.WithError(err).Warn("снимок избранного повреждён, начинаем с пустого")
		return
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := s.index[id]; ok {
			continue
		}
		s.ids = append(s.ids, id)
		s.index[id] = struct{}{}
	}
}

// Add вставляет id, если его ещё нет. Возвращает true, если набор изменился.
func (s *Set) Add(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(ctx, id)
}

// Remove удаляет id; отсутствующий id — no-op.
func (s *Set) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, id)
}

// Toggle удаляет id, если он есть, иначе добавляет.
// Возвращает итоговое членство.
func (s *Set) Toggle(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; ok {
		s.removeLocked(ctx, id)
		return false
	}
	s.addLocked(ctx, id)
	return true
}

// IsFavorite — проверка членства за O(1).
func (s *Set) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.index[id]
	return ok
}

// IDs возвращает копию идентификаторов в порядке добавления.
func (s *Set) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

// FilterFavorites возвращает подмножество переданного списка, отмеченное
// как избранное, сохраняя порядок входного списка.
func (s *Set) FilterFavorites(items []domain.CatalogItem) []domain.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if _, ok := s.index[item.ID]; ok {
			result = append(result, item)
		}
	}
	return result
}

func (s *Set) addLocked(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.ids = append(s.ids, id)
	s.index[id] = struct{}{}
	if s.metrics != nil {
		s.metrics.RecordFavoritesMutation("add")
	}
	s.persistLocked(ctx)
	return true
}

func (s *Set) removeLocked(ctx context.Context, id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	if s.metrics != nil {
		s.metrics.RecordFavoritesMutation("remove")
	}
	s.persistLocked(ctx)
	return true
}

func (s *Set) persistLocked(ctx context.Context) {
	if s.state != nil {
		data, err := json.Marshal(s.ids)
		if err == nil {
			start := time.Now()
			err = s.state.Save(ctx, domain.StateKeyFavorites, data)
			if s.metrics != nil {
				s.metrics.RecordPersistDuration(aggregate, time.Since(start))
			}
		}
		if err != nil {
			s.logger.WithError(err).Warn("не удалось сохранить снимок избранного")
			if s.metrics != nil {
				s.metrics.RecordPersistFailure(aggregate)
			}
		}
	}

	if s.bus != nil {
		s.bus.Publish(bus.TopicFavoritesChanged, append([]string(nil), s.ids...))
	}
}
