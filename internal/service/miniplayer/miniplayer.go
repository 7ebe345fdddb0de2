package miniplayer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodstream/internal/bus"
	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

// Store держит состояние свёрнутой live-трансляции. Прежняя реализация
// синхронизировала экраны опросом durable storage каждые 500 мс; здесь
// каждое изменение публикуется на шине, и подписчики узнают о нём без
// поллинга и окна гонки между чтением и записью.
type Store struct {
	mu     sync.Mutex
	snap   domain.MiniPlayerState
	state  domain.StateStore
	bus    *bus.Bus
	logger *log.Entry
	now    func() time.Time
}

// New восстанавливает состояние миниплеера из state store.
func New(ctx context.Context, state domain.StateStore, eventBus *bus.Bus, logger *log.Entry) *Store {
	if logger == nil {
		logger = log.WithField("component", "miniplayer-store")
	}

	s := &Store{
		state:  state,
		bus:    eventBus,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	if s.state == nil {
		return
	}
	data, err := s.state.Load(ctx, domain.StateKeyMiniPlayer)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			s.logger.WithError(err).Warn("не удалось прочитать состояние миниплеера")
		}
		return
	}
	var snap domain.MiniPlayerState
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.WithError(err).Warn("состояние миниплеера повреждено, сбрасываем")
		return
	}
	s.snap = snap
}

// Get возвращает текущий снимок состояния.
func (s *Store) Get() domain.MiniPlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Set перезаписывает состояние целиком и уведомляет подписчиков.
func (s *Store) Set(ctx context.Context, snap domain.MiniPlayerState) domain.MiniPlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap.UpdatedAt = s.now()
	s.snap = snap
	s.persistLocked(ctx)
	return s.snap
}

// Clear сбрасывает состояние (трансляция развёрнута обратно или закрыта).
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = domain.MiniPlayerState{UpdatedAt: s.now()}
	if s.state != nil {
		if err := s.state.Delete(ctx, domain.StateKeyMiniPlayer); err != nil {
			s.logger.WithError(err).Warn("не удалось удалить состояние миниплеера")
		}
	}
	if s.bus != nil {
		s.bus.Publish(bus.TopicMiniPlayerChanged, s.snap)
	}
}

// Subscribe подписывает на изменения состояния. Возвращает канал событий
// и функцию отписки, которую обязан вызвать подписчик.
func (s *Store) Subscribe() (<-chan bus.Event, func()) {
	if s.bus == nil {
		ch := make(chan bus.Event)
		close(ch)
		return ch, func() {}
	}
	return s.bus.Subscribe(bus.TopicMiniPlayerChanged, 4)
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.state != nil {
		data, err := json.Marshal(s.snap)
		if err == nil {
			err = s.state.Save(ctx, domain.StateKeyMiniPlayer, data)
		}
		if err != nil {
			s.logger.WithError(err).Warn("не удалось сохранить состояние миниплеера")
		}
	}

	if s.bus != nil {
		s.bus.Publish(bus.TopicMiniPlayerChanged, s.snap)
	}
}
