package cart

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

const aggregate = "cart"

// Store — агрегат корзины: единственный владелец CartLine-ов сессии.
// Все мутации выполняются под мьютексом, после каждой снимок сериализуется
// в state store и публикуется событие на шине. Ошибка записи снимка не
// прерывает операцию: in-memory состояние остаётся источником истины.
type Store struct {
	mu      sync.Mutex
	lines   domain.Cart
	state   domain.StateStore
	bus     *bus.Bus
	metrics *metrics.StoreMetrics
	logger  *log.Entry
}

// New восстанавливает корзину из state store. Отсутствующий или
// повреждённый снимок трактуется как пустая корзина.
func New(ctx context.Context, state domain.StateStore, eventBus *bus.Bus, m *metrics.StoreMetrics, logger *log.Entry) *Store {
	if logger == nil {
		logger = log.WithField("component", "cart-store")
	}

	s := &Store{
		lines:   domain.Cart{},
		state:   state,
		bus:     eventBus,
		metrics: m,
		logger:  logger,
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	if s.state == nil {
		return
	}
	data, err := s.state.Load(ctx, domain.StateKeyCart)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			s.logger.WithError(err).Warn("не удалось прочитать снимок корзины, начинаем с пустой")
		}
		return
	}
	var lines domain.Cart
	if err := json.Unmarshal(data, &lines); err != nil {
		s.logger.WithError(err).Warn("снимок корзины повреждён, начинаем с пустой")
		return
	}
	// Отбрасываем строки, нарушающие инварианты (quantity >= 1, цена >= 0).
	restored := make(domain.Cart, 0, len(lines))
	for _, line := range lines {
		if line.ItemID == "" || line.Quantity < 1 || line.UnitPriceMinor < 0 {
			continue
		}
		restored = append(restored, line)
	}
	s.lines = restored
}

// AddItem добавляет позицию: повторное добавление того же id увеличивает
// количество, а не создаёт дубликат.
func (s *Store) AddItem(ctx context.Context, input domain.CartItemInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lines.Add(input) {
		s.logger.WithField("item_id", input.ID).Warn("некорректная позиция проигнорирована")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordCartMutation("add")
	}
	s.persistLocked(ctx)
}

// RemoveItem удаляет позицию; отсутствующий id — no-op.
func (s *Store) RemoveItem(ctx context.Context, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lines.Remove(itemID) {
		return
	}
	if s.metrics != nil {
		s.metrics.RecordCartMutation("remove")
	}
	s.persistLocked(ctx)
}

// UpdateQuantity устанавливает количество позиции; значение <= 0 удаляет
// позицию, неизвестный id — no-op.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lines.SetQuantity(itemID, quantity) {
		return
	}
	if s.metrics != nil {
		s.metrics.RecordCartMutation("update_quantity")
	}
	s.persistLocked(ctx)
}

// Checkout атомарно передаёт содержимое корзины на оформление: под мьютексом
// снимается копия позиций, вызывается create, и только при его успехе корзина
// опустошается. Параллельное добавление позиции либо попадает в снимок, либо
// дожидается конца оформления и остаётся в корзине — строки не теряются.
// Ошибка create оставляет корзину нетронутой.
func (s *Store) Checkout(ctx context.Context, create func(lines domain.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		return domain.ErrEmptyCart
	}
	if err := create(s.lines.Clone()); err != nil {
		return err
	}

	s.lines.Clear()
	if s.metrics != nil {
		s.metrics.RecordCartMutation("clear")
	}
	s.persistLocked(ctx)
	return nil
}

// Clear опустошает корзину.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines.Clear()
	if s.metrics != nil {
		s.metrics.RecordCartMutation("clear")
	}
	s.persistLocked(ctx)
}

// Lines возвращает копию позиций корзины.
func (s *Store) Lines() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.Clone()
}

// SubtotalMinor возвращает Σ(price × quantity); вычисляется на чтении.
func (s *Store) SubtotalMinor() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.SubtotalMinor()
}

// TotalItemCount возвращает Σ(quantity); используется для бейджа корзины.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.TotalItemCount()
}

// persistLocked сериализует корзину и уведомляет подписчиков.
// Вызывается только под мьютексом.
func (s *Store) persistLocked(ctx context.Context) {
	if s.state != nil {
		data, err := json.Marshal(s.lines)
		if err == nil {
			start := time.Now()
			err = s.state.Save(ctx, domain.StateKeyCart, data)
			if s.metrics != nil {
				s.metrics.RecordPersistDuration(aggregate, time.Since(start))
			}
		}
		if err != nil {
			// In-memory состояние остаётся авторитетным до конца сессии.
			s.logger.WithError(err).Warn("не удалось сохранить снимок корзины")
			if s.metrics != nil {
				s.metrics.RecordPersistFailure(aggregate)
			}
		}
	}

	if s.bus != nil {
		s.bus.Publish(bus.TopicCartChanged, s.lines.Clone())
	}
}
