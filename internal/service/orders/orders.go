package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodstream/internal/bus"
	"github.com/vladislavdragonenkov/foodstream/internal/domain"
	"github.com/vladislavdragonenkov/foodstream/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/foodstream/internal/metrics"
)

const aggregate = "orders"

// snapshot — формат сериализации хранилища заказов: весь список плюс
// указатель на текущий заказ, единым документом под одним ключом.
type snapshot struct {
	Orders         []domain.Order `json:"orders"`
	CurrentOrderID string         `json:"currentOrderId"`
}

// CreateParams — вход единственного пути создания заказа.
type CreateParams struct {
	CartLines        domain.Cart
	DiscountMinor    int64
	DeliveryFeeMinor int64
	ETAMinutes       int
}

// Store хранит заказы newest-first и указатель текущего заказа.
// Заказ после создания неизменяем, единственное исключение — поле status,
// которое движется строго вперёд по жизненному циклу.
type Store struct {
	mu          sync.Mutex
	orders      []domain.Order
	currentID   string
	lastIDMilli int64
	state       domain.StateStore
	bus         *bus.Bus
	outbox      domain.OutboxRepository
	metrics     *metrics.StoreMetrics
	logger      *log.Entry
	now         func() time.Time
}

// New восстанавливает хранилище заказов из state store. Отсутствующий или
// повреждённый снимок трактуется как пустое хранилище.
func New(ctx context.Context, state domain.StateStore, eventBus *bus.Bus, m *metrics.StoreMetrics, logger *log.Entry) *Store {
	if logger == nil {
		logger = log.WithField("component", "orders-store")
	}

	s := &Store{
		state:   state,
		bus:     eventBus,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
	s.restore(ctx)
	s.refreshActiveGaugeLocked()
	return s
}

// SetOutbox включает публикацию событий смены статуса через outbox.
func (s *Store) SetOutbox(repo domain.OutboxRepository) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = repo
}

func (s *Store) restore(ctx context.Context) {
	if s.state == nil {
		return
	}
	data, err := s.state.Load(ctx, domain.StateKeyOrders)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			s.logger.WithError(err).Warn("не удалось прочитать снимок заказов, начинаем с пустого")
		}
		return
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.WithError(err).Warn("снимок заказов повреждён, начинаем с пустого")
		return
	}
	s.orders = snap.Orders
	s.currentID = snap.CurrentOrderID

	// Засеваем генератор идентификаторов, чтобы при откате часов новые
	// заказы не столкнулись с восстановленными.
	for _, order := range s.orders {
		var milli int64
		if _, err := fmt.Sscanf(order.ID, "FS-%d", &milli); err == nil && milli > s.lastIDMilli {
			s.lastIDMilli = milli
		}
	}
}

// CreateFromCart — единственный путь записи, создающий заказ: снимает
// глубокую копию позиций корзины, присваивает свежий id и текущую метку
// времени, пересчитывает итог, добавляет заказ в начало списка и
// переводит на него указатель текущего заказа.
func (s *Store) CreateFromCart(ctx context.Context, params CreateParams) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(params.CartLines) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}

	eta := params.ETAMinutes
	if eta <= 0 {
		eta = domain.DefaultETAMinutes
	}

	lines := params.CartLines.Clone()
	subtotal := lines.SubtotalMinor()
	now := s.now()

	order := domain.Order{
		ID:               s.nextIDLocked(now),
		CreatedAt:        now,
		Status:           domain.OrderStatusAccepted,
		ETAMinutes:       eta,
		Items:            lines,
		SubtotalMinor:    subtotal,
		DiscountMinor:    params.DiscountMinor,
		DeliveryFeeMinor: params.DeliveryFeeMinor,
		TotalMinor:       domain.ComputeTotal(subtotal, params.DiscountMinor, params.DeliveryFeeMinor),
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errs[0]
	}

	s.orders = append([]domain.Order{order}, s.orders...)
	s.currentID = order.ID

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.refreshActiveGaugeLocked()
	s.persistLocked(ctx)

	return order.Clone(), nil
}

// Current возвращает заказ по указателю currentOrderId. Если указатель
// пуст или указывает на несуществующий заказ, возвращается самый свежий;
// для пустого хранилища — false. Метод никогда не возвращает ошибку.
func (s *Store) Current() (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.orders) == 0 {
		return domain.Order{}, false
	}
	if s.currentID != "" {
		for _, order := range s.orders {
			if order.ID == s.currentID {
				return order.Clone(), true
			}
		}
	}
	// Указатель пуст или устарел: откатываемся на самый свежий заказ.
	return s.orders[0].Clone(), true
}

// Get возвращает заказ по id или ErrOrderNotFound.
func (s *Store) Get(id string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, order := range s.orders {
		if order.ID == id {
			return order.Clone(), nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

// List возвращает копию списка заказов, newest-first.
func (s *Store) List() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		result = append(result, order.Clone())
	}
	return result
}

// CurrentOrderID возвращает текущее значение указателя (для сериализации и тестов).
func (s *Store) CurrentOrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// UpdateStatus переводит заказ в новый статус. Переход проверяется на
// допустимость: только вперёд по цепочке, отмена — из нетерминального
// состояния. Остальные заказы списка не затрагиваются.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.Known() {
		return domain.Order{}, fmt.Errorf("%w: %q", domain.ErrUnknownStatus, status)
	}

	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		if !s.orders[i].Status.CanTransitionTo(status) {
			return domain.Order{}, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, s.orders[i].Status, status)
		}
		s.orders[i].Status = status

		if s.metrics != nil {
			s.metrics.RecordStatusTransition(string(status))
		}
		s.refreshActiveGaugeLocked()
		s.persistLocked(ctx)
		s.enqueueStatusChangedLocked(s.orders[i])
		return s.orders[i].Clone(), nil
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

// nextIDLocked выдаёт timestamp-derived идентификатор вида FS-<unix-milli>.
// При создании нескольких заказов в одну миллисекунду значение монотонно
// увеличивается, поэтому идентификаторы всегда различимы и упорядочены.
func (s *Store) nextIDLocked(now time.Time) string {
	milli := now.UnixMilli()
	if milli <= s.lastIDMilli {
		milli = s.lastIDMilli + 1
	}
	s.lastIDMilli = milli
	return fmt.Sprintf("FS-%d", milli)
}

func (s *Store) refreshActiveGaugeLocked() {
	if s.metrics == nil {
		return
	}
	var active int
	for _, order := range s.orders {
		if !order.Status.Terminal() {
			active++
		}
	}
	s.metrics.SetActiveOrders(active)
}

// persistLocked сериализует весь снимок {orders, currentOrderId} и
// уведомляет подписчиков. Вызывается только под мьютексом.
func (s *Store) persistLocked(ctx context.Context) {
	if s.state != nil {
		data, err := json.Marshal(snapshot{Orders: s.orders, CurrentOrderID: s.currentID})
		if err == nil {
			start := time.Now()
			err = s.state.Save(ctx, domain.StateKeyOrders, data)
			if s.metrics != nil {
				s.metrics.RecordPersistDuration(aggregate, time.Since(start))
			}
		}
		if err != nil {
			s.logger.WithError(err).Warn("не удалось сохранить снимок заказов")
			if s.metrics != nil {
				s.metrics.RecordPersistFailure(aggregate)
			}
		}
	}

	if s.bus != nil {
		s.bus.Publish(bus.TopicOrdersChanged, s.currentID)
	}
}

// enqueueStatusChangedLocked кладёт событие смены статуса в outbox.
// Ошибка постановки логируется, переход статуса не откатывается.
func (s *Store) enqueueStatusChangedLocked(order domain.Order) {
	if s.outbox == nil {
		return
	}

	event := kafka.NewOrderEvent(kafka.EventTypeOrderStatusChanged, order.ID, string(order.Status), order.TotalMinor, len(order.Items))
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).Warn("не удалось сериализовать событие смены статуса")
		return
	}
	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     string(event.EventType),
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("не удалось поставить событие смены статуса в outbox")
	}
}
