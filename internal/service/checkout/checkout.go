package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
	"github.com/vladislavdragonenkov/foodstream/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/foodstream/internal/metrics"
	"github.com/vladislavdragonenkov/foodstream/internal/service/cart"
	"github.com/vladislavdragonenkov/foodstream/internal/service/orders"
)

// DefaultDeliveryFeeMinor — плоская стоимость доставки.
const DefaultDeliveryFeeMinor int64 = 40

// promoDiscountRate — скидка промокода, доля от subtotal.
const promoDiscountRate = 0.10

// Params — параметры оформления заказа.
type Params struct {
	ApplyPromo bool
	ETAMinutes int
}

// Quote — расчёт стоимости корзины до оформления.
type Quote struct {
	SubtotalMinor    int64
	DiscountMinor    int64
	DeliveryFeeMinor int64
	TotalMinor       int64
	ItemCount        int
}

// Service оформляет заказ: снимает снимок корзины, считает цену, создаёт
// заказ и опустошает корзину. Порядок фиксирован: заказ создаётся до
// очистки корзины, поэтому при ошибке создания позиции не теряются.
type Service struct {
	cart             *cart.Store
	orders           *orders.Store
	outbox           domain.OutboxRepository
	metrics          *metrics.StoreMetrics
	logger           *log.Entry
	deliveryFeeMinor int64
}

// New создаёт сервис оформления. outbox может быть nil: тогда события
// заказа не публикуются наружу.
func New(cartStore *cart.Store, orderStore *orders.Store, outboxRepo domain.OutboxRepository, m *metrics.StoreMetrics, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "checkout-service")
	}
	return &Service{
		cart:             cartStore,
		orders:           orderStore,
		outbox:           outboxRepo,
		metrics:          m,
		logger:           logger,
		deliveryFeeMinor: DefaultDeliveryFeeMinor,
	}
}

// SetDeliveryFee переопределяет стоимость доставки (из конфигурации).
func (s *Service) SetDeliveryFee(feeMinor int64) {
	if feeMinor >= 0 {
		s.deliveryFeeMinor = feeMinor
	}
}

// QuoteCart считает стоимость текущей корзины без оформления заказа.
func (s *Service) QuoteCart(applyPromo bool) Quote {
	lines := s.cart.Lines()
	return s.quote(lines, applyPromo)
}

func (s *Service) quote(lines domain.Cart, applyPromo bool) Quote {
	subtotal := lines.SubtotalMinor()
	q := Quote{
		SubtotalMinor:    subtotal,
		DeliveryFeeMinor: s.deliveryFeeMinor,
		ItemCount:        lines.TotalItemCount(),
	}
	if applyPromo {
		q.DiscountMinor = int64(math.Round(float64(subtotal) * promoDiscountRate))
	}
	q.TotalMinor = domain.ComputeTotal(q.SubtotalMinor, q.DiscountMinor, q.DeliveryFeeMinor)
	return q
}

// Checkout оформляет заказ из текущей корзины. Пустая корзина — ошибка
// ErrEmptyCart; заказ становится текущим, корзина очищается. Снимок корзины,
// создание заказа и очистка выполняются одной атомарной операцией корзины,
// поэтому позиция, добавленная параллельным запросом, не может потеряться
// между снимком и очисткой.
func (s *Service) Checkout(ctx context.Context, params Params) (domain.Order, error) {
	var order domain.Order
	err := s.cart.Checkout(ctx, func(lines domain.Cart) error {
		q := s.quote(lines, params.ApplyPromo)

		created, err := s.orders.CreateFromCart(ctx, orders.CreateParams{
			CartLines:        lines,
			DiscountMinor:    q.DiscountMinor,
			DeliveryFeeMinor: q.DeliveryFeeMinor,
			ETAMinutes:       params.ETAMinutes,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		order = created
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordCheckout()
	}
	s.enqueueEvents(order)

	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"total_minor": order.TotalMinor,
		"item_count":  len(order.Items),
	}).Info("заказ оформлен")

	return order, nil
}

// enqueueEvents кладёт события оформления в outbox. Ошибка постановки
// в очередь логируется, но заказ уже создан и не откатывается.
func (s *Service) enqueueEvents(order domain.Order) {
	if s.outbox == nil {
		return
	}

	events := []*kafka.OrderEvent{
		kafka.NewOrderEvent(kafka.EventTypeOrderCreated, order.ID, string(order.Status), order.TotalMinor, len(order.Items)),
		kafka.NewOrderEvent(kafka.EventTypeCartCheckedOut, order.ID, string(order.Status), order.TotalMinor, len(order.Items)),
	}
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.WithError(err).Warn("не удалось сериализовать событие заказа")
			continue
		}
		_, err = s.outbox.Enqueue(domain.OutboxMessage{
			AggregateType: "order",
			AggregateID:   order.ID,
			EventType:     string(event.EventType),
			Payload:       payload,
		})
		if err != nil {
			s.logger.WithError(err).WithField("event_type", event.EventType).Warn("не удалось поставить событие в outbox")
		}
	}
}
