package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics содержит метрики хранилищ корзины, заказов и избранного.
type StoreMetrics struct {
	// Счётчики операций
	cartMutations      *prometheus.CounterVec
	ordersCreated      prometheus.Counter
	checkouts          prometheus.Counter
	statusTransitions  *prometheus.CounterVec
	favoritesMutations *prometheus.CounterVec

	// Ошибки персистентности (проглатываются, но считаются)
	persistFailures *prometheus.CounterVec

	// Гистограмма времени записи снимка в state store
	persistDuration *prometheus.HistogramVec

	// Gauge активных (нетерминальных) заказов
	activeOrders prometheus.Gauge
}

// NewStoreMetrics создаёт метрики в default registerer.
func NewStoreMetrics() *StoreMetrics {
	return newStoreMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewStoreMetricsWith создаёт метрики в переданном registerer (для тестов).
func NewStoreMetricsWith(registerer prometheus.Registerer) *StoreMetrics {
	return newStoreMetricsWithRegisterer(registerer)
}

func newStoreMetricsWithRegisterer(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StoreMetrics{
		cartMutations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "foodstream_cart_mutations_total",
			Help: "Total number of cart mutations grouped by operation",
		}, []string{"op"}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "foodstream_orders_created_total",
			Help: "Total number of orders created from checked out carts",
		}),
		checkouts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "foodstream_checkouts_total",
			Help: "Total number of successful checkouts",
		}),
		statusTransitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "foodstream_order_status_transitions_total",
			Help: "Total number of order status transitions grouped by target status",
		}, []string{"status"}),
		favoritesMutations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "foodstream_favorites_mutations_total",
			Help: "Total number of favorites mutations grouped by operation",
		}, []string{"op"}),
		persistFailures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "foodstream_state_persist_failures_total",
			Help: "Total number of swallowed state store write failures grouped by aggregate",
		}, []string{"aggregate"}),
		persistDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "foodstream_state_persist_duration_seconds",
			Help:    "Duration of state store snapshot writes in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"aggregate"}),
		activeOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "foodstream_active_orders",
			Help: "Number of orders currently in a non-terminal status",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordCartMutation увеличивает счётчик мутаций корзины.
func (m *StoreMetrics) RecordCartMutation(op string) {
	m.cartMutations.WithLabelValues(op).Inc()
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *StoreMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordCheckout увеличивает счётчик успешных оформлений.
func (m *StoreMetrics) RecordCheckout() {
	m.checkouts.Inc()
}

// RecordStatusTransition увеличивает счётчик переходов в целевой статус.
func (m *StoreMetrics) RecordStatusTransition(status string) {
	m.statusTransitions.WithLabelValues(status).Inc()
}

// RecordFavoritesMutation увеличивает счётчик мутаций избранного.
func (m *StoreMetrics) RecordFavoritesMutation(op string) {
	m.favoritesMutations.WithLabelValues(op).Inc()
}

// RecordPersistFailure фиксирует проглоченную ошибку записи снимка.
func (m *StoreMetrics) RecordPersistFailure(aggregate string) {
	m.persistFailures.WithLabelValues(aggregate).Inc()
}

// RecordPersistDuration записывает длительность записи снимка.
func (m *StoreMetrics) RecordPersistDuration(aggregate string, duration time.Duration) {
	m.persistDuration.WithLabelValues(aggregate).Observe(duration.Seconds())
}

// SetActiveOrders выставляет число нетерминальных заказов.
func (m *StoreMetrics) SetActiveOrders(count int) {
	m.activeOrders.Set(float64(count))
}
