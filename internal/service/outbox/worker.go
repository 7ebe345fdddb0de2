package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

const (
	pollInterval = 1 * time.Second
	batchSize    = 100

	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 50 * time.Millisecond
)

var (
	outboxPublishAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodstream_outbox_publish_attempts_total",
		Help: "Total number of outbox publish attempts grouped by result.",
	}, []string{"result"})
	outboxPendingRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "foodstream_outbox_pending_records",
		Help: "Current number of pending records in transactional outbox.",
	})
	outboxOldestPendingAge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "foodstream_outbox_oldest_pending_age_seconds",
		Help: "Age in seconds of the oldest pending outbox record.",
	})
)

// Worker опрашивает outbox и доставляет накопленные события брокеру.
// Сообщение публикуется не более maxAttempts раз с экспоненциальной
// паузой между попытками; исчерпав попытки, worker помечает запись
// failed и, если задан DLQ publisher, пересылает её туда.
type Worker struct {
	repo         domain.OutboxRepository
	publisher    domain.OutboxPublisher
	dlqPublisher domain.OutboxPublisher
	logger       *log.Entry
	maxAttempts  int
	baseDelay    time.Duration
}

// Option настраивает Worker.
type Option func(*Worker)

// WithLogger подменяет logger по умолчанию.
func WithLogger(logger *log.Entry) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithDLQPublisher включает пересылку в DLQ после исчерпания попыток.
func WithDLQPublisher(publisher domain.OutboxPublisher) Option {
	return func(w *Worker) {
		w.dlqPublisher = publisher
	}
}

// WithMaxAttempts ограничивает число попыток публикации одного сообщения.
func WithMaxAttempts(maxAttempts int) Option {
	return func(w *Worker) {
		if maxAttempts > 0 {
			w.maxAttempts = maxAttempts
		}
	}
}

// WithRetryBaseDelay задаёт базовую паузу между попытками; ноль отключает её.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(w *Worker) {
		if delay >= 0 {
			w.baseDelay = delay
		}
	}
}

// NewWorker создаёт worker поверх репозитория outbox и publisher-а.
func NewWorker(repo domain.OutboxRepository, publisher domain.OutboxPublisher, options ...Option) *Worker {
	w := &Worker{
		repo:        repo,
		publisher:   publisher,
		logger:      log.WithField("component", "outbox-worker"),
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultRetryBaseDelay,
	}
	for _, option := range options {
		option(w)
	}
	return w
}

// Run крутит polling-цикл до отмены ctx.
func (w *Worker) Run(ctx context.Context) {
	if w.repo == nil || w.publisher == nil {
		w.logger.Warn("outbox worker не запущен: нет репозитория или publisher-а")
		return
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	w.ProcessOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ProcessOnce(ctx)
		}
	}
}

// ProcessOnce забирает один батч pending-сообщений и доставляет его.
func (w *Worker) ProcessOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	w.updateBacklogGauges()

	pending, err := w.repo.PullPending(batchSize)
	if err != nil {
		w.logger.WithError(err).Warn("не удалось прочитать pending-сообщения outbox")
		return
	}

	for _, msg := range pending {
		if ctx.Err() != nil {
			return
		}

		if err := w.deliver(ctx, msg); err != nil {
			w.logger.WithError(err).WithFields(log.Fields{
				"outbox_id":  msg.ID,
				"event_type": msg.EventType,
			}).Error("сообщение не доставлено, попытки исчерпаны")
			outboxPublishAttempts.WithLabelValues("failed").Inc()

			if dlqErr := w.forwardToDLQ(msg, err); dlqErr != nil {
				w.logger.WithError(dlqErr).WithField("outbox_id", msg.ID).Warn("пересылка в DLQ не удалась")
				outboxPublishAttempts.WithLabelValues("dlq_failed").Inc()
			}
			if markErr := w.repo.MarkFailed(msg.ID); markErr != nil {
				w.logger.WithError(markErr).WithField("outbox_id", msg.ID).Warn("не удалось пометить сообщение failed")
			}
			continue
		}

		if err := w.repo.MarkSent(msg.ID); err != nil {
			w.logger.WithError(err).WithField("outbox_id", msg.ID).Warn("не удалось пометить сообщение sent")
		}
	}

	w.updateBacklogGauges()
}

// deliver публикует сообщение, повторяя попытки с экспоненциальной паузой.
func (w *Worker) deliver(ctx context.Context, msg domain.OutboxMessage) error {
	var lastErr error

	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		err := w.publisher.Publish(msg)
		if err == nil {
			outboxPublishAttempts.WithLabelValues("sent").Inc()
			return nil
		}
		lastErr = err
		outboxPublishAttempts.WithLabelValues("retry_error").Inc()

		if attempt == w.maxAttempts {
			break
		}

		delay := w.backoffDelay(attempt)
		if delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("publish failed after %d attempts: %w", w.maxAttempts, lastErr)
}

// backoffDelay возвращает baseDelay × 2^(attempt-1) с защитой от переполнения.
func (w *Worker) backoffDelay(attempt int) time.Duration {
	if w.baseDelay <= 0 {
		return 0
	}
	const maxShift = 32
	shift := attempt - 1
	if shift > maxShift {
		shift = maxShift
	}
	return w.baseDelay << uint(shift)
}

func (w *Worker) updateBacklogGauges() {
	stats, err := w.repo.Stats()
	if err != nil {
		w.logger.WithError(err).Warn("не удалось собрать статистику outbox")
		return
	}

	outboxPendingRecords.Set(float64(stats.PendingCount))

	var age float64
	if stats.PendingCount > 0 && !stats.OldestPendingAt.IsZero() {
		if age = time.Since(stats.OldestPendingAt).Seconds(); age < 0 {
			age = 0
		}
	}
	outboxOldestPendingAge.Set(age)
}

// dlqEnvelope — обёртка исходного сообщения при пересылке в DLQ.
type dlqEnvelope struct {
	OutboxID      string          `json:"outbox_id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishError  string          `json:"publish_error"`
	ForwardedAt   string          `json:"forwarded_at"`
}

func (w *Worker) forwardToDLQ(msg domain.OutboxMessage, publishErr error) error {
	if w.dlqPublisher == nil {
		return nil
	}

	payload, err := json.Marshal(dlqEnvelope{
		OutboxID:      msg.ID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       json.RawMessage(msg.Payload),
		PublishError:  publishErr.Error(),
		ForwardedAt:   time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal dlq envelope: %w", err)
	}

	dlqMsg := msg
	dlqMsg.Payload = payload
	if err := w.dlqPublisher.Publish(dlqMsg); err != nil {
		return fmt.Errorf("publish to dlq: %w", err)
	}
	return nil
}
