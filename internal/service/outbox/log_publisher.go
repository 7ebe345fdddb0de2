package outbox

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

// LogPublisher пишет события в лог вместо брокера. Используется, когда
// Kafka не сконфигурирована: outbox продолжает работать, события не теряются
// молча, а видны в журнале.
type LogPublisher struct {
	logger *log.Entry
}

// NewLogPublisher создаёт publisher-заглушку поверх логгера.
func NewLogPublisher(logger *log.Entry) *LogPublisher {
	if logger == nil {
		logger = log.WithField("component", "outbox-log-publisher")
	}
	return &LogPublisher{logger: logger}
}

// Publish логирует событие и всегда завершается успешно.
func (p *LogPublisher) Publish(msg domain.OutboxMessage) error {
	p.logger.WithFields(log.Fields{
		"outbox_id":    msg.ID,
		"aggregate_id": msg.AggregateID,
		"event_type":   msg.EventType,
	}).Info("outbox event (kafka disabled)")
	return nil
}

var _ domain.OutboxPublisher = (*LogPublisher)(nil)
