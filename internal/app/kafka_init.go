package app

import (
	"context"
	"strings"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
	"github.com/vladislavdragonenkov/foodstream/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/foodstream/internal/service/orders"
)

// initKafkaProducer инициализирует Kafka producer если brokers не пустой.
// Возвращает nil, nil если brokers пустой или если произошла ошибка.
func initKafkaProducer(brokers string, logger *log.Entry) (*kafka.Producer, error) {
	if brokers == "" {
		return nil, nil
	}

	brokerList := strings.Split(brokers, ",")
	producer, err := kafka.NewProducer(brokerList)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, err
	}

	logger.WithField("brokers", brokerList).Info("kafka producer initialized")
	return producer, nil
}

// closeKafka закрывает Kafka producer если он не nil.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}

// startStatusConsumer подписывается на topic обновлений статуса от
// курьерской стороны и применяет их к хранилищу заказов. Недопустимые
// переходы отбрасываются без retry: повторная обработка их не исправит.
func startStatusConsumer(ctx context.Context, brokers string, orderStore *orders.Store, dlqProducer *kafka.Producer, logger *log.Entry) (*kafka.Consumer, error) {
	if brokers == "" {
		return nil, nil
	}

	handler := func(ctx context.Context, message *sarama.ConsumerMessage) error {
		update, err := kafka.ParseStatusUpdate(message)
		if err != nil {
			return err
		}
		if _, err := orderStore.UpdateStatus(ctx, update.OrderID, domain.OrderStatus(update.Status)); err != nil {
			logger.WithError(err).WithFields(log.Fields{
				"order_id": update.OrderID,
				"status":   update.Status,
			}).Warn("status update rejected")
			return nil
		}
		return nil
	}

	consumer, err := kafka.NewConsumerWithDLQ(
		strings.Split(brokers, ","),
		"foodstream-status-updates",
		[]string{kafka.TopicStatusUpdates},
		handler,
		dlqProducer,
		3,
	)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka consumer, continuing without status updates")
		return nil, err
	}

	if err := consumer.Start(ctx); err != nil {
		// Группа уже создана: освобождаем клиент, иначе он утечёт.
		if stopErr := consumer.Stop(); stopErr != nil {
			logger.WithError(stopErr).Warn("failed to stop kafka consumer after start failure")
		}
		return nil, err
	}
	return consumer, nil
}
