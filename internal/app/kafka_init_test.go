package app

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodstream/internal/service/orders"
	"github.com/vladislavdragonenkov/foodstream/internal/storage/memory"
)

func TestInitKafkaProducer_EmptyBrokers(t *testing.T) {
	logger := log.WithField("test", "kafka")

	producer, err := initKafkaProducer("", logger)

	if err != nil {
		t.Errorf("expected no error for empty brokers, got %v", err)
	}

	if producer != nil {
		t.Error("expected nil producer for empty brokers")
	}
}

func TestInitKafkaProducer_InvalidBrokers(t *testing.T) {
	logger := log.WithField("test", "kafka")

	// Несуществующий broker: ошибка логируется, приложение продолжает работу
	producer, err := initKafkaProducer("invalid-broker:9999", logger)

	if err == nil {
		t.Error("expected error for invalid brokers")
	}

	if producer != nil {
		t.Error("expected nil producer on error")
	}
}

func TestCloseKafka_NilProducer(t *testing.T) {
	logger := log.WithField("test", "kafka")

	// Не должно паниковать
	closeKafka(nil, logger)
}

func TestStartStatusConsumer_EmptyBrokers(t *testing.T) {
	ctx := context.Background()
	logger := log.WithField("test", "kafka")
	orderStore := orders.New(ctx, memory.NewStateStore(), nil, nil, nil)

	consumer, err := startStatusConsumer(ctx, "", orderStore, nil, logger)

	if err != nil {
		t.Errorf("expected no error for empty brokers, got %v", err)
	}

	if consumer != nil {
		t.Error("expected nil consumer for empty brokers")
	}
}

func TestStartStatusConsumer_InvalidBrokers(t *testing.T) {
	ctx := context.Background()
	logger := log.WithField("test", "kafka")
	orderStore := orders.New(ctx, memory.NewStateStore(), nil, nil, nil)

	// Создание группы падает; на любой ошибке клиент не должен течь,
	// вызывающему возвращается nil consumer.
	consumer, err := startStatusConsumer(ctx, "invalid-broker:9999", orderStore, nil, logger)

	if err == nil {
		t.Error("expected error for invalid brokers")
	}

	if consumer != nil {
		t.Error("expected nil consumer on error")
	}
}
