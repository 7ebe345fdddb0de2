package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

func newMockProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}
	return producer, mockProducer
}

func TestProducer_PublishEvent(t *testing.T) {
	producer, mockProducer := newMockProducer(t)

	// Настраиваем ожидания
	mockProducer.ExpectSendMessageAndSucceed()

	event := NewOrderEvent(EventTypeOrderCreated, "FS-1", "accepted", 265, 3)

	err := producer.PublishEvent(TopicOrderEvents, "FS-1", event)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	producer, mockProducer := newMockProducer(t)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewOrderEvent(EventTypeOrderStatusChanged, "FS-1", "cooking", 265, 3)

	err := producer.PublishEvent(TopicOrderEvents, "FS-1", event)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_Publish(t *testing.T) {
	producer, mockProducer := newMockProducer(t)

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		event, err := ParseOrderEvent(&sarama.ConsumerMessage{Value: value})
		if err != nil {
			return err
		}
		if event.OrderID != "FS-1" {
			t.Errorf("unexpected order id in payload: %s", event.OrderID)
		}
		return nil
	})

	publisher := NewOutboxPublisher(producer, TopicOrderEvents)
	msg := domain.OutboxMessage{
		AggregateID: "FS-1",
		EventType:   string(EventTypeOrderCreated),
		Payload:     []byte(`{"event_type":"order.created","order_id":"FS-1"}`),
	}

	if err := publisher.Publish(msg); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_NilProducer(t *testing.T) {
	publisher := NewOutboxPublisher(nil, TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{AggregateID: "FS-1"})
	if err != domain.ErrOutboxPublish {
		t.Fatalf("expected ErrOutboxPublish, got %v", err)
	}
}
