package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// SettlementPublisher is what the usecases need from the event bus; tests
// substitute a recording fake.
type SettlementPublisher interface {
	PublishOrder(event OrderEvent) error
	PublishPayout(event PayoutEvent) error
	PublishDispute(event DisputeEvent) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

func (k *KafkaPublisher) publish(key string, event interface{}) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}

func (k *KafkaPublisher) PublishOrder(event OrderEvent) error {
	return k.publish(event.OrderID, event)
}

func (k *KafkaPublisher) PublishPayout(event PayoutEvent) error {
	return k.publish(event.SellerID, event)
}

func (k *KafkaPublisher) PublishDispute(event DisputeEvent) error {
	return k.publish(event.OrderID, event)
}
