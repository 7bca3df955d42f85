package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeItemAdded   = "cart.item_added"
	TypeItemRemoved = "cart.item_removed"
	TypeCleared     = "cart.cleared"
)

// Event describes one cart mutation. ProductID and Quantity are zero for
// cart.cleared events.
type Event struct {
	Type      string    `json:"type"`
	CartID    string    `json:"cartId"`
	ProductID int64     `json:"productId,omitempty"`
	Variant   *string   `json:"variant,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// KafkaPublisher writes cart events to the cart-events topic, keyed by
// cart id so mutations of one cart stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "cart-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(e.CartID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
