package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// messageWriter abstracts kafka.Writer for tests.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order events as JSON, keyed by order id so every
// event of one order lands on the same partition.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}}
}

type itemPayload struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

type orderPayload struct {
	ID          string        `json:"id"`
	Number      int64         `json:"number"`
	CompanyID   string        `json:"companyId"`
	CompanyName string        `json:"companyName,omitempty"`
	Items       []itemPayload `json:"items,omitempty"`
	Subtotal    string        `json:"subtotal"`
	DeliveryFee string        `json:"deliveryFee"`
	Total       string        `json:"total"`
	Address     string        `json:"address,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type eventPayload struct {
	Type           string       `json:"type"`
	Order          orderPayload `json:"order"`
	PreviousStatus string       `json:"previousStatus,omitempty"`
	OccurredAt     time.Time    `json:"occurredAt"`
}

func encode(event model.OrderEvent) ([]byte, error) {
	o := event.Order
	items := make([]itemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemPayload{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
		})
	}
	return json.Marshal(eventPayload{
		Type: string(event.Type),
		Order: orderPayload{
			ID:          o.ID,
			Number:      o.Number,
			CompanyID:   o.CompanyID,
			CompanyName: o.CompanyName,
			Items:       items,
			Subtotal:    o.Subtotal.StringFixed(2),
			DeliveryFee: o.DeliveryFee.StringFixed(2),
			Total:       o.Total.StringFixed(2),
			Address:     o.Address,
			Notes:       o.Notes,
			Status:      string(o.Status),
			CreatedAt:   o.CreatedAt.UTC(),
		},
		PreviousStatus: string(event.PreviousStatus),
		OccurredAt:     event.OccurredAt.UTC(),
	})
}

// Publish writes event to the topic.
func (p *KafkaPublisher) Publish(ctx context.Context, event model.OrderEvent) error {
	data, err := encode(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.Order.ID),
		Value: data,
		Time:  event.OccurredAt.UTC(),
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order event: %w", err)
	}
	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.OrderEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
