package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/fitinbox/internal/config"
	"github.com/polkiloo/fitinbox/internal/domain/model"
)

type writerStub struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *writerStub) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

func (w *writerStub) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherPublish(t *testing.T) {
	writer := &writerStub{}
	p := &KafkaPublisher{writer: writer}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), model.OrderEvent{
		Type: model.OrderEventStatusChanged,
		Order: model.Order{
			ID:       "order-1",
			Number:   1042,
			Status:   model.OrderStatusReady,
			Total:    decimal.RequireFromString("60"),
			Subtotal: decimal.RequireFromString("60"),
			Items:    []model.LineItem{{ProductID: "meal-1", Name: "Frango", UnitPrice: decimal.RequireFromString("2"), Quantity: 30}},
		},
		PreviousStatus: model.OrderStatusPending,
		OccurredAt:     at,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(writer.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(writer.messages))
	}

	msg := writer.messages[0]
	if string(msg.Key) != "order-1" || !msg.Time.Equal(at) {
		t.Fatalf("unexpected message %+v", msg)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "order.status_changed" {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}

	var payload eventPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Order.Number != 1042 || payload.Order.Total != "60.00" || payload.PreviousStatus != "pending" || payload.Order.Status != "ready" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if len(payload.Order.Items) != 1 || payload.Order.Items[0].UnitPrice != "2.00" {
		t.Fatalf("unexpected items %+v", payload.Order.Items)
	}
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &writerStub{err: errors.New("leader not available")}}
	if err := p.Publish(context.Background(), model.OrderEvent{Type: model.OrderEventDeleted}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewPublisherSelectsImplementation(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	if _, ok := newPublisher(&config.Config{}, logger).(NopPublisher); !ok {
		t.Fatal("expected nop publisher without brokers")
	}
	p := newPublisher(&config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "fitinbox.orders"}, logger)
	if _, ok := p.(*KafkaPublisher); !ok {
		t.Fatalf("expected kafka publisher, got %T", p)
	}
}

func TestRegisterLifecycleClosesPublisher(t *testing.T) {
	writer := &writerStub{}
	lc := fxtest.NewLifecycle(t)
	registerLifecycle(lc, &KafkaPublisher{writer: writer})

	lc.RequireStart()
	lc.RequireStop()

	if !writer.closed {
		t.Fatal("publisher must be closed on stop")
	}
}
