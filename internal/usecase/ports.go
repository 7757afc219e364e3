package usecase

import (
	"context"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// EventPublisher forwards order events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}

// Metrics receives business counters from the use cases.
type Metrics interface {
	OrderSubmitted()
	CheckoutRejected(reason string)
	StatusChanged(status model.OrderStatus)
	FeedEvent(change model.ChangeType)
	OrderBuckets(counts map[model.Bucket]int)
}

// AddressResolver turns postal codes into addresses. Resolve applies the
// filled address through apply only when no newer request for the same
// key was started in the meantime.
type AddressResolver interface {
	Lookup(ctx context.Context, postalCode string) (model.Address, error)
	Resolve(ctx context.Context, key string, current model.Address, apply func(model.Address) error) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, model.OrderEvent) error { return nil }

type nopMetrics struct{}

func (nopMetrics) OrderSubmitted()                   {}
func (nopMetrics) CheckoutRejected(string)           {}
func (nopMetrics) StatusChanged(model.OrderStatus)   {}
func (nopMetrics) FeedEvent(model.ChangeType)        {}
func (nopMetrics) OrderBuckets(map[model.Bucket]int) {}
