package test

import (
	"context"
	"sync"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// PublisherStub records published order events.
type PublisherStub struct {
	mu     sync.Mutex
	Events []model.OrderEvent
	Err    error
}

// Publish records the event and returns the configured error.
func (p *PublisherStub) Publish(_ context.Context, event model.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return p.Err
}

// Types lists the recorded event types in order.
func (p *PublisherStub) Types() []model.OrderEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.OrderEventType, 0, len(p.Events))
	for _, e := range p.Events {
		out = append(out, e.Type)
	}
	return out
}

// MetricsStub counts business metric calls.
type MetricsStub struct {
	mu        sync.Mutex
	Submitted int
	Rejected  map[string]int
	Statuses  map[model.OrderStatus]int
	Feed      map[model.ChangeType]int
	Buckets   map[model.Bucket]int
}

func (m *MetricsStub) OrderSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submitted++
}

func (m *MetricsStub) CheckoutRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Rejected == nil {
		m.Rejected = make(map[string]int)
	}
	m.Rejected[reason]++
}

func (m *MetricsStub) StatusChanged(status model.OrderStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Statuses == nil {
		m.Statuses = make(map[model.OrderStatus]int)
	}
	m.Statuses[status]++
}

func (m *MetricsStub) FeedEvent(change model.ChangeType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Feed == nil {
		m.Feed = make(map[model.ChangeType]int)
	}
	m.Feed[change]++
}

func (m *MetricsStub) OrderBuckets(counts map[model.Bucket]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Buckets = make(map[model.Bucket]int, len(counts))
	for k, v := range counts {
		m.Buckets[k] = v
	}
}

// ResolverStub resolves addresses through LookupFn. Resolve merges the
// lookup result into current and applies it unless ResolveErr is set.
type ResolverStub struct {
	LookupFn   func(context.Context, string) (model.Address, error)
	ResolveErr error
	Keys       []string
}

// Lookup delegates to LookupFn.
func (r *ResolverStub) Lookup(ctx context.Context, postalCode string) (model.Address, error) {
	if r.LookupFn == nil {
		return model.Address{}, nil
	}
	return r.LookupFn(ctx, postalCode)
}

// Resolve records key and applies the merged address.
func (r *ResolverStub) Resolve(ctx context.Context, key string, current model.Address, apply func(model.Address) error) error {
	r.Keys = append(r.Keys, key)
	if r.ResolveErr != nil {
		return r.ResolveErr
	}
	resolved, err := r.Lookup(ctx, current.PostalCode)
	if err != nil {
		return err
	}
	return apply(current.Merge(resolved))
}
