package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
)

// OrderLifecycle keeps an in-memory projection of the order store and
// applies administrative status changes to it. The projection is fed by
// explicit writes and by the store change feed; both converge by keeping
// the record with the highest revision.
type OrderLifecycle struct {
	orders  repository.OrderRepository
	events  EventPublisher
	metrics Metrics
	logger  *slog.Logger
	loc     *time.Location
	now     func() time.Time

	mu     sync.RWMutex
	cache  []model.Order
	loaded bool
}

// NewOrderLifecycle constructs OrderLifecycle. Nil publisher or metrics
// are replaced by no-ops.
func NewOrderLifecycle(orders repository.OrderRepository, events EventPublisher, metrics Metrics, loc *time.Location, logger *slog.Logger) *OrderLifecycle {
	if events == nil {
		events = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderLifecycle{
		orders:  orders,
		events:  events,
		metrics: metrics,
		logger:  logger,
		loc:     loc,
		now:     time.Now,
	}
}

// Reload replaces the projection with the full order list from the store.
func (m *OrderLifecycle) Reload(ctx context.Context) error {
	orders, err := m.orders.List(ctx, model.OrderFilter{})
	if err != nil {
		return fmt.Errorf("reload orders: %w", err)
	}

	m.mu.Lock()
	m.cache = orders
	m.loaded = true
	m.recomputeLocked()
	m.mu.Unlock()

	m.logger.Debug("orders reloaded", slog.Int("orders", len(orders)))
	return nil
}

// Loaded reports whether at least one reload succeeded.
func (m *OrderLifecycle) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// ListAll returns active orders first, then finalized, then cancelled,
// newest first within each bucket.
func (m *OrderLifecycle) ListAll() []model.Order {
	m.mu.RLock()
	out := make([]model.Order, len(m.cache))
	copy(out, m.cache)
	m.mu.RUnlock()

	model.SortOrders(out)
	return out
}

// ListBucket returns the orders of a single bucket, newest first.
func (m *OrderLifecycle) ListBucket(bucket model.Bucket) []model.Order {
	all := m.ListAll()
	out := all[:0]
	for _, o := range all {
		if o.Bucket() == bucket {
			out = append(out, o)
		}
	}
	return out
}

// Stats aggregates the projection. Today is evaluated at call time.
func (m *OrderLifecycle) Stats() model.OrderStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return model.ComputeOrderStats(m.cache, m.now(), m.loc)
}

// Find looks an order up by id and then by order number.
func (m *OrderLifecycle) Find(ref model.OrderRef) (model.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLocked(ref)
}

// ChangeStatus writes a new status for the referenced order. Setting the
// current status again is a successful no-op. An unknown reference reloads
// the projection and returns ErrStaleReference.
func (m *OrderLifecycle) ChangeStatus(ctx context.Context, ref model.OrderRef, status model.OrderStatus) (*model.StatusChange, error) {
	if !status.Assignable() {
		return nil, domainErrors.ErrInvalidStatus
	}

	order, err := m.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		return &model.StatusChange{Order: order, Previous: status, Bucket: order.Bucket()}, nil
	}

	at := m.now().UTC()
	revision, err := m.orders.UpdateStatus(ctx, order.ID, status, at)
	if err != nil {
		return nil, m.storeFailure(order.ID, classifyStoreError("change order status", err))
	}

	updated := order
	updated.Status = status
	updated.StatusUpdatedAt = at
	updated.Revision = revision
	m.upsert(updated)

	m.metrics.StatusChanged(status)
	m.publish(ctx, model.OrderEvent{
		Type:           model.OrderEventStatusChanged,
		Order:          updated,
		PreviousStatus: order.Status,
		OccurredAt:     at,
	})

	return &model.StatusChange{
		Order:    updated,
		Previous: order.Status,
		Bucket:   updated.Bucket(),
		Changed:  true,
	}, nil
}

// Delete removes the referenced order from the store and the projection.
func (m *OrderLifecycle) Delete(ctx context.Context, ref model.OrderRef) (*model.Order, error) {
	order, err := m.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := m.orders.Delete(ctx, order.ID); err != nil {
		return nil, m.storeFailure(order.ID, classifyStoreError("delete order", err))
	}

	m.mu.Lock()
	m.removeLocked(order.ID)
	m.recomputeLocked()
	m.mu.Unlock()

	m.publish(ctx, model.OrderEvent{
		Type:       model.OrderEventDeleted,
		Order:      order,
		OccurredAt: m.now().UTC(),
	})
	return &order, nil
}

// Track adds a freshly inserted order without waiting for the feed.
func (m *OrderLifecycle) Track(order model.Order) {
	m.apply(model.ChangeEvent{Type: model.ChangeAdded, Order: order})
}

// Reconcile applies one change feed event. Added events for cached ids are
// ignored; modified events older than the cached revision are dropped.
// Problems are logged, never returned to the feed.
func (m *OrderLifecycle) Reconcile(event model.ChangeEvent) {
	if event.Order.ID == "" {
		m.logger.Warn("change event without order id", slog.String("type", string(event.Type)))
		return
	}
	m.metrics.FeedEvent(event.Type)
	m.apply(event)
}

func (m *OrderLifecycle) apply(event model.ChangeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch event.Type {
	case model.ChangeAdded:
		if m.indexLocked(event.Order.ID) >= 0 {
			return
		}
		m.cache = append([]model.Order{event.Order}, m.cache...)
	case model.ChangeModified:
		idx := m.indexLocked(event.Order.ID)
		if idx < 0 {
			m.cache = append([]model.Order{event.Order}, m.cache...)
			break
		}
		if event.Order.Revision < m.cache[idx].Revision {
			return
		}
		m.cache[idx] = event.Order
	case model.ChangeRemoved:
		if !m.removeLocked(event.Order.ID) {
			return
		}
	default:
		m.logger.Warn("unknown change event type",
			slog.String("type", string(event.Type)),
			slog.String("order_id", event.Order.ID),
		)
		return
	}

	m.recomputeLocked()
}

func (m *OrderLifecycle) resolve(ctx context.Context, ref model.OrderRef) (model.Order, error) {
	if ref.IsZero() {
		return model.Order{}, domainErrors.ErrNotFound
	}
	if order, ok := m.Find(ref); ok {
		return order, nil
	}
	if err := m.Reload(ctx); err != nil {
		m.logger.Error("reload after stale reference failed",
			slog.String("ref", ref.String()),
			slog.String("error", err.Error()),
		)
	}
	return model.Order{}, domainErrors.ErrStaleReference
}

// storeFailure drops id from the projection when the store no longer has
// it, so a retry after the error sees the current state.
func (m *OrderLifecycle) storeFailure(id string, err error) error {
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return err
	}
	m.mu.Lock()
	if m.removeLocked(id) {
		m.recomputeLocked()
	}
	m.mu.Unlock()
	return err
}

func (m *OrderLifecycle) upsert(order model.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(order.ID)
	switch {
	case idx < 0:
		m.cache = append([]model.Order{order}, m.cache...)
	case order.Revision >= m.cache[idx].Revision:
		m.cache[idx] = order
	default:
		return
	}
	m.recomputeLocked()
}

func (m *OrderLifecycle) findLocked(ref model.OrderRef) (model.Order, bool) {
	if ref.ID != "" {
		if idx := m.indexLocked(ref.ID); idx >= 0 {
			return m.cache[idx], true
		}
	}
	if ref.HasNumber {
		for _, o := range m.cache {
			if o.Number == ref.Number {
				return o, true
			}
		}
	}
	return model.Order{}, false
}

func (m *OrderLifecycle) indexLocked(id string) int {
	for i, o := range m.cache {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (m *OrderLifecycle) removeLocked(id string) bool {
	idx := m.indexLocked(id)
	if idx < 0 {
		return false
	}
	m.cache = append(m.cache[:idx], m.cache[idx+1:]...)
	return true
}

func (m *OrderLifecycle) recomputeLocked() {
	counts := make(map[model.Bucket]int, len(model.Buckets))
	for _, b := range model.Buckets {
		counts[b] = 0
	}
	for _, o := range m.cache {
		counts[o.Bucket()]++
	}
	m.metrics.OrderBuckets(counts)
}

func (m *OrderLifecycle) publish(ctx context.Context, event model.OrderEvent) {
	if err := m.events.Publish(ctx, event); err != nil {
		m.logger.Warn("publish order event",
			slog.String("type", string(event.Type)),
			slog.String("order_id", event.Order.ID),
			slog.String("error", err.Error()),
		)
	}
}

// classifyStoreError makes sure every store failure reaching a caller is a
// StoreError, keeping the classification done by the store if any.
func classifyStoreError(op string, err error) error {
	var storeErr *domainErrors.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	kind := domainErrors.StoreErrorOther
	if errors.Is(err, domainErrors.ErrNotFound) {
		kind = domainErrors.StoreErrorNotFound
	}
	return domainErrors.NewStoreError(op, kind, err)
}
