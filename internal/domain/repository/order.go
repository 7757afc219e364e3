package repository

import (
	"context"
	"time"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// OrderRepository is the persistence boundary for orders. Implementations
// assign ID and Revision on insert and bump Revision on every write.
type OrderRepository interface {
	Insert(ctx context.Context, order model.Order) (*model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}

// OrderFeed streams changes made to the order store by any writer.
// Subscribe blocks, calling handle for every change, until ctx is done or
// the underlying stream fails.
type OrderFeed interface {
	Subscribe(ctx context.Context, handle func(model.ChangeEvent)) error
}

// OrderNumberGenerator hands out unique, increasing order numbers.
type OrderNumberGenerator interface {
	NextOrderNumber(ctx context.Context) (int64, error)
}
