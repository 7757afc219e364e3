package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
)

const ordersChannel = "orders_changes"

// notifyConn is the subset of *pgx.Conn used to follow notifications.
type notifyConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

var connectListener = func(ctx context.Context, dsn string) (notifyConn, error) {
	return pgx.Connect(ctx, dsn)
}

// orderFeed turns orders_changes notifications into change events. LISTEN
// needs a dedicated connection, so it does not borrow from the pool.
type orderFeed struct {
	storage *Storage
}

type notification struct {
	Op string `json:"op"`
	ID string `json:"id"`
}

func (f *orderFeed) Subscribe(ctx context.Context, handle func(model.ChangeEvent)) error {
	conn, err := connectListener(ctx, f.storage.dsn)
	if err != nil {
		return fmt.Errorf("connect listener: %w", err)
	}
	defer conn.Close(context.WithoutCancel(ctx))

	if _, err := conn.Exec(ctx, "LISTEN "+ordersChannel); err != nil {
		return fmt.Errorf("listen %s: %w", ordersChannel, err)
	}

	orders := &orderRepository{storage: f.storage}
	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("wait for notification: %w", err)
		}

		var payload notification
		if err := json.Unmarshal([]byte(n.Payload), &payload); err != nil || payload.ID == "" {
			f.storage.logger.Warn("malformed order notification", slog.String("payload", n.Payload))
			continue
		}

		event, ok := f.event(ctx, orders, payload)
		if ok {
			handle(event)
		}
	}
}

func (f *orderFeed) event(ctx context.Context, orders *orderRepository, n notification) (model.ChangeEvent, bool) {
	var change model.ChangeType
	switch n.Op {
	case "INSERT":
		change = model.ChangeAdded
	case "UPDATE":
		change = model.ChangeModified
	case "DELETE":
		return model.ChangeEvent{Type: model.ChangeRemoved, Order: model.Order{ID: n.ID}}, true
	default:
		f.storage.logger.Warn("unknown order notification", slog.String("op", n.Op), slog.String("order_id", n.ID))
		return model.ChangeEvent{}, false
	}

	order, err := orders.Get(ctx, n.ID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			// Deleted before the notification was read.
			return model.ChangeEvent{Type: model.ChangeRemoved, Order: model.Order{ID: n.ID}}, true
		}
		f.storage.logger.Error("fetch changed order",
			slog.String("order_id", n.ID),
			slog.String("error", err.Error()),
		)
		return model.ChangeEvent{}, false
	}
	return model.ChangeEvent{Type: change, Order: *order}, true
}
