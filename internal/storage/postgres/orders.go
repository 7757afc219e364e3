package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
)

const selectOrder = `SELECT id, number, company_id, company_name, items, subtotal::text, delivery_fee::text, total::text,
                   address, notes, status, created_at, status_updated_at, revision FROM orders`

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		o                    model.Order
		items                []byte
		subtotal, fee, total string
		status               string
	)
	err := row.Scan(&o.ID, &o.Number, &o.CompanyID, &o.CompanyName, &items, &subtotal, &fee, &total,
		&o.Address, &o.Notes, &status, &o.CreatedAt, &o.StatusUpdatedAt, &o.Revision)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return o, fmt.Errorf("decode items of order %s: %w", o.ID, err)
	}
	for dst, raw := range map[*decimal.Decimal]string{&o.Subtotal: subtotal, &o.DeliveryFee: fee, &o.Total: total} {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return o, fmt.Errorf("decode amount of order %s: %w", o.ID, err)
		}
		*dst = d
	}
	o.Status = model.OrderStatus(status)
	return o, nil
}

func (r *orderRepository) Insert(ctx context.Context, order model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (id, number, company_id, company_name, items, subtotal, delivery_fee, total,
                   address, notes, status, created_at, status_updated_at, revision)
                   VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::numeric, $9, $10, $11, $12, $13, 1)`

	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}

	order.ID = uuid.NewString()
	order.Revision = 1
	_, err = r.storage.pool.Exec(ctx, query,
		order.ID, order.Number, order.CompanyID, order.CompanyName, items,
		order.Subtotal.StringFixed(2), order.DeliveryFee.StringFixed(2), order.Total.StringFixed(2),
		order.Address, order.Notes, string(order.Status), order.CreatedAt, order.StatusUpdatedAt,
	)
	if err != nil {
		return nil, storeError("orders.insert", err)
	}
	return &order, nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	o, err := scanOrder(r.storage.pool.QueryRow(ctx, selectOrder+` WHERE id=$1`, id))
	if err != nil {
		return nil, storeError("orders.get", err)
	}
	return &o, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, selectOrder+` WHERE ($1 = '' OR company_id = $1) ORDER BY created_at DESC`, filter.CompanyID)
	if err != nil {
		return nil, storeError("orders.list", err)
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, storeError("orders.list", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("orders.list", err)
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) (int64, error) {
	const query = `UPDATE orders SET status=$1, status_updated_at=$2, revision=revision+1 WHERE id=$3 RETURNING revision`
	var revision int64
	if err := r.storage.pool.QueryRow(ctx, query, string(status), at, id).Scan(&revision); err != nil {
		return 0, storeError("orders.update_status", err)
	}
	return revision, nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return storeError("orders.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.NewStoreError("orders.delete", domainErrors.StoreErrorNotFound, domainErrors.ErrNotFound)
	}
	return nil
}

func (r *orderRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.storage.pool.QueryRow(ctx, `SELECT nextval('order_numbers')`).Scan(&n); err != nil {
		return 0, storeError("orders.next_number", err)
	}
	return n, nil
}
