package firestore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

const (
	txAttempts = 5
	txTimeout  = 15 * time.Second
)

// OrderStore keeps orders in the "orders" collection and hands out order
// numbers from a counter document.
type OrderStore struct {
	provider *Provider
	logger   *slog.Logger
}

// NewOrderStore builds a store on top of provider.
func NewOrderStore(provider *Provider, logger *slog.Logger) *OrderStore {
	return &OrderStore{provider: provider, logger: logger}
}

func (s *OrderStore) orders(ctx context.Context) (*firestore.CollectionRef, error) {
	client, err := s.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(ordersCollection), nil
}

func (s *OrderStore) runTransaction(ctx context.Context, fn func(*firestore.Client, *firestore.Transaction) error) error {
	client, err := s.provider.Client(ctx)
	if err != nil {
		return err
	}
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()
	return client.RunTransaction(txCtx, func(_ context.Context, tx *firestore.Transaction) error {
		return fn(client, tx)
	}, firestore.MaxAttempts(txAttempts))
}

func (s *OrderStore) Insert(ctx context.Context, order model.Order) (*model.Order, error) {
	col, err := s.orders(ctx)
	if err != nil {
		return nil, storeError("orders.insert", err)
	}

	order.ID = uuid.NewString()
	order.Revision = 1
	if _, err := col.Doc(order.ID).Create(ctx, toDoc(order)); err != nil {
		return nil, storeError("orders.insert", err)
	}
	return &order, nil
}

func (s *OrderStore) Get(ctx context.Context, id string) (*model.Order, error) {
	col, err := s.orders(ctx)
	if err != nil {
		return nil, storeError("orders.get", err)
	}

	snap, err := col.Doc(id).Get(ctx)
	if err != nil {
		return nil, storeError("orders.get", err)
	}
	o, err := decodeSnapshot(snap)
	if err != nil {
		return nil, storeError("orders.get", err)
	}
	return &o, nil
}

func (s *OrderStore) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	col, err := s.orders(ctx)
	if err != nil {
		return nil, storeError("orders.list", err)
	}

	query := col.OrderBy("createdAt", firestore.Desc)
	if filter.CompanyID != "" {
		query = query.Where("companyId", "==", filter.CompanyID)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var orders []model.Order
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return orders, nil
		}
		if err != nil {
			return nil, storeError("orders.list", err)
		}
		o, err := decodeSnapshot(snap)
		if err != nil {
			return nil, storeError("orders.list", err)
		}
		orders = append(orders, o)
	}
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, st model.OrderStatus, at time.Time) (int64, error) {
	var revision int64
	err := s.runTransaction(ctx, func(client *firestore.Client, tx *firestore.Transaction) error {
		ref := client.Collection(ordersCollection).Doc(id)
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var doc orderDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		revision = doc.Revision + 1
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(st)},
			{Path: "statusUpdatedAt", Value: at.UTC()},
			{Path: "revision", Value: revision},
		})
	})
	if err != nil {
		return 0, storeError("orders.update_status", err)
	}
	return revision, nil
}

func (s *OrderStore) Delete(ctx context.Context, id string) error {
	col, err := s.orders(ctx)
	if err != nil {
		return storeError("orders.delete", err)
	}
	if _, err := col.Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return storeError("orders.delete", err)
	}
	return nil
}

// NextOrderNumber increments the counter document inside a transaction.
// The first number handed out is 1000.
func (s *OrderStore) NextOrderNumber(ctx context.Context) (int64, error) {
	var next int64
	err := s.runTransaction(ctx, func(client *firestore.Client, tx *firestore.Transaction) error {
		ref := client.Collection(countersCollection).Doc(orderCounterDoc)

		var counter counterDoc
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
			counter.Last = firstOrderNumber - 1
		case err != nil:
			return err
		default:
			if err := snap.DataTo(&counter); err != nil {
				return err
			}
		}

		next = counter.Last + 1
		return tx.Set(ref, counterDoc{Last: next})
	})
	if err != nil {
		return 0, storeError("orders.next_number", err)
	}
	return next, nil
}

func decodeSnapshot(snap *firestore.DocumentSnapshot) (model.Order, error) {
	if snap == nil || !snap.Exists() {
		return model.Order{}, status.Error(codes.NotFound, "order document missing")
	}
	var doc orderDoc
	if err := snap.DataTo(&doc); err != nil {
		return model.Order{}, err
	}
	return doc.toOrder(snap.Ref.ID)
}
