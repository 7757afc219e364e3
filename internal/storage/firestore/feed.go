package firestore

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// Subscribe listens to the orders collection. The first snapshot reports
// every existing order as added; later snapshots carry only the changes.
func (s *OrderStore) Subscribe(ctx context.Context, handle func(model.ChangeEvent)) error {
	col, err := s.orders(ctx)
	if err != nil {
		return storeError("orders.subscribe", err)
	}

	it := col.Snapshots(ctx)
	defer it.Stop()

	for {
		qs, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || isCanceled(err) {
				return nil
			}
			return storeError("orders.subscribe", err)
		}
		for _, change := range qs.Changes {
			event, ok := s.translate(change)
			if ok {
				handle(event)
			}
		}
	}
}

func (s *OrderStore) translate(change firestore.DocumentChange) (model.ChangeEvent, bool) {
	changeType, ok := changeTypeOf(change.Kind)
	if !ok || change.Doc == nil {
		return model.ChangeEvent{}, false
	}

	id := change.Doc.Ref.ID
	order, err := decodeSnapshot(change.Doc)
	if err != nil {
		if changeType == model.ChangeRemoved {
			return model.ChangeEvent{Type: changeType, Order: model.Order{ID: id}}, true
		}
		s.logger.Warn("skip undecodable order change",
			slog.String("id", id),
			slog.String("type", string(changeType)),
			slog.Any("error", err),
		)
		return model.ChangeEvent{}, false
	}
	return model.ChangeEvent{Type: changeType, Order: order}, true
}

func changeTypeOf(kind firestore.DocumentChangeKind) (model.ChangeType, bool) {
	switch kind {
	case firestore.DocumentAdded:
		return model.ChangeAdded, true
	case firestore.DocumentModified:
		return model.ChangeModified, true
	case firestore.DocumentRemoved:
		return model.ChangeRemoved, true
	default:
		return "", false
	}
}
