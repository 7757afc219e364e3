package firestore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"go.uber.org/fx/fxtest"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/polkiloo/fitinbox/internal/config"
	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestStoreErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind domainErrors.StoreErrorKind
	}{
		{name: "not found", err: status.Error(codes.NotFound, "missing"), kind: domainErrors.StoreErrorNotFound},
		{name: "permission denied", err: status.Error(codes.PermissionDenied, "denied"), kind: domainErrors.StoreErrorUnauthorized},
		{name: "unauthenticated", err: status.Error(codes.Unauthenticated, "who"), kind: domainErrors.StoreErrorUnauthorized},
		{name: "unavailable", err: status.Error(codes.Unavailable, "down"), kind: domainErrors.StoreErrorOther},
		{name: "plain", err: errors.New("boom"), kind: domainErrors.StoreErrorOther},
		{name: "canceled context", err: context.Canceled, kind: domainErrors.StoreErrorOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storeError("orders.op", tt.err)
			var storeErr *domainErrors.StoreError
			if !errors.As(err, &storeErr) {
				t.Fatalf("expected StoreError, got %T", err)
			}
			if storeErr.Kind != tt.kind {
				t.Fatalf("expected %s, got %s", tt.kind, storeErr.Kind)
			}
			if storeErr.Op != "orders.op" {
				t.Fatalf("unexpected op %q", storeErr.Op)
			}
		})
	}

	if storeError("orders.op", nil) != nil {
		t.Fatalf("nil must stay nil")
	}

	inner := domainErrors.NewStoreError("inner", domainErrors.StoreErrorUnauthorized, errors.New("x"))
	if got := storeError("outer", inner); got != inner {
		t.Fatalf("already classified errors must pass through")
	}

	if !errors.Is(storeError("orders.get", status.Error(codes.NotFound, "missing")), domainErrors.ErrNotFound) {
		t.Fatalf("not found store errors must match ErrNotFound")
	}
}

func TestIsCanceled(t *testing.T) {
	if !isCanceled(context.Canceled) || !isCanceled(status.Error(codes.Canceled, "stop")) {
		t.Fatalf("expected canceled")
	}
	if isCanceled(status.Error(codes.Internal, "boom")) {
		t.Fatalf("internal errors are not cancellations")
	}
}

func TestOrderDocumentConversion(t *testing.T) {
	created := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	order := model.Order{
		ID:          "ignored",
		Number:      1042,
		CompanyID:   "company-7",
		CompanyName: "ACME",
		Items: []model.LineItem{
			{ProductID: "meal-1", Name: "Frango", UnitPrice: decimal.RequireFromString("2.5"), Quantity: 30},
		},
		Subtotal:        decimal.RequireFromString("75"),
		DeliveryFee:     decimal.Zero,
		Total:           decimal.RequireFromString("75"),
		Address:         "Rua A, 1",
		Notes:           "ring twice",
		Status:          model.OrderStatusPending,
		CreatedAt:       created,
		StatusUpdatedAt: created,
		Revision:        3,
	}

	doc := toDoc(order)
	if doc.Subtotal != "75.00" || doc.Items[0].UnitPrice != "2.50" || doc.DeliveryFee != "0.00" {
		t.Fatalf("amounts must be stored as fixed decimals, got %+v", doc)
	}

	back, err := doc.toOrder("order-1")
	if err != nil {
		t.Fatalf("toOrder: %v", err)
	}
	if back.ID != "order-1" || back.Number != 1042 || back.Revision != 3 || back.Status != model.OrderStatusPending {
		t.Fatalf("unexpected order %+v", back)
	}
	if !back.Total.Equal(order.Total) || !back.Items[0].UnitPrice.Equal(order.Items[0].UnitPrice) {
		t.Fatalf("amounts changed: %+v", back)
	}
	if !back.CreatedAt.Equal(created) || back.TotalUnits() != 30 {
		t.Fatalf("unexpected fields %+v", back)
	}

	doc.Total = "not-a-number"
	if _, err := doc.toOrder("order-1"); err == nil {
		t.Fatalf("expected decode error")
	}

	doc = toDoc(order)
	doc.Items[0].UnitPrice = "x"
	if _, err := doc.toOrder("order-1"); err == nil {
		t.Fatalf("expected item decode error")
	}
}

func TestChangeTypeMapping(t *testing.T) {
	tests := []struct {
		kind firestore.DocumentChangeKind
		want model.ChangeType
	}{
		{kind: firestore.DocumentAdded, want: model.ChangeAdded},
		{kind: firestore.DocumentModified, want: model.ChangeModified},
		{kind: firestore.DocumentRemoved, want: model.ChangeRemoved},
	}
	for _, tt := range tests {
		got, ok := changeTypeOf(tt.kind)
		if !ok || got != tt.want {
			t.Fatalf("kind %v: expected %s, got %s", tt.kind, tt.want, got)
		}
	}
	if _, ok := changeTypeOf(firestore.DocumentChangeKind(99)); ok {
		t.Fatalf("unknown kinds must be rejected")
	}
}

func TestProviderRequiresProjectID(t *testing.T) {
	p := NewProvider("  ", "")
	if _, err := p.Client(context.Background()); !errors.Is(err, ErrProjectIDMissing) {
		t.Fatalf("expected ErrProjectIDMissing, got %v", err)
	}
}

func TestProviderClosed(t *testing.T) {
	p := NewProvider("fitinbox-test", "")
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close must be a no-op: %v", err)
	}
	if _, err := p.Client(context.Background()); !errors.Is(err, ErrProviderClosed) {
		t.Fatalf("expected ErrProviderClosed, got %v", err)
	}
}

func TestProviderEmulatorOptions(t *testing.T) {
	if got := len(NewProvider("p", "").clientOptions()); got != 0 {
		t.Fatalf("expected no options without emulator, got %d", got)
	}
	if got := len(NewProvider("p", "localhost:8086").clientOptions()); got != 3 {
		t.Fatalf("expected emulator options, got %d", got)
	}
}

func TestModuleProviders(t *testing.T) {
	if _, err := newProvider(&config.Config{}, discardLogger()); !errors.Is(err, ErrProjectIDMissing) {
		t.Fatalf("expected ErrProjectIDMissing, got %v", err)
	}

	p, err := newProvider(&config.Config{FirestoreProjectID: "fitinbox-test", FirestoreEmulatorHost: "localhost:8086"}, discardLogger())
	if err != nil {
		t.Fatalf("newProvider: %v", err)
	}

	lc := fxtest.NewLifecycle(t)
	registerLifecycle(lc, p)
	lc.RequireStart()
	lc.RequireStop()

	if _, err := p.Client(context.Background()); !errors.Is(err, ErrProviderClosed) {
		t.Fatalf("provider must be closed on stop, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	if _, err := Open(lc, &config.Config{}, discardLogger()); !errors.Is(err, ErrProjectIDMissing) {
		t.Fatalf("expected ErrProjectIDMissing, got %v", err)
	}

	store, err := Open(lc, &config.Config{FirestoreProjectID: "fitinbox-test", FirestoreEmulatorHost: "localhost:8086"}, discardLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	lc.RequireStart()
	lc.RequireStop()

	if _, err := store.provider.Client(context.Background()); !errors.Is(err, ErrProviderClosed) {
		t.Fatalf("store client must be closed on stop, got %v", err)
	}
}
