package firestore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

const (
	ordersCollection   = "orders"
	countersCollection = "counters"
	orderCounterDoc    = "orders"
	firstOrderNumber   = 1000
)

type itemDoc struct {
	ProductID string `firestore:"productId"`
	Name      string `firestore:"name"`
	UnitPrice string `firestore:"unitPrice"`
	Quantity  int    `firestore:"quantity"`
}

// orderDoc is the stored shape of an order. Amounts are kept as decimal
// strings so no float rounding happens on the way in or out.
type orderDoc struct {
	Number          int64     `firestore:"number"`
	CompanyID       string    `firestore:"companyId"`
	CompanyName     string    `firestore:"companyName"`
	Items           []itemDoc `firestore:"items"`
	Subtotal        string    `firestore:"subtotal"`
	DeliveryFee     string    `firestore:"deliveryFee"`
	Total           string    `firestore:"total"`
	Address         string    `firestore:"address"`
	Notes           string    `firestore:"notes"`
	Status          string    `firestore:"status"`
	CreatedAt       time.Time `firestore:"createdAt"`
	StatusUpdatedAt time.Time `firestore:"statusUpdatedAt"`
	Revision        int64     `firestore:"revision"`
}

type counterDoc struct {
	Last int64 `firestore:"last"`
}

func toDoc(o model.Order) orderDoc {
	items := make([]itemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemDoc{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
		})
	}
	return orderDoc{
		Number:          o.Number,
		CompanyID:       o.CompanyID,
		CompanyName:     o.CompanyName,
		Items:           items,
		Subtotal:        o.Subtotal.StringFixed(2),
		DeliveryFee:     o.DeliveryFee.StringFixed(2),
		Total:           o.Total.StringFixed(2),
		Address:         o.Address,
		Notes:           o.Notes,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt.UTC(),
		StatusUpdatedAt: o.StatusUpdatedAt.UTC(),
		Revision:        o.Revision,
	}
}

func (d orderDoc) toOrder(id string) (model.Order, error) {
	o := model.Order{
		ID:              id,
		Number:          d.Number,
		CompanyID:       d.CompanyID,
		CompanyName:     d.CompanyName,
		Items:           make([]model.LineItem, 0, len(d.Items)),
		Address:         d.Address,
		Notes:           d.Notes,
		Status:          model.OrderStatus(d.Status),
		CreatedAt:       d.CreatedAt.UTC(),
		StatusUpdatedAt: d.StatusUpdatedAt.UTC(),
		Revision:        d.Revision,
	}
	for _, it := range d.Items {
		price, err := parseAmount(it.UnitPrice)
		if err != nil {
			return o, fmt.Errorf("decode item %s of order %s: %w", it.ProductID, id, err)
		}
		o.Items = append(o.Items, model.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: price,
			Quantity:  it.Quantity,
		})
	}

	var err error
	if o.Subtotal, err = parseAmount(d.Subtotal); err != nil {
		return o, fmt.Errorf("decode subtotal of order %s: %w", id, err)
	}
	if o.DeliveryFee, err = parseAmount(d.DeliveryFee); err != nil {
		return o, fmt.Errorf("decode delivery fee of order %s: %w", id, err)
	}
	if o.Total, err = parseAmount(d.Total); err != nil {
		return o, fmt.Errorf("decode total of order %s: %w", id, err)
	}
	return o, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
