package model

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the processing lifecycle of an order.
type OrderStatus string

const (
	OrderStatusSubmitted     OrderStatus = "submitted"
	OrderStatusPending       OrderStatus = "pending"
	OrderStatusInPreparation OrderStatus = "in_preparation"
	OrderStatusReady         OrderStatus = "ready"
	OrderStatusDelivered     OrderStatus = "delivered"
	OrderStatusCancelled     OrderStatus = "cancelled"
)

// ParseOrderStatus converts a raw value into a known status.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case OrderStatusSubmitted, OrderStatusPending, OrderStatusInPreparation,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return s, true
	}
	return "", false
}

// Assignable reports whether an administrator may move an order into s.
// Submitted is only ever the initial status.
func (s OrderStatus) Assignable() bool {
	switch s {
	case OrderStatusPending, OrderStatusInPreparation, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Bucket is the display partition an order status belongs to.
type Bucket string

const (
	BucketActive    Bucket = "active"
	BucketFinalized Bucket = "finalized"
	BucketCancelled Bucket = "cancelled"
)

// Buckets lists the partitions in listing order.
var Buckets = []Bucket{BucketActive, BucketFinalized, BucketCancelled}

// ParseBucket converts a raw value into a bucket.
func ParseBucket(raw string) (Bucket, bool) {
	b := Bucket(strings.ToLower(strings.TrimSpace(raw)))
	switch b {
	case BucketActive, BucketFinalized, BucketCancelled:
		return b, true
	}
	return "", false
}

// BucketOf maps a status to its partition.
func BucketOf(s OrderStatus) Bucket {
	switch s {
	case OrderStatusDelivered:
		return BucketFinalized
	case OrderStatusCancelled:
		return BucketCancelled
	default:
		return BucketActive
	}
}

func (b Bucket) rank() int {
	switch b {
	case BucketActive:
		return 0
	case BucketFinalized:
		return 1
	default:
		return 2
	}
}

// Order is the immutable record produced at checkout. Only Status,
// StatusUpdatedAt and Revision change after creation.
type Order struct {
	ID              string
	Number          int64
	CompanyID       string
	CompanyName     string
	Items           []LineItem
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	Total           decimal.Decimal
	Address         string
	Notes           string
	CreatedAt       time.Time
	Status          OrderStatus
	StatusUpdatedAt time.Time
	Revision        int64
}

// Bucket returns the partition of the current status.
func (o Order) Bucket() Bucket {
	return BucketOf(o.Status)
}

// TotalUnits sums the frozen line quantities.
func (o Order) TotalUnits() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// SortOrders orders by bucket (active, finalized, cancelled) and then by
// creation time, newest first.
func SortOrders(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		ri, rj := orders[i].Bucket().rank(), orders[j].Bucket().rank()
		if ri != rj {
			return ri < rj
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// OrderRef identifies an order by store id, by order number, or both when
// the caller cannot tell which one it holds.
type OrderRef struct {
	ID        string
	Number    int64
	HasNumber bool
}

// RefByID references an order by its store key.
func RefByID(id string) OrderRef {
	return OrderRef{ID: strings.TrimSpace(id)}
}

// RefByNumber references an order by its human facing number.
func RefByNumber(n int64) OrderRef {
	return OrderRef{Number: n, HasNumber: true}
}

// ParseOrderRef accepts either form. A numeric value is tried as an id
// first and then as an order number.
func ParseOrderRef(raw string) OrderRef {
	trimmed := strings.TrimSpace(raw)
	ref := OrderRef{ID: trimmed}
	if n, err := strconv.ParseInt(strings.TrimPrefix(trimmed, "#"), 10, 64); err == nil {
		ref.Number = n
		ref.HasNumber = true
	}
	return ref
}

// IsZero reports whether the reference carries no key.
func (r OrderRef) IsZero() bool {
	return r.ID == "" && !r.HasNumber
}

// String renders the reference for logs and messages.
func (r OrderRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	if r.HasNumber {
		return "#" + strconv.FormatInt(r.Number, 10)
	}
	return ""
}

// ChangeType tags an entry of the order change feed.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeRemoved  ChangeType = "removed"
)

// ChangeEvent is a single change reported by the order store.
type ChangeEvent struct {
	Type  ChangeType
	Order Order
}

// OrderStats are aggregates recomputed whenever the order cache changes.
type OrderStats struct {
	TotalOrders int
	TotalSales  decimal.Decimal
	TodayOrders int
}

// ComputeOrderStats aggregates orders. Cancelled orders do not count as
// sales. Today is evaluated in loc.
func ComputeOrderStats(orders []Order, now time.Time, loc *time.Location) OrderStats {
	if loc == nil {
		loc = time.UTC
	}
	stats := OrderStats{TotalOrders: len(orders), TotalSales: decimal.Zero}
	y, m, d := now.In(loc).Date()
	for _, o := range orders {
		if o.Status != OrderStatusCancelled {
			stats.TotalSales = stats.TotalSales.Add(o.Total)
		}
		oy, om, od := o.CreatedAt.In(loc).Date()
		if oy == y && om == m && od == d {
			stats.TodayOrders++
		}
	}
	return stats
}

// OrderFilter narrows a listing. Empty fields match everything.
type OrderFilter struct {
	CompanyID string
}

// StatusChange reports the outcome of a status update.
type StatusChange struct {
	Order    Order
	Previous OrderStatus
	Bucket   Bucket
	Changed  bool
}
