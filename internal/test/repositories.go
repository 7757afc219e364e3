package test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// OrderRepositoryStub keeps orders in memory and bumps revisions on every
// write. Fn overrides take precedence over the in-memory behaviour.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[string]model.Order
	NextID int

	InsertFn       func(context.Context, model.Order) (*model.Order, error)
	ListFn         func(context.Context, model.OrderFilter) ([]model.Order, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus, time.Time) (int64, error)
	DeleteFn       func(context.Context, string) error

	ListCalls   int
	UpdateCalls int
	DeleteCalls int
}

// NewOrderRepositoryStub constructs stub repository seeded with orders.
func NewOrderRepositoryStub(orders ...model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{Orders: make(map[string]model.Order)}
	for _, o := range orders {
		s.Orders[o.ID] = o
	}
	return s
}

// Insert stores the order under a generated id.
func (s *OrderRepositoryStub) Insert(ctx context.Context, order model.Order) (*model.Order, error) {
	if s.InsertFn != nil {
		return s.InsertFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Orders == nil {
		s.Orders = make(map[string]model.Order)
	}
	s.NextID++
	order.ID = fmt.Sprintf("order-%d", s.NextID)
	order.Revision = 1
	s.Orders[order.ID] = order
	return &order, nil
}

// Get fetches order by id or returns not found.
func (s *OrderRepositoryStub) Get(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.Orders[id]; ok {
		return &o, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns stored orders newest first.
func (s *OrderRepositoryStub) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	s.mu.Lock()
	s.ListCalls++
	s.mu.Unlock()
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.Orders {
		if filter.CompanyID != "" && o.CompanyID != filter.CompanyID {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateStatus changes status and returns the new revision.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) (int64, error) {
	s.mu.Lock()
	s.UpdateCalls++
	s.mu.Unlock()
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status, at)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return 0, domainErrors.NewStoreError("orders.update_status", domainErrors.StoreErrorNotFound, domainErrors.ErrNotFound)
	}
	o.Status = status
	o.StatusUpdatedAt = at
	o.Revision++
	s.Orders[id] = o
	return o.Revision, nil
}

// Delete removes the order.
func (s *OrderRepositoryStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	s.DeleteCalls++
	s.mu.Unlock()
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Orders[id]; !ok {
		return domainErrors.NewStoreError("orders.delete", domainErrors.StoreErrorNotFound, domainErrors.ErrNotFound)
	}
	delete(s.Orders, id)
	return nil
}

// NumberGeneratorStub returns increasing numbers starting after Last.
type NumberGeneratorStub struct {
	mu    sync.Mutex
	Last  int64
	Err   error
	Calls int
}

// NextOrderNumber returns Last+1 or the configured error.
func (s *NumberGeneratorStub) NextOrderNumber(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return 0, s.Err
	}
	s.Last++
	return s.Last, nil
}

// CompanyRepositoryStub stores companies in-memory for tests.
type CompanyRepositoryStub struct {
	mu     sync.Mutex
	ByID   map[string]*model.Company
	NextID int
	Err    error
}

// NewCompanyRepositoryStub constructs stub repository seeded with companies.
func NewCompanyRepositoryStub(companies ...model.Company) *CompanyRepositoryStub {
	s := &CompanyRepositoryStub{ByID: make(map[string]*model.Company)}
	for i := range companies {
		c := companies[i]
		s.ByID[c.ID] = &c
	}
	return s
}

// Create registers company unless the CNPJ is taken.
func (s *CompanyRepositoryStub) Create(ctx context.Context, company model.Company) (*model.Company, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ByID == nil {
		s.ByID = make(map[string]*model.Company)
	}
	for _, c := range s.ByID {
		if c.CNPJ == company.CNPJ {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	s.NextID++
	company.ID = fmt.Sprintf("company-%d", s.NextID)
	company.CreatedAt = time.Now()
	s.ByID[company.ID] = &company
	return &company, nil
}

// GetByCNPJ fetches company by CNPJ or returns not found.
func (s *CompanyRepositoryStub) GetByCNPJ(ctx context.Context, cnpj string) (*model.Company, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.ByID {
		if c.CNPJ == cnpj {
			return c, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches company by identifier or returns not found.
func (s *CompanyRepositoryStub) GetByID(ctx context.Context, id string) (*model.Company, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.ByID[id]; ok {
		return c, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns companies ordered by name.
func (s *CompanyRepositoryStub) List(ctx context.Context) ([]model.Company, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Company, 0, len(s.ByID))
	for _, c := range s.ByID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes company by identifier.
func (s *CompanyRepositoryStub) Delete(ctx context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ByID[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.ByID, id)
	return nil
}

// ProductCatalogStub serves a fixed product list.
type ProductCatalogStub struct {
	Products []model.Product
	Err      error
}

// ListActive returns active products.
func (s *ProductCatalogStub) ListActive(context.Context) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Product
	for _, p := range s.Products {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetByID returns the product or not found.
func (s *ProductCatalogStub) GetByID(_ context.Context, id string) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// KeyValueStoreStub is a map backed key/value store.
type KeyValueStoreStub struct {
	mu     sync.Mutex
	Data   map[string][]byte
	SetErr error
}

// NewKeyValueStoreStub constructs an empty store.
func NewKeyValueStoreStub() *KeyValueStoreStub {
	return &KeyValueStoreStub{Data: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (s *KeyValueStoreStub) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.Data[key]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value.
func (s *KeyValueStoreStub) Set(key string, value []byte) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Data == nil {
		s.Data = make(map[string][]byte)
	}
	s.Data[key] = append([]byte(nil), value...)
	return nil
}

// Remove deletes key.
func (s *KeyValueStoreStub) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Data, key)
	return nil
}
