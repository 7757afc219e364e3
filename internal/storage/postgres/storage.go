package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
)

const (
	uniqueViolation       = "23505"
	insufficientPrivilege = "42501"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	dsn    string
	logger *slog.Logger
}

type companyRepository struct {
	storage *Storage
}

type productCatalog struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, dsn: dsn, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Companies() repository.CompanyRepository {
	return &companyRepository{storage: s}
}

func (s *Storage) Products() repository.ProductCatalog {
	return &productCatalog{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) OrderNumbers() repository.OrderNumberGenerator {
	return &orderRepository{storage: s}
}

func (s *Storage) Feed() repository.OrderFeed {
	return &orderFeed{storage: s}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
            id TEXT PRIMARY KEY,
            cnpj TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'company',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS products (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(12,2) NOT NULL,
            active BOOLEAN NOT NULL DEFAULT TRUE,
            position INT NOT NULL DEFAULT 0
        )`,
	`CREATE SEQUENCE IF NOT EXISTS order_numbers START WITH 1000`,
	`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            number BIGINT UNIQUE NOT NULL,
            company_id TEXT NOT NULL,
            company_name TEXT NOT NULL DEFAULT '',
            items JSONB NOT NULL,
            subtotal NUMERIC(12,2) NOT NULL,
            delivery_fee NUMERIC(12,2) NOT NULL,
            total NUMERIC(12,2) NOT NULL,
            address TEXT NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL,
            status_updated_at TIMESTAMPTZ NOT NULL,
            revision BIGINT NOT NULL DEFAULT 1
        )`,
	`CREATE INDEX IF NOT EXISTS idx_orders_company ON orders(company_id, created_at DESC)`,
	`CREATE OR REPLACE FUNCTION notify_order_change() RETURNS trigger AS $$
        BEGIN
            IF TG_OP = 'DELETE' THEN
                PERFORM pg_notify('` + ordersChannel + `', json_build_object('op', TG_OP, 'id', OLD.id)::text);
                RETURN OLD;
            END IF;
            PERFORM pg_notify('` + ordersChannel + `', json_build_object('op', TG_OP, 'id', NEW.id)::text);
            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS orders_notify ON orders`,
	`CREATE TRIGGER orders_notify AFTER INSERT OR UPDATE OR DELETE ON orders
            FOR EACH ROW EXECUTE FUNCTION notify_order_change()`,
	seedProducts,
}

func (s *Storage) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// WithinTransaction runs fn in a transaction, committing when fn succeeds
// and rolling back otherwise.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// storeError classifies a failed order store call.
func storeError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.NewStoreError(op, domainErrors.StoreErrorNotFound, domainErrors.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == insufficientPrivilege {
		return domainErrors.NewStoreError(op, domainErrors.StoreErrorUnauthorized, err)
	}
	return domainErrors.NewStoreError(op, domainErrors.StoreErrorOther, err)
}
