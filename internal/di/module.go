package di

import (
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/fitinbox/internal/adapter/events"
	"github.com/polkiloo/fitinbox/internal/adapter/postalcode"
	"github.com/polkiloo/fitinbox/internal/app"
	"github.com/polkiloo/fitinbox/internal/config"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
	"github.com/polkiloo/fitinbox/internal/logger"
	"github.com/polkiloo/fitinbox/internal/metrics"
	"github.com/polkiloo/fitinbox/internal/pkg/auth"
	"github.com/polkiloo/fitinbox/internal/server/http/handlers"
	"github.com/polkiloo/fitinbox/internal/server/http/router"
	"github.com/polkiloo/fitinbox/internal/storage/firestore"
	"github.com/polkiloo/fitinbox/internal/storage/kv"
	"github.com/polkiloo/fitinbox/internal/storage/postgres"
	"github.com/polkiloo/fitinbox/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		kv.Module,
		metrics.Module,
		postalcode.Module,
		events.Module,
		fx.Provide(newOrderStore),
		usecase.Module,
		fx.Provide(
			func(f *app.OrderingFacade) handlers.OrderingFacade { return f },
			func(s *postgres.Storage) router.HealthChecker { return s },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

type orderStore struct {
	fx.Out

	Orders  repository.OrderRepository
	Numbers repository.OrderNumberGenerator
	Feed    repository.OrderFeed
}

type orderStoreParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
	Storage   *postgres.Storage
}

// newOrderStore selects the order backend. Companies and products always
// live in PostgreSQL.
func newOrderStore(p orderStoreParams) (orderStore, error) {
	if p.Config.OrderStore == config.OrderStoreFirestore {
		store, err := firestore.Open(p.Lifecycle, p.Config, p.Logger)
		if err != nil {
			return orderStore{}, fmt.Errorf("open firestore order store: %w", err)
		}
		return orderStore{Orders: store, Numbers: store, Feed: store}, nil
	}

	return orderStore{
		Orders:  p.Storage.Orders(),
		Numbers: p.Storage.OrderNumbers(),
		Feed:    p.Storage.Feed(),
	}, nil
}
