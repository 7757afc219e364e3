package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/fitinbox/internal/config"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
	"github.com/polkiloo/fitinbox/internal/usecase"
	"github.com/polkiloo/fitinbox/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newOrderingFacade,
		newHTTPServer,
		newFeedSubscriber,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Auth      *usecase.AuthUseCase
	Companies *usecase.CompanyUseCase
	Catalog   *usecase.CatalogUseCase
	Carts     *usecase.CartUseCase
	Checkout  *usecase.CheckoutUseCase
	Lifecycle *usecase.OrderLifecycle
	Resolver  usecase.AddressResolver
}

func newOrderingFacade(p facadeParams) *OrderingFacade {
	return NewOrderingFacade(FacadeDeps{
		Auth:      p.Auth,
		Companies: p.Companies,
		Catalog:   p.Catalog,
		Carts:     p.Carts,
		Checkout:  p.Checkout,
		Lifecycle: p.Lifecycle,
		Resolver:  p.Resolver,
	})
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Lifecycle *usecase.OrderLifecycle
	Feed      repository.OrderFeed
	Config    *config.Config
	Logger    *slog.Logger
}

func newFeedSubscriber(p workerParams) *worker.FeedSubscriber {
	return worker.NewFeedSubscriber(
		p.Lifecycle,
		p.Feed,
		p.Config.FeedRetryInterval,
		p.Config.ReloadInterval,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.FeedSubscriber
	Companies  *usecase.CompanyUseCase
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Companies.EnsureAdmin(ctx, p.Config.AdminCNPJ, p.Config.AdminPassword); err != nil {
				return fmt.Errorf("bootstrap admin: %w", err)
			}

			p.Logger.Info("starting fitinbox", slog.String("addr", p.Server.Addr), slog.String("order_store", p.Config.OrderStore))
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("fitinbox stopped")
			return nil
		},
	})
}
