package kv

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/fitinbox/internal/config"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
)

// Module provides the cart session store.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(func(s *Store) repository.KeyValueStore { return s }),
	fx.Invoke(registerLifecycle),
)

func newStore(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	store, err := Open(cfg.CartDataDir, nil)
	if err != nil {
		return nil, err
	}
	logger.Info("cart store opened", slog.String("dir", cfg.CartDataDir))
	return store, nil
}

func registerLifecycle(lc fx.Lifecycle, store *Store) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
}
