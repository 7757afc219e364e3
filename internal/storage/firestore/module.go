package firestore

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/fitinbox/internal/config"
)

// Open builds the Firestore order store from configuration and closes its
// client when the application stops.
func Open(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (*OrderStore, error) {
	provider, err := newProvider(cfg, logger)
	if err != nil {
		return nil, err
	}
	registerLifecycle(lc, provider)
	return NewOrderStore(provider, logger), nil
}

func newProvider(cfg *config.Config, logger *slog.Logger) (*Provider, error) {
	if cfg.FirestoreProjectID == "" {
		return nil, ErrProjectIDMissing
	}
	logger.Info("using firestore order store",
		slog.String("project", cfg.FirestoreProjectID),
		slog.Bool("emulator", cfg.FirestoreEmulatorHost != ""),
	)
	return NewProvider(cfg.FirestoreProjectID, cfg.FirestoreEmulatorHost), nil
}

func registerLifecycle(lc fx.Lifecycle, provider *Provider) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return provider.Close()
		},
	})
}
