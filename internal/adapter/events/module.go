package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/fitinbox/internal/config"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	"github.com/polkiloo/fitinbox/internal/usecase"
)

// Publisher is an event sink that owns a connection.
type Publisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
	Close() error
}

// Module provides the order event publisher.
var Module = fx.Options(
	fx.Provide(newPublisher),
	fx.Provide(func(p Publisher) usecase.EventPublisher { return p }),
	fx.Invoke(registerLifecycle),
)

func newPublisher(cfg *config.Config, logger *slog.Logger) Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("order events disabled: no kafka brokers configured")
		return NopPublisher{}
	}
	logger.Info("order events enabled", slog.String("topic", cfg.KafkaTopic))
	return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func registerLifecycle(lc fx.Lifecycle, p Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return p.Close()
		},
	})
}
