package metrics

import (
	"go.uber.org/fx"

	"github.com/polkiloo/fitinbox/internal/adapter/postalcode"
	"github.com/polkiloo/fitinbox/internal/usecase"
)

// Module provides the registry and binds it to the metric ports.
var Module = fx.Options(
	fx.Provide(NewRegistry),
	fx.Provide(
		func(r *Registry) usecase.Metrics { return r },
		func(r *Registry) postalcode.Observer { return r },
	),
)
