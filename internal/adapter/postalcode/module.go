package postalcode

import (
	"log/slog"
	"net/http"

	"go.uber.org/fx"

	"github.com/polkiloo/fitinbox/internal/config"
	"github.com/polkiloo/fitinbox/internal/usecase"
)

// Module exposes the address resolver to the fx graph.
var Module = fx.Options(
	fx.Provide(newResolver),
	fx.Provide(func(r *Resolver) usecase.AddressResolver { return r }),
)

type resolverParams struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	Observer Observer `optional:"true"`
}

func newResolver(p resolverParams) (*Resolver, error) {
	client := &http.Client{Timeout: p.Config.AddressLookupTimeout + DefaultTimeout}

	viaCEP, err := NewViaCEP(p.Config.ViaCEPURL, client)
	if err != nil {
		return nil, err
	}
	brasilAPI, err := NewBrasilAPI(p.Config.BrasilAPIURL, client)
	if err != nil {
		return nil, err
	}

	return NewResolver([]Provider{viaCEP, brasilAPI}, p.Config.AddressLookupTimeout, p.Logger, p.Observer), nil
}
