package postalcode

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// DefaultTimeout bounds a single provider request.
const DefaultTimeout = 7 * time.Second

// Lookup outcomes reported to the Observer.
const (
	OutcomeFound       = "found"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
)

// Observer receives one call per provider attempt.
type Observer interface {
	ObserveAddressLookup(provider, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveAddressLookup(string, string, time.Duration) {}

// Resolver turns postal codes into addresses by asking its providers one
// after another. Only the latest request issued for a key may apply its
// result.
type Resolver struct {
	providers []Provider
	timeout   time.Duration
	logger    *slog.Logger
	observer  Observer

	mu       sync.Mutex
	seq      uint64
	inflight map[string]inflight
}

type inflight struct {
	token  uint64
	cancel context.CancelFunc
}

// NewResolver constructs Resolver. A non-positive timeout falls back to
// DefaultTimeout.
func NewResolver(providers []Provider, timeout time.Duration, logger *slog.Logger, observer Observer) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Resolver{
		providers: providers,
		timeout:   timeout,
		logger:    logger,
		observer:  observer,
		inflight:  make(map[string]inflight),
	}
}

// Lookup resolves postalCode with the first provider that knows it.
func (r *Resolver) Lookup(ctx context.Context, postalCode string) (model.Address, error) {
	cep := model.NormalizePostalCode(postalCode)
	if !model.ValidPostalCode(cep) {
		return model.Address{}, domainErrors.ErrInvalidPostalCode
	}

	notFound := false
	for _, p := range r.providers {
		addr, err := r.fetch(ctx, p, cep)
		if ctx.Err() != nil {
			return model.Address{}, ctx.Err()
		}
		switch {
		case err != nil:
			r.logger.Warn("address provider failed",
				slog.String("provider", p.Name()),
				slog.String("postal_code", cep),
				slog.String("error", err.Error()),
			)
		case addr == nil:
			notFound = true
		default:
			if addr.PostalCode == "" {
				addr.PostalCode = cep
			}
			return *addr, nil
		}
	}

	if notFound {
		return model.Address{}, domainErrors.ErrPostalCodeNotFound
	}
	return model.Address{}, domainErrors.ErrResolutionUnavailable
}

func (r *Resolver) fetch(ctx context.Context, p Provider, cep string) (*model.Address, error) {
	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := time.Now()
	addr, err := p.Fetch(reqCtx, cep)

	outcome := OutcomeFound
	switch {
	case err != nil:
		outcome = OutcomeUnavailable
	case addr == nil:
		outcome = OutcomeNotFound
	}
	r.observer.ObserveAddressLookup(p.Name(), outcome, time.Since(started))
	return addr, err
}

// Fill merges the resolved address into the blank fields of current. When
// resolution fails but current already names a street and a city, current
// is returned without error.
func (r *Resolver) Fill(ctx context.Context, current model.Address) (model.Address, error) {
	resolved, err := r.Lookup(ctx, current.PostalCode)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidPostalCode) {
			return current, err
		}
		if ctx.Err() == nil && current.HasStreetAndCity() {
			return current, nil
		}
		return current, err
	}
	return current.Merge(resolved), nil
}

// Resolve fills current and hands the result to apply, unless a newer
// Resolve for the same key started meanwhile. The older request is
// cancelled and returns ErrSuperseded without calling apply.
func (r *Resolver) Resolve(ctx context.Context, key string, current model.Address, apply func(model.Address) error) error {
	ctx, token := r.begin(ctx, key)
	defer r.finish(key, token)

	filled, err := r.Fill(ctx, current)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight[key].token != token {
		return domainErrors.ErrSuperseded
	}
	if err != nil {
		return err
	}
	return apply(filled)
}

func (r *Resolver) begin(ctx context.Context, key string) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.inflight[key]; ok {
		prev.cancel()
	}
	r.seq++
	r.inflight[key] = inflight{token: r.seq, cancel: cancel}
	return ctx, r.seq
}

func (r *Resolver) finish(key string, token uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.inflight[key]; ok && cur.token == token {
		cur.cancel()
		delete(r.inflight, key)
	}
}
