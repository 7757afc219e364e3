package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/fitinbox/internal/domain/model"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
)

// OrderCache is the part of the order lifecycle the worker keeps in sync.
type OrderCache interface {
	Reload(ctx context.Context) error
	Reconcile(event model.ChangeEvent)
}

// FeedSubscriber applies the order store change feed to the cache. It
// reconnects when the feed drops and reloads the whole list periodically
// and after each reconnect, since changes may have been missed meanwhile.
type FeedSubscriber struct {
	cache          OrderCache
	feed           repository.OrderFeed
	retryInterval  time.Duration
	reloadInterval time.Duration
	logger         *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewFeedSubscriber constructs the worker. Non-positive intervals fall back
// to one second for retries and disable periodic reloads.
func NewFeedSubscriber(cache OrderCache, feed repository.OrderFeed, retryInterval, reloadInterval time.Duration, logger *slog.Logger) *FeedSubscriber {
	if retryInterval <= 0 {
		retryInterval = time.Second
	}
	return &FeedSubscriber{
		cache:          cache,
		feed:           feed,
		retryInterval:  retryInterval,
		reloadInterval: reloadInterval,
		logger:         logger,
	}
}

// Start loads the initial list and launches the background loops. The
// loops outlive ctx and stop only on Stop.
func (s *FeedSubscriber) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	s.reload(ctx)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.wg.Add(1)
	go s.listen(runCtx)

	if s.reloadInterval > 0 {
		s.wg.Add(1)
		go s.reloadLoop(runCtx)
	}
}

// Stop cancels the loops and waits for them to finish.
func (s *FeedSubscriber) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *FeedSubscriber) listen(ctx context.Context) {
	defer s.wg.Done()

	for {
		err := s.feed.Subscribe(ctx, s.cache.Reconcile)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.logger.Warn("order feed dropped", slog.String("error", err.Error()), slog.Duration("retry_in", s.retryInterval))
		} else {
			s.logger.Warn("order feed closed", slog.Duration("retry_in", s.retryInterval))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.retryInterval):
		}
		s.reload(ctx)
	}
}

func (s *FeedSubscriber) reloadLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.reloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reload(ctx)
		}
	}
}

func (s *FeedSubscriber) reload(ctx context.Context) {
	if err := s.cache.Reload(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("reload orders failed", slog.String("error", err.Error()))
	}
}
