package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type cacheStub struct {
	mu      sync.Mutex
	reloads int
	events  []model.ChangeEvent
	err     error
}

func (c *cacheStub) Reload(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reloads++
	return c.err
}

func (c *cacheStub) Reconcile(event model.ChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *cacheStub) snapshot() (int, []model.ChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reloads, append([]model.ChangeEvent(nil), c.events...)
}

type feedStub struct {
	calls     atomic.Int32
	subscribe func(ctx context.Context, call int32, handle func(model.ChangeEvent)) error
}

func (f *feedStub) Subscribe(ctx context.Context, handle func(model.ChangeEvent)) error {
	call := f.calls.Add(1)
	if f.subscribe != nil {
		return f.subscribe(ctx, call, handle)
	}
	<-ctx.Done()
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewFeedSubscriberDefaults(t *testing.T) {
	s := NewFeedSubscriber(&cacheStub{}, &feedStub{}, 0, 0, discardLogger())
	if s.retryInterval != time.Second {
		t.Fatalf("expected retry interval default to 1s, got %s", s.retryInterval)
	}
}

func TestFeedSubscriberReloadsAndForwardsEvents(t *testing.T) {
	cache := &cacheStub{}
	feed := &feedStub{subscribe: func(ctx context.Context, _ int32, handle func(model.ChangeEvent)) error {
		handle(model.ChangeEvent{Type: model.ChangeAdded, Order: model.Order{ID: "a"}})
		handle(model.ChangeEvent{Type: model.ChangeRemoved, Order: model.Order{ID: "a"}})
		<-ctx.Done()
		return ctx.Err()
	}}
	s := NewFeedSubscriber(cache, feed, time.Second, 0, discardLogger())

	s.Start(context.Background())
	if reloads, _ := cache.snapshot(); reloads != 1 {
		t.Fatalf("expected the initial reload to happen before Start returns, got %d", reloads)
	}

	waitFor(t, func() bool {
		_, events := cache.snapshot()
		return len(events) == 2
	})
	s.Stop()

	_, events := cache.snapshot()
	if events[0].Type != model.ChangeAdded || events[1].Type != model.ChangeRemoved {
		t.Fatalf("unexpected events %+v", events)
	}
	if got := feed.calls.Load(); got != 1 {
		t.Fatalf("expected one subscription, got %d", got)
	}
}

func TestFeedSubscriberReconnectsAndReloads(t *testing.T) {
	cache := &cacheStub{}
	feed := &feedStub{subscribe: func(ctx context.Context, call int32, _ func(model.ChangeEvent)) error {
		if call < 3 {
			return errors.New("connection reset")
		}
		<-ctx.Done()
		return nil
	}}
	s := NewFeedSubscriber(cache, feed, 5*time.Millisecond, 0, discardLogger())

	s.Start(context.Background())
	waitFor(t, func() bool { return feed.calls.Load() >= 3 })
	s.Stop()

	reloads, _ := cache.snapshot()
	if reloads != 3 {
		t.Fatalf("expected initial reload plus one per reconnect, got %d", reloads)
	}
}

func TestFeedSubscriberPeriodicReload(t *testing.T) {
	cache := &cacheStub{err: errors.New("store down")}
	s := NewFeedSubscriber(cache, &feedStub{}, time.Second, 5*time.Millisecond, discardLogger())

	s.Start(context.Background())
	waitFor(t, func() bool {
		reloads, _ := cache.snapshot()
		return reloads >= 3
	})
	s.Stop()
}

func TestFeedSubscriberOutlivesStartContext(t *testing.T) {
	cache := &cacheStub{}
	feed := &feedStub{}
	s := NewFeedSubscriber(cache, feed, time.Second, 0, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	waitFor(t, func() bool { return feed.calls.Load() == 1 })
	time.Sleep(20 * time.Millisecond)
	if got := feed.calls.Load(); got != 1 {
		t.Fatalf("cancelling the start context must not restart the feed, got %d subscriptions", got)
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("expected stop to finish")
	}
}

func TestFeedSubscriberStartTwice(t *testing.T) {
	cache := &cacheStub{}
	feed := &feedStub{}
	s := NewFeedSubscriber(cache, feed, time.Second, 0, discardLogger())

	s.Start(context.Background())
	s.Start(context.Background())
	waitFor(t, func() bool { return feed.calls.Load() == 1 })
	s.Stop()
	s.Stop()

	if reloads, _ := cache.snapshot(); reloads != 1 {
		t.Fatalf("second start must be ignored, got %d reloads", reloads)
	}
}
