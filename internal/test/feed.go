package test

import (
	"context"
	"sync/atomic"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// OrderFeedStub replays Events on every subscription and then blocks until
// ctx is done, or returns Err right away when set.
type OrderFeedStub struct {
	Events []model.ChangeEvent
	Err    error
	calls  atomic.Int32
}

// Subscribe implements the order change feed.
func (f *OrderFeedStub) Subscribe(ctx context.Context, handle func(model.ChangeEvent)) error {
	f.calls.Add(1)
	if f.Err != nil {
		return f.Err
	}
	for _, e := range f.Events {
		handle(e)
	}
	<-ctx.Done()
	return nil
}

// Calls reports how many times Subscribe ran.
func (f *OrderFeedStub) Calls() int {
	return int(f.calls.Load())
}
