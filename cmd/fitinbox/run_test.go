package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

type appStub struct {
	startErr error
	stopErr  error
	done     chan os.Signal
	stopped  bool
}

func (a *appStub) Start(context.Context) error { return a.startErr }

func (a *appStub) Stop(context.Context) error {
	a.stopped = true
	return a.stopErr
}

func (a *appStub) Done() <-chan os.Signal { return a.done }

func TestRunStopsWhenContextCancelled(t *testing.T) {
	app := &appStub{done: make(chan os.Signal)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if code := runWithOutput(ctx, app, &out); code != 0 {
		t.Fatalf("expected exit code 0, got %d (%s)", code, out.String())
	}
	if !app.stopped {
		t.Fatal("expected app to be stopped")
	}
}

func TestRunReportsStartFailure(t *testing.T) {
	app := &appStub{startErr: errors.New("boom"), done: make(chan os.Signal)}

	var out bytes.Buffer
	if code := runWithOutput(context.Background(), app, &out); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "failed to start") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if app.stopped {
		t.Fatal("stop must not run after failed start")
	}
}

func TestRunReportsStopFailure(t *testing.T) {
	done := make(chan os.Signal, 1)
	done <- os.Interrupt
	app := &appStub{stopErr: errors.New("stuck"), done: done}

	var out bytes.Buffer
	if code := runWithOutput(context.Background(), app, &out); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "failed to stop") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
