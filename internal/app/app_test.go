package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fitinbox/internal/config"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	testhelpers "github.com/polkiloo/fitinbox/internal/test"
	"github.com/polkiloo/fitinbox/internal/usecase"
	"github.com/polkiloo/fitinbox/internal/worker"
)

const adminCNPJ = "11222333000181"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type runtimeFixture struct {
	recorder   *testhelpers.LifecycleRecorder
	shutdowner *testhelpers.ShutdownerStub
	companies  *testhelpers.CompanyRepositoryStub
	orders     *testhelpers.OrderRepositoryStub
	feed       *testhelpers.OrderFeedStub
	lifecycle  *usecase.OrderLifecycle
	worker     *worker.FeedSubscriber
}

func newRuntimeFixture(server *http.Server, cfg *config.Config) runtimeFixture {
	f := runtimeFixture{
		recorder:   &testhelpers.LifecycleRecorder{},
		shutdowner: &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)},
		companies:  testhelpers.NewCompanyRepositoryStub(),
		orders:     testhelpers.NewOrderRepositoryStub(model.Order{ID: "o1", Number: 1000, Status: model.OrderStatusSubmitted}),
		feed:       &testhelpers.OrderFeedStub{},
	}
	f.lifecycle = usecase.NewOrderLifecycle(f.orders, nil, nil, time.UTC, discardLogger())
	f.worker = newFeedSubscriber(workerParams{
		Lifecycle: f.lifecycle,
		Feed:      f.feed,
		Config:    cfg,
		Logger:    discardLogger(),
	})

	registerLifecycle(lifecycleParams{
		Lifecycle:  f.recorder,
		Shutdowner: f.shutdowner,
		Logger:     discardLogger(),
		Server:     server,
		Worker:     f.worker,
		Companies:  usecase.NewCompanyUseCase(f.companies, testhelpers.HasherStub{}, discardLogger()),
		Config:     cfg,
	})
	return f
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	cfg := &config.Config{
		ShutdownTimeout:   100 * time.Millisecond,
		FeedRetryInterval: time.Second,
		AdminCNPJ:         adminCNPJ,
		AdminPassword:     "admin-secret",
	}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	f := newRuntimeFixture(server, cfg)

	if len(f.recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(f.recorder.Hooks))
	}

	if err := f.recorder.Start(context.Background()); err != nil {
		t.Fatalf("on start failed: %v", err)
	}

	admin, err := f.companies.GetByCNPJ(context.Background(), adminCNPJ)
	if err != nil || !admin.IsAdmin() {
		t.Fatalf("expected admin account to be bootstrapped, got %+v err=%v", admin, err)
	}
	if !f.lifecycle.Loaded() || len(f.lifecycle.ListAll()) != 1 {
		t.Fatalf("expected orders to be loaded on start")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.recorder.Stop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
	if f.feed.Calls() != 1 {
		t.Fatalf("expected the feed to be subscribed once, got %d", f.feed.Calls())
	}
}

func TestRegisterLifecycleAdminBootstrapFailure(t *testing.T) {
	cfg := &config.Config{ShutdownTimeout: time.Second, AdminCNPJ: "11222333000182", AdminPassword: "x"}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	f := newRuntimeFixture(server, cfg)

	err := f.recorder.Start(context.Background())
	if err == nil {
		t.Fatal("expected start to fail on an invalid admin CNPJ")
	}
	if f.feed.Calls() != 0 || f.lifecycle.Loaded() {
		t.Fatalf("worker must not start when bootstrap fails")
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	server := &http.Server{Addr: "bad addr"}
	f := newRuntimeFixture(server, &config.Config{ShutdownTimeout: time.Second})

	if err := f.recorder.Start(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-f.shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	if err := f.recorder.Stop(context.Background()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("on stop returned error: %v", err)
	}
	if f.shutdowner.Count() != 1 {
		t.Fatalf("expected exactly one shutdown request, got %d", f.shutdowner.Count())
	}
}
