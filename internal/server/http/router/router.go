package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/fitinbox/internal/metrics"
	"github.com/polkiloo/fitinbox/internal/server/http/handlers"
	"github.com/polkiloo/fitinbox/internal/server/http/middleware"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Params groups router dependencies.
type Params struct {
	fx.In

	Facade  handlers.OrderingFacade
	Logger  *slog.Logger
	Metrics *metrics.Registry `optional:"true"`
	Health  HealthChecker     `optional:"true"`
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	var observer middleware.HTTPObserver
	if p.Metrics != nil {
		observer = p.Metrics
	}

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger, observer))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(p.Facade, p.Logger)
	catalogHandler := handlers.NewCatalogHandler(p.Facade, p.Logger)
	cartHandler := handlers.NewCartHandler(p.Facade, p.Logger)
	orderHandler := handlers.NewOrderHandler(p.Facade, p.Logger)
	adminHandler := handlers.NewAdminHandler(p.Facade, p.Logger)

	if p.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))
	}
	engine.GET("/healthz", healthz(p.Health))

	api := engine.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.GET("/products", catalogHandler.Products)
	api.GET("/address/:postalCode", catalogHandler.PostalCode)

	company := api.Group("")
	company.Use(middleware.AuthRequired(p.Facade))

	cart := company.Group("/cart")
	cart.GET("", cartHandler.Get)
	cart.DELETE("", cartHandler.Clear)
	cart.POST("/items", cartHandler.AddItem)
	cart.PUT("/items/:productId", cartHandler.UpdateItem)
	cart.DELETE("/items/:productId", cartHandler.RemoveItem)
	cart.PUT("/address", cartHandler.SetAddress)
	cart.POST("/address/lookup", cartHandler.LookupAddress)
	cart.PUT("/notes", cartHandler.SetNotes)

	company.POST("/orders", orderHandler.Submit)
	company.GET("/orders", orderHandler.List)

	admin := company.Group("/admin")
	admin.Use(middleware.AdminRequired())
	admin.GET("/orders", adminHandler.Orders)
	admin.GET("/orders/stats", adminHandler.Stats)
	admin.POST("/orders/reload", adminHandler.Reload)
	admin.PATCH("/orders/:ref/status", adminHandler.ChangeStatus)
	admin.DELETE("/orders/:ref", adminHandler.DeleteOrder)
	admin.GET("/companies", adminHandler.Companies)
	admin.POST("/companies", adminHandler.RegisterCompany)
	admin.DELETE("/companies/:id", adminHandler.DeleteCompany)

	return engine
}

func healthz(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker == nil {
			c.Status(http.StatusOK)
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		if err := checker.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusOK)
	}
}
