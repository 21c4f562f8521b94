package api

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"water-route-service/internal/api/handlers"
	"water-route-service/internal/ports"
)

type RouterConfig struct {
	ServiceName string
	Logger      *slog.Logger
	CORSOrigins []string
	// Registry is served on /metrics. A fresh registry is created when nil.
	Registry *prometheus.Registry
}

// NewRouter wires HTTP handlers with their dependencies and returns the engine.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(svc ports.RouteService, cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := newHTTPMetrics(registry)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestContext())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(metrics.middleware())
	r.Use(loggingMiddleware(logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	routeHandler := &handlers.RouteHandler{Service: svc}
	orderHandler := &handlers.OrderHandler{Service: svc}

	api := r.Group("/api")
	{
		routes := api.Group("/routes")
		routes.GET("", routeHandler.List)
		routes.POST("/optimize", routeHandler.Optimize)
		routes.POST("/plan", routeHandler.Plan)
		routes.GET("/:id", routeHandler.Get)
		routes.POST("/:id/start", routeHandler.Start)
		routes.POST("/:id/location", routeHandler.ReportLocation)
		routes.POST("/:id/complete", routeHandler.Complete)

		orders := api.Group("/orders")
		orders.GET("", orderHandler.List)
		orders.POST("/:id/in-transit", orderHandler.MarkInTransit)
		orders.POST("/:id/delivered", orderHandler.MarkDelivered)
		orders.POST("/:id/cancel", orderHandler.Cancel)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
