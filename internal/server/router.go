package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"BrandRadar/internal/config"
)

// NewRouter assembles the daemon's HTTP surface: run lifecycle under
// /api/v1, health probe, and Prometheus metrics.
func NewRouter(handler *Handler, gatherer prometheus.Gatherer) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	runs := v1.Group("/runs")
	runs.POST("", handler.CreateRun)
	runs.GET("/:id", handler.GetRun)
	runs.GET("/:id/report", handler.GetReport)
	runs.POST("/:id/cancel", handler.CancelRun)

	return router
}

// NewHTTPServer wraps the router in an http.Server with configured timeouts.
func NewHTTPServer(router *gin.Engine, cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}
}

// Shutdown drains the HTTP server with a bounded grace period.
func Shutdown(srv *http.Server, grace time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	return srv.Shutdown(ctx)
}
