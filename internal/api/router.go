package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/altora/accountd/internal/app"
	"github.com/altora/accountd/internal/handlers"
	"github.com/altora/accountd/internal/middleware"
	"github.com/altora/accountd/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(db *gorm.DB, cfg *app.Config, accounts *services.AccountService) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account service must be provided")
	}

	engine := gin.New()
	engine.Use(middleware.Recovery(), middleware.Logger(), middleware.Metrics())
	engine.NoRoute(middleware.NotFoundHandler)

	registerAccountRoutes(engine, handlers.NewAccountHandler(accounts))
	registerHealthRoutes(engine, handlers.NewHealthHandler(db))

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		engine.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	return engine, nil
}
