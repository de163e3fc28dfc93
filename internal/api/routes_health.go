package api

import (
	"github.com/gin-gonic/gin"

	"github.com/altora/accountd/internal/handlers"
)

func registerHealthRoutes(engine *gin.Engine, handler *handlers.HealthHandler) {
	engine.GET("/health", handler.Ready)
	engine.GET("/health/live", handler.Live)
	engine.GET("/health/ready", handler.Ready)
}
