package api

import (
	"github.com/gin-gonic/gin"

	"github.com/altora/accountd/internal/handlers"
)

func registerAccountRoutes(engine *gin.Engine, handler *handlers.AccountHandler) {
	auth := engine.Group("/api/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/verify", handler.Verify)
		auth.POST("/forgot-password", handler.ForgotPassword)
		auth.POST("/reset-password", handler.ResetPassword)
	}

	engine.POST("/api/mail/send", handler.SendMail)
}
