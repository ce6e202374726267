package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/handlers"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
)

type AuthRouteConfig struct {
	AuthHandler       *handlers.AuthHandler
	SessionMiddleware *middleware.SessionMiddleware
}

func SetupAuthRoutes(engine *gin.Engine, config *AuthRouteConfig) {
	auth := engine.Group("/auth")
	{
		auth.GET("/google/login", config.AuthHandler.GoogleLogin)
		auth.GET("/google/callback", config.AuthHandler.GoogleCallback)

		auth.POST("/logout", config.AuthHandler.Logout)
		auth.GET("/me", config.SessionMiddleware.RequireAuth(), config.AuthHandler.Me)
	}
}
