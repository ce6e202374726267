package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/handlers"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
)

type UserRouteConfig struct {
	UserHandler       *handlers.UserHandler
	SessionMiddleware *middleware.SessionMiddleware
}

// SetupUserRoutes wires the account management endpoints. Accounts are
// admin-managed: there is no self-service registration.
func SetupUserRoutes(engine *gin.Engine, config *UserRouteConfig) {
	users := engine.Group("/users")
	users.Use(config.SessionMiddleware.RequireAuth())
	users.Use(authorization.RequireAdmin())
	{
		users.GET("", config.UserHandler.List)
		users.POST("", config.UserHandler.Create)
		users.GET("/:id", config.UserHandler.Get)
		users.PUT("/:id", config.UserHandler.Update)
		users.PUT("/:id/active", config.UserHandler.SetActive)
	}
}
