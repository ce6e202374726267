package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/handlers"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
)

type CenterRouteConfig struct {
	CenterHandler     *handlers.CenterHandler
	SessionMiddleware *middleware.SessionMiddleware
}

func SetupCenterRoutes(engine *gin.Engine, config *CenterRouteConfig) {
	centers := engine.Group("/centers")
	centers.Use(config.SessionMiddleware.RequireAuth())
	{
		centers.GET("", config.CenterHandler.List)
		centers.POST("",
			authorization.RequireAdmin(),
			config.CenterHandler.Create)

		centers.GET("/:id", config.CenterHandler.Get)
		centers.PUT("/:id",
			authorization.RequireAdmin(),
			config.CenterHandler.Update)
	}
}
