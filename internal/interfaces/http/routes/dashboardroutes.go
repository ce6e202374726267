package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/handlers"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
)

type DashboardRouteConfig struct {
	AnalyticsHandler  *handlers.AnalyticsHandler
	SessionMiddleware *middleware.SessionMiddleware
}

func SetupDashboardRoutes(engine *gin.Engine, config *DashboardRouteConfig) {
	dashboard := engine.Group("/dashboard")
	dashboard.Use(config.SessionMiddleware.RequireAuth())
	{
		dashboard.GET("/stats", config.AnalyticsHandler.DashboardStats)
		dashboard.GET("/attention", config.AnalyticsHandler.SubjectAttention)
		dashboard.GET("/inactivity", config.AnalyticsHandler.InactivityStatus)
	}

	analytics := engine.Group("/analytics")
	analytics.Use(config.SessionMiddleware.RequireAuth())
	analytics.Use(authorization.RequireAdmin())
	{
		analytics.GET("/centers", config.AnalyticsHandler.CenterAnalytics)
	}

	admin := engine.Group("/admin")
	admin.Use(config.SessionMiddleware.RequireAuth())
	admin.Use(authorization.RequireAdmin())
	{
		admin.GET("/export/observations", config.AnalyticsHandler.ExportObservations)
	}
}
