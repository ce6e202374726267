package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/handlers"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
)

type SubjectRouteConfig struct {
	SubjectHandler    *handlers.SubjectHandler
	SummaryHandler    *handlers.SummaryHandler
	AnalyticsHandler  *handlers.AnalyticsHandler
	SessionMiddleware *middleware.SessionMiddleware
}

func SetupSubjectRoutes(engine *gin.Engine, config *SubjectRouteConfig) {
	subjects := engine.Group("/subjects")
	subjects.Use(config.SessionMiddleware.RequireAuth())
	{
		subjects.GET("", config.SubjectHandler.List)
		subjects.POST("", config.SubjectHandler.Create)

		subjects.GET("/:id", config.SubjectHandler.Get)
		subjects.PUT("/:id",
			authorization.RequireAdmin(),
			config.SubjectHandler.Update)

		subjects.GET("/:id/summary", config.SummaryHandler.Get)
		subjects.GET("/:id/summary/latest", config.SummaryHandler.Latest)
		subjects.GET("/:id/summary/latest/download", config.SummaryHandler.Download)
		subjects.GET("/:id/trends", config.AnalyticsHandler.SubjectTrends)
	}
}
