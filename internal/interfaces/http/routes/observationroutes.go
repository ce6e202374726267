package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/handlers"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
)

type ObservationRouteConfig struct {
	ObservationHandler   *handlers.ObservationHandler
	TranscriptionHandler *handlers.TranscriptionHandler
	SessionMiddleware    *middleware.SessionMiddleware
}

func SetupObservationRoutes(engine *gin.Engine, config *ObservationRouteConfig) {
	observations := engine.Group("/observations")
	observations.Use(config.SessionMiddleware.RequireAuth())
	{
		observations.GET("", config.ObservationHandler.List)
		observations.POST("", config.ObservationHandler.Create)

		// registered before /:id so the static path wins
		observations.GET("/recent", config.ObservationHandler.Recent)

		observations.GET("/:id", config.ObservationHandler.Get)
		observations.PUT("/:id", config.ObservationHandler.Update)
	}

	types := engine.Group("/observation-types")
	types.Use(config.SessionMiddleware.RequireAuth())
	{
		types.GET("", config.ObservationHandler.ListTypes)
		types.POST("",
			authorization.RequireAdmin(),
			config.ObservationHandler.CreateType)
		types.PUT("/:id",
			authorization.RequireAdmin(),
			config.ObservationHandler.UpdateType)
	}

	transcriptions := engine.Group("/transcriptions")
	transcriptions.Use(config.SessionMiddleware.RequireAuth())
	{
		transcriptions.POST("", config.TranscriptionHandler.Transcribe)
	}
}
