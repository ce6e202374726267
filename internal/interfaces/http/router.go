package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	analyticsapp "github.com/rahul-raghavan/pep-ops-log/internal/application/analytics"
	appauth "github.com/rahul-raghavan/pep-ops-log/internal/application/auth"
	centerapp "github.com/rahul-raghavan/pep-ops-log/internal/application/center"
	observationapp "github.com/rahul-raghavan/pep-ops-log/internal/application/observation"
	subjectapp "github.com/rahul-raghavan/pep-ops-log/internal/application/subject"
	summaryapp "github.com/rahul-raghavan/pep-ops-log/internal/application/summary"
	transcriptionapp "github.com/rahul-raghavan/pep-ops-log/internal/application/transcription"
	userapp "github.com/rahul-raghavan/pep-ops-log/internal/application/user"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/ai"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/auth"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/cache"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/config"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/repository"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/handlers"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/routes"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/services/markdown"

	_ "github.com/rahul-raghavan/pep-ops-log/docs"
)

// Router wires repositories, services and handlers into a gin engine.
type Router struct {
	engine *gin.Engine
	redis  *redis.Client
	cfg    *config.Config
	logger logger.Interface

	sessionMiddleware *middleware.SessionMiddleware

	healthHandler        *handlers.HealthHandler
	authHandler          *handlers.AuthHandler
	centerHandler        *handlers.CenterHandler
	userHandler          *handlers.UserHandler
	subjectHandler       *handlers.SubjectHandler
	observationHandler   *handlers.ObservationHandler
	summaryHandler       *handlers.SummaryHandler
	transcriptionHandler *handlers.TranscriptionHandler
	analyticsHandler     *handlers.AnalyticsHandler
}

// NewRouter creates the HTTP router with all dependencies
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()

	redisClient, err := initRedis(cfg, log)
	if err != nil {
		return nil, err
	}

	centerRepo := repository.NewCenterRepository(db, log)
	userRepo := repository.NewUserRepository(db, log)
	subjectRepo := repository.NewSubjectRepository(db, log)
	observationRepo := repository.NewObservationRepository(db, log)
	typeConfigRepo := repository.NewTypeConfigRepository(db, log)
	summaryRepo := repository.NewSummaryRepository(db, log)

	sessions := auth.NewSessionService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.SessionExpDays)
	googleClient := auth.NewGoogleOAuthClient(auth.GoogleOAuthConfig{
		ClientID:     cfg.OAuth.Google.ClientID,
		ClientSecret: cfg.OAuth.Google.ClientSecret,
		RedirectURL:  cfg.OAuth.Google.RedirectURL,
	})
	stateStore := cache.NewOAuthStateStore(redisClient)

	markdownSvc := markdown.NewMarkdownService()
	transcriber := ai.NewWhisperTranscriber(&cfg.AI.Transcription, log)
	generator := ai.NewClaudeGenerator(&cfg.AI.Generation, log)

	authSvc := appauth.NewService(googleClient, stateStore, sessions, userRepo, cfg.Auth.AllowedDomains, log)
	centerSvc := centerapp.NewService(centerRepo, log)
	userSvc := userapp.NewService(userRepo, centerRepo, subjectRepo, log)
	subjectSvc := subjectapp.NewService(subjectRepo, centerRepo, log)
	observationSvc := observationapp.NewService(observationRepo, typeConfigRepo, subjectRepo, centerRepo, userRepo, markdownSvc, log)
	summarySvc := summaryapp.NewService(summaryRepo, observationRepo, subjectRepo, generator, markdownSvc, log)
	transcriptionSvc := transcriptionapp.NewService(transcriber, generator, log)
	analyticsSvc := analyticsapp.NewService(observationRepo, subjectRepo, centerRepo, userRepo, observationSvc, log)

	sessionMiddleware := middleware.NewSessionMiddleware(sessions, authSvc, cfg.Auth.Cookie, log)

	return &Router{
		engine:               engine,
		redis:                redisClient,
		cfg:                  cfg,
		logger:               log,
		sessionMiddleware:    sessionMiddleware,
		healthHandler:        handlers.NewHealthHandler(),
		authHandler:          handlers.NewAuthHandler(authSvc, userSvc, sessions, cfg.Auth.Cookie, log),
		centerHandler:        handlers.NewCenterHandler(centerSvc, log),
		userHandler:          handlers.NewUserHandler(userSvc, log),
		subjectHandler:       handlers.NewSubjectHandler(subjectSvc, log),
		observationHandler:   handlers.NewObservationHandler(observationSvc, log),
		summaryHandler:       handlers.NewSummaryHandler(summarySvc, log),
		transcriptionHandler: handlers.NewTranscriptionHandler(transcriptionSvc, cfg.AI.Transcription.MaxUploadMB, log),
		analyticsHandler:     handlers.NewAnalyticsHandler(analyticsSvc, log),
	}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.engine.GET("/health", r.healthHandler.Check)

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler:       r.authHandler,
		SessionMiddleware: r.sessionMiddleware,
	})

	routes.SetupCenterRoutes(r.engine, &routes.CenterRouteConfig{
		CenterHandler:     r.centerHandler,
		SessionMiddleware: r.sessionMiddleware,
	})

	routes.SetupUserRoutes(r.engine, &routes.UserRouteConfig{
		UserHandler:       r.userHandler,
		SessionMiddleware: r.sessionMiddleware,
	})

	routes.SetupSubjectRoutes(r.engine, &routes.SubjectRouteConfig{
		SubjectHandler:    r.subjectHandler,
		SummaryHandler:    r.summaryHandler,
		AnalyticsHandler:  r.analyticsHandler,
		SessionMiddleware: r.sessionMiddleware,
	})

	routes.SetupObservationRoutes(r.engine, &routes.ObservationRouteConfig{
		ObservationHandler:   r.observationHandler,
		TranscriptionHandler: r.transcriptionHandler,
		SessionMiddleware:    r.sessionMiddleware,
	})

	routes.SetupDashboardRoutes(r.engine, &routes.DashboardRouteConfig{
		AnalyticsHandler:  r.analyticsHandler,
		SessionMiddleware: r.sessionMiddleware,
	})
}

// GetEngine returns the underlying gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Close releases the router's external connections.
func (r *Router) Close() error {
	if r.redis != nil {
		return r.redis.Close()
	}
	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Infow("redis connected", "addr", cfg.Redis.GetAddr())
	return redisClient, nil
}
