package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mcarreira/lingohub/internal/auth"
	"github.com/mcarreira/lingohub/internal/cache"
	"github.com/mcarreira/lingohub/internal/config"
	"github.com/mcarreira/lingohub/internal/domain/exercise"
	"github.com/mcarreira/lingohub/internal/domain/vocab"
	"github.com/mcarreira/lingohub/internal/http/handlers"
	"github.com/mcarreira/lingohub/internal/http/middlewares"
	"github.com/mcarreira/lingohub/internal/observability"
	"github.com/mcarreira/lingohub/internal/ratelimit"
	"github.com/mcarreira/lingohub/internal/repo/postgres"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config, prom *observability.Prom) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("lingohub"))

	if len(cfg.CORSOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	}

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// wire up repositories

	usersRepo := postgres.NewUsersRepo(pool, prom)
	exercisesRepo := postgres.NewExercisesRepo(pool, prom)
	progressRepo := postgres.NewProgressRepo(pool, prom)
	vocabRepo := postgres.NewVocabListsRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL())
	authMW := middlewares.NewAuthMiddleware(jwtManager, usersRepo, prom)

	exerciseCache := cache.New[[]exercise.Exercise](30 * time.Second)
	vocabCache := cache.New[[]vocab.VocabularyList](30 * time.Second)

	// brute-force protection on the credential endpoints; redis when
	// configured, else per-process

	var limiter ratelimit.Limiter

	if cfg.RedisAddr != "" {
		limiter = ratelimit.NewRedisLimiter(ratelimit.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, 10, time.Minute)
	} else {
		limiter = ratelimit.NewMemoryLimiter(10, time.Minute)
	}

	// wire up handlers

	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager, cfg)
	exercisesHandler := handlers.NewExercisesHandler(exercisesRepo, exerciseCache)
	progressHandler := handlers.NewProgressHandler(progressRepo)
	dashboardHandler := handlers.NewDashboardHandler(progressRepo, usersRepo, exercisesRepo)
	vocabHandler := handlers.NewVocabListsHandler(vocabRepo, vocabCache)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middlewares.RateLimit(limiter, middlewares.KeyByIP))
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authMW.RequireAuth(), authHandler.Me)

	protected := api.Group("")
	protected.Use(authMW.RequireAuth())

	protected.GET("/exercises", exercisesHandler.ListExercises)
	protected.GET("/exercises/:id", exercisesHandler.GetExerciseByID)
	protected.POST("/exercises", authMW.RequireRole("teacher"), exercisesHandler.CreateExercise)
	protected.PUT("/exercises/:id", authMW.RequireRole("teacher"), exercisesHandler.UpdateExercise)
	protected.DELETE("/exercises/:id", authMW.RequireRole("teacher"), exercisesHandler.DeleteExercise)

	protected.POST("/progress", authMW.RequireRole("student"), progressHandler.SubmitProgress)
	protected.GET("/progress/student/:id", progressHandler.GetStudentProgress)
	protected.GET("/progress/exercise/:id", authMW.RequireRole("teacher"), progressHandler.GetExerciseProgress)

	protected.GET("/dashboard/student", authMW.RequireRole("student"), dashboardHandler.StudentDashboard)
	protected.GET("/dashboard/teacher", authMW.RequireRole("teacher"), dashboardHandler.TeacherDashboard)

	protected.GET("/vocabulary-lists", vocabHandler.ListVocabularyLists)
	protected.POST("/vocabulary-lists", authMW.RequireRole("teacher"), vocabHandler.CreateVocabularyList)

	return r
}
