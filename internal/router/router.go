package router

import (
	"context"
	"time"

	"github.com/cursoteca/lms-backend/internal/config"
	"github.com/cursoteca/lms-backend/internal/handler"
	"github.com/cursoteca/lms-backend/internal/metrics"
	"github.com/cursoteca/lms-backend/internal/middleware"
	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/cursoteca/lms-backend/internal/response"
	"github.com/cursoteca/lms-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Progress   *handler.ProgressHandler
	Quiz       *handler.QuizHandler
	Submission *handler.SubmissionHandler
	FinalQuiz  *handler.FinalQuizHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds the lifetime of background helpers such as the rate limiter.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	if cfg.MetricsEnabled {
		metrics.Init()
		router.Use(metrics.MetricsMiddleware())
		router.GET("/metrics", metrics.PrometheusHandler())
	}

	router.GET("/health", handlers.System.Health)

	// Quiz submissions per user per minute.
	attemptLimiter := middleware.NewRateLimiter(ctx, cfg.SubmitRateLimit, time.Minute)

	// ─── 1. Student Group (JWT) ────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireJWT(authService),
		middleware.NoStore(),
	)
	{
		studentAPI.GET("/modules", handlers.Progress.ListModules)
		studentAPI.GET("/modules/:module_id", handlers.Progress.GetModule)
		studentAPI.GET("/dashboard", handlers.Progress.GetDashboard)
		studentAPI.GET("/grades", handlers.Progress.GetGrades)

		studentAPI.GET("/final-quiz", handlers.FinalQuiz.GetPaper)
		studentAPI.GET("/final-quiz/status", handlers.FinalQuiz.GetStatus)
		studentAPI.POST("/final-quiz/attempts", attemptLimiter.Middleware(), handlers.FinalQuiz.SubmitAttempt)

		studentAPI.GET("/quizzes/:quiz_id", handlers.Quiz.GetPaper)
		studentAPI.GET("/quizzes/:quiz_id/status", handlers.Quiz.GetStatus)
		studentAPI.POST("/quizzes/:quiz_id/attempts", attemptLimiter.Middleware(), handlers.Quiz.SubmitAttempt)

		studentAPI.POST("/assignments/:assignment_id/submissions", handlers.Submission.Submit)
	}

	// ─── 2. Admin Group (JWT + Role) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireJWT(authService),
		middleware.RequireRole(model.RoleAdmin),
		middleware.NoStore(),
	)
	{
		adminAPI.GET("/submissions", handlers.Submission.ListSubmissions)
		adminAPI.PUT("/submissions/:submission_id/grade", handlers.Submission.Grade)
		adminAPI.POST("/quizzes/:quiz_id/cache/refresh", handlers.Quiz.RefreshCache)
	}

	return router
}
