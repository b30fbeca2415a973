package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cursoteca/lms-backend/internal/config"
	"github.com/cursoteca/lms-backend/internal/database"
	"github.com/cursoteca/lms-backend/internal/handler"
	"github.com/cursoteca/lms-backend/internal/logger"
	"github.com/cursoteca/lms-backend/internal/repository"
	"github.com/cursoteca/lms-backend/internal/router"
	"github.com/cursoteca/lms-backend/internal/service"
	"github.com/cursoteca/lms-backend/internal/validator"
	"github.com/cursoteca/lms-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Bool("async_quiz_answers", cfg.AsyncQuizAnswers).
		Msg("Starting LMS Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	moduleRepo := repository.NewModuleRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	attemptRepo := repository.NewQuizAttemptRepository(pool)
	progressRepo := repository.NewModuleProgressRepository(pool)
	finalQuizRepo := repository.NewFinalQuizRepository(pool)

	// Answer audit rows go through the Redis queue unless disabled.
	var answerWriter service.AnswerWriter = attemptRepo
	if cfg.AsyncQuizAnswers {
		answerWriter = worker.NewAnswerQueue(rdb)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	quizCatalog := service.NewCachedQuizCatalog(quizRepo, rdb, cfg.QuizCacheTTL, log)
	progressService := service.NewProgressService(moduleRepo, assignmentRepo, submissionRepo, quizRepo, attemptRepo, progressRepo, log)
	recorder := service.NewAttemptRecorder(attemptRepo, answerWriter, progressRepo, log)
	quizService := service.NewQuizService(progressService, quizCatalog, recorder, log)
	submissionService := service.NewSubmissionService(assignmentRepo, submissionRepo, progressService, log)
	finalQuizService := service.NewFinalQuizService(progressService, finalQuizRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Progress:   handler.NewProgressHandler(progressService, log),
		Quiz:       handler.NewQuizHandler(quizService, quizCatalog, log),
		Submission: handler.NewSubmissionHandler(submissionService, log),
		FinalQuiz:  handler.NewFinalQuizHandler(finalQuizService, log),
		System:     handler.NewSystemHandler(database.NewChecker(pool, rdb), rdb, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	answerWorker := worker.NewQuizAnswerWorker(attemptRepo, rdb, log)
	go func() {
		defer close(workerDone)
		answerWorker.Start(workerCtx)
	}()

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	if n, err := quizCatalog.Prewarm(ctx, quizRepo); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	} else {
		log.Info().Int("quizzes", n).Msg("Quiz cache prewarmed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the answer worker and let it flush its batch.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(5 * time.Second):
		log.Warn().Msg("Answer worker did not finish in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
