package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/cursoteca/lms-backend/internal/config"
	"github.com/cursoteca/lms-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const healthTimeout = 2 * time.Second

// HealthChecker reports whether the backing stores answer.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// SystemHandler reports process health and runtime figures.
type SystemHandler struct {
	checker   HealthChecker
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler. rdb may be nil, in which
// case queue depths are omitted.
func NewSystemHandler(checker HealthChecker, rdb *redis.Client, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		checker:   checker,
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthReport struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	NumGC      uint32 `json:"num_gc"`

	QueueQuizAnswers      *int64 `json:"queue_quiz_answers,omitempty"`
	DeadQuizAnswerBatches *int64 `json:"dead_quiz_answer_batches,omitempty"`
}

// Health godoc
// GET /health
// Answers 200 while PostgreSQL and Redis respond, 503 otherwise.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.checker.Check(ctx); err != nil {
		h.log.Warn().Err(err).Msg("Health check failed")
		response.FailWithData(c, http.StatusServiceUnavailable, response.ErrServiceUnavailable, gin.H{"status": "down"})
		return
	}

	response.Success(c, http.StatusOK, h.collect(ctx))
}

func (h *SystemHandler) collect(ctx context.Context) healthReport {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	r := healthReport{
		Status:     "ok",
		Uptime:     formatDuration(time.Since(h.startTime)),
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
		NumGC:      ms.NumGC,
	}

	if h.rdb != nil {
		if n, err := h.rdb.LLen(ctx, config.WorkerKey.PersistQuizAnswersQueue).Result(); err == nil {
			r.QueueQuizAnswers = &n
		}
		if n, err := h.rdb.LLen(ctx, config.WorkerKey.PersistQuizAnswersDead).Result(); err == nil {
			r.DeadQuizAnswerBatches = &n
		}
	}
	return r
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
