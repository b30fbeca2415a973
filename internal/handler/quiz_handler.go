package handler

import (
	"context"
	"net/http"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/cursoteca/lms-backend/internal/response"
	"github.com/cursoteca/lms-backend/internal/service"
	"github.com/cursoteca/lms-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// QuizCacheRefresher drops and reloads the cached copy of a quiz.
type QuizCacheRefresher interface {
	Refresh(ctx context.Context, quizID uuid.UUID) (*model.QuizWithQuestions, error)
}

// QuizHandler handles quiz taking for students and quiz cache maintenance
// for admins.
type QuizHandler struct {
	quizzes *service.QuizService
	cache   QuizCacheRefresher
	log     zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizzes *service.QuizService, cache QuizCacheRefresher, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizzes: quizzes,
		cache:   cache,
		log:     log.With().Str("component", "quiz_handler").Logger(),
	}
}

// GetPaper godoc
// GET /api/v1/student/quizzes/:quiz_id
// Returns the quiz without its answer key. Requires the module to be unlocked,
// its assignments approved and no active cooldown.
func (h *QuizHandler) GetPaper(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	paper, err := h.quizzes.Paper(c.Request.Context(), userID, quizID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, paper)
}

// GetStatus godoc
// GET /api/v1/student/quizzes/:quiz_id/status
// Reports the gate and cooldown of a quiz without opening it.
func (h *QuizHandler) GetStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	status, err := h.quizzes.Status(c.Request.Context(), userID, quizID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":         status,
		"cooldown_label": status.Cooldown.Label(),
	})
}

// SubmitAttempt godoc
// POST /api/v1/student/quizzes/:quiz_id/attempts
// Scores the answers and records an attempt. A failed attempt starts a
// cooldown before the next retry.
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	outcome, err := h.quizzes.Submit(c.Request.Context(), userID, quizID, &req)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, outcome)
}

// RefreshCache godoc
// POST /api/v1/admin/quizzes/:quiz_id/cache/refresh
// Rebuilds the cached quiz after its questions were edited in the database.
func (h *QuizHandler) RefreshCache(c *gin.Context) {
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	quiz, err := h.cache.Refresh(c.Request.Context(), quizID)
	if err != nil {
		if isNoRows(err) {
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
			return
		}
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"quiz_id":        quiz.ID,
		"question_count": len(quiz.Questions),
	})
}
