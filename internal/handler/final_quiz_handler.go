package handler

import (
	"net/http"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/cursoteca/lms-backend/internal/response"
	"github.com/cursoteca/lms-backend/internal/service"
	"github.com/cursoteca/lms-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// FinalQuizHandler serves the course final quiz.
type FinalQuizHandler struct {
	final *service.FinalQuizService
	log   zerolog.Logger
}

// NewFinalQuizHandler creates a new FinalQuizHandler.
func NewFinalQuizHandler(final *service.FinalQuizService, log zerolog.Logger) *FinalQuizHandler {
	return &FinalQuizHandler{
		final: final,
		log:   log.With().Str("component", "final_quiz_handler").Logger(),
	}
}

// GetStatus godoc
// GET /api/v1/student/final-quiz/status
// The final quiz opens once every published module is completed and no
// cooldown is running.
func (h *FinalQuizHandler) GetStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	status, err := h.final.Status(c.Request.Context(), userID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":         status,
		"cooldown_label": status.Cooldown.Label(),
	})
}

// GetPaper godoc
// GET /api/v1/student/final-quiz
// Returns the active final quiz without its answer key.
func (h *FinalQuizHandler) GetPaper(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	paper, err := h.final.Paper(c.Request.Context(), userID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, paper)
}

// SubmitAttempt godoc
// POST /api/v1/student/final-quiz/attempts
// Scores the answers against the active final quiz. A failed attempt starts
// the same cooldown as a module quiz.
func (h *FinalQuizHandler) SubmitAttempt(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	outcome, err := h.final.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, outcome)
}
