package handler

import (
	"net/http"

	"github.com/cursoteca/lms-backend/internal/response"
	"github.com/cursoteca/lms-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProgressHandler serves the student's view of the course: module lock
// states, dashboard, grades and the final quiz gate.
type ProgressHandler struct {
	progress *service.ProgressService
	log      zerolog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progress *service.ProgressService, log zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		progress: progress,
		log:      log.With().Str("component", "progress_handler").Logger(),
	}
}

// ListModules godoc
// GET /api/v1/student/modules
// Returns every published module in order with its unlock and completion state.
func (h *ProgressHandler) ListModules(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	modules, err := h.progress.Modules(c.Request.Context(), userID)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	if modules == nil {
		modules = []service.ModuleOverview{}
	}

	response.Success(c, http.StatusOK, gin.H{"modules": modules})
}

// GetModule godoc
// GET /api/v1/student/modules/:module_id
func (h *ProgressHandler) GetModule(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	moduleID, ok := uuidParam(c, "module_id")
	if !ok {
		return
	}

	module, err := h.progress.Module(c.Request.Context(), userID, moduleID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"module": module})
}

// GetDashboard godoc
// GET /api/v1/student/dashboard
// Returns the course summary together with the per-module overview.
func (h *ProgressHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	dash, err := h.progress.Dashboard(c.Request.Context(), userID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, dash)
}

// GetGrades godoc
// GET /api/v1/student/grades
func (h *ProgressHandler) GetGrades(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	grades, err := h.progress.Grades(c.Request.Context(), userID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grades": grades})
}
