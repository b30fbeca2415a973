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

// SubmissionHandler handles assignment delivery and grading.
type SubmissionHandler struct {
	submissions *service.SubmissionService
	log         zerolog.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissions *service.SubmissionService, log zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		log:         log.With().Str("component", "submission_handler").Logger(),
	}
}

// Submit godoc
// POST /api/v1/student/assignments/:assignment_id/submissions
// Delivers (or re-delivers) an assignment. A re-delivery clears any previous grade.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	assignmentID, ok := uuidParam(c, "assignment_id")
	if !ok {
		return
	}

	var req model.CreateSubmissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.submissions.Submit(c.Request.Context(), userID, assignmentID, &req)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"submission": sub})
}

// listSubmissionsQuery is the query string of ListSubmissions.
type listSubmissionsQuery struct {
	Status  string `form:"status" binding:"omitempty,oneof=pending submitted graded"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// ListSubmissions godoc
// GET /api/v1/admin/submissions?status=submitted&page=1&per_page=20
// Lists submissions for review, oldest delivery first.
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	var q listSubmissionsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = 20
	}

	var status *model.SubmissionStatus
	if q.Status != "" {
		s := model.SubmissionStatus(q.Status)
		status = &s
	}

	subs, err := h.submissions.ListForReview(c.Request.Context(), status)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	total := len(subs)
	start := (q.Page - 1) * q.PerPage
	if start > total {
		start = total
	}
	end := start + q.PerPage
	if end > total {
		end = total
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"submissions": subs[start:end]}, &response.Pagination{
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalItems: total,
		TotalPages: (total + q.PerPage - 1) / q.PerPage,
	})
}

// Grade godoc
// PUT /api/v1/admin/submissions/:submission_id/grade
// Scores a submission and approves or rejects it. Approval is what unlocks
// the module quiz for the student.
func (h *SubmissionHandler) Grade(c *gin.Context) {
	graderID, ok := currentUser(c)
	if !ok {
		return
	}
	submissionID, ok := uuidParam(c, "submission_id")
	if !ok {
		return
	}

	var req model.GradeSubmissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.submissions.Grade(c.Request.Context(), graderID, submissionID, &req)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submission": sub})
}
