package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/cursoteca/lms-backend/internal/middleware"
	"github.com/cursoteca/lms-backend/internal/response"
	"github.com/cursoteca/lms-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// failService maps a service error onto the API envelope.
func failService(c *gin.Context, log zerolog.Logger, err error) {
	var cd *service.CooldownError
	switch {
	case errors.As(err, &cd):
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(cd.Cooldown.Remaining.Seconds()))))
		response.FailWithData(c, http.StatusTooManyRequests, response.ErrQuizCooldown, gin.H{
			"cooldown": cd.Cooldown,
			"label":    cd.Cooldown.Label(),
		})
	case errors.Is(err, service.ErrModuleNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrModuleNotFound)
	case errors.Is(err, service.ErrQuizNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAssignmentNotFound)
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSubmissionNotFound)
	case errors.Is(err, service.ErrFinalQuizNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrFinalQuizNotFound)
	case errors.Is(err, service.ErrModuleLocked):
		response.Fail(c, http.StatusForbidden, response.ErrModuleLocked)
	case errors.Is(err, service.ErrAssignmentsPending):
		response.Fail(c, http.StatusForbidden, response.ErrAssignmentsPending)
	case errors.Is(err, service.ErrFinalQuizLocked):
		response.Fail(c, http.StatusForbidden, response.ErrFinalQuizLocked)
	case errors.Is(err, service.ErrScoreExceedsMax):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrScoreExceedsMax)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// currentUser returns the authenticated user id or writes a 401.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return uuid.Nil, false
	}
	return id, true
}

// uuidParam parses a UUID path parameter or writes a 400.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
