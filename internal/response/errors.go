package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrAdminAccessOnly  ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrModuleNotFound     ErrCode = "MODULE_NOT_FOUND"
	ErrQuizNotFound       ErrCode = "QUIZ_NOT_FOUND"
	ErrAssignmentNotFound ErrCode = "ASSIGNMENT_NOT_FOUND"
	ErrSubmissionNotFound ErrCode = "SUBMISSION_NOT_FOUND"
	ErrFinalQuizNotFound  ErrCode = "FINAL_QUIZ_NOT_FOUND"

	// ─── Progression ───────────────────────────────────────────────────
	ErrModuleLocked       ErrCode = "MODULE_LOCKED"
	ErrAssignmentsPending ErrCode = "ASSIGNMENTS_PENDING"
	ErrQuizCooldown       ErrCode = "QUIZ_COOLDOWN"
	ErrScoreExceedsMax    ErrCode = "SCORE_EXCEEDS_MAX"
	ErrFinalQuizLocked    ErrCode = "FINAL_QUIZ_LOCKED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal           ErrCode = "INTERNAL_ERROR"
	ErrServiceUnavailable ErrCode = "SERVICE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "Se requiere un token de autenticación."
	case ErrTokenInvalid:
		return "El token de autenticación no es válido."
	case ErrTokenExpired:
		return "El token de autenticación ha expirado."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "No tienes permiso para acceder a este recurso."
	case ErrPermissionDenied:
		return "Permiso denegado."
	case ErrAdminAccessOnly:
		return "Este recurso está restringido a administradores."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "La validación falló. Revisa los datos enviados."
	case ErrInvalidID:
		return "El formato del ID no es válido."
	case ErrInvalidPayload:
		return "El cuerpo de la solicitud no es válido."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso no encontrado."
	case ErrModuleNotFound:
		return "Módulo no encontrado."
	case ErrQuizNotFound:
		return "Quiz no encontrado."
	case ErrAssignmentNotFound:
		return "Tarea no encontrada."
	case ErrSubmissionNotFound:
		return "Entrega no encontrada."
	case ErrFinalQuizNotFound:
		return "El quiz final aún no ha sido configurado por el administrador."

	// ─── Progression ───────────────────────────────────────────────────
	case ErrModuleLocked:
		return "Completa el módulo anterior para desbloquear este contenido."
	case ErrAssignmentsPending:
		return "Todas las tareas del módulo deben estar aprobadas antes de rendir el quiz."
	case ErrQuizCooldown:
		return "Debes esperar antes de volver a intentar el quiz."
	case ErrScoreExceedsMax:
		return "La calificación supera el puntaje máximo de la tarea."
	case ErrFinalQuizLocked:
		return "Debes completar y aprobar todos los módulos del curso antes de acceder al quiz final."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Demasiadas solicitudes. Inténtalo de nuevo más tarde."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocurrió un error interno del servidor."
	case ErrServiceUnavailable:
		return "El servicio no está disponible en este momento."
	default:
		return "Ocurrió un error inesperado."
	}
}
