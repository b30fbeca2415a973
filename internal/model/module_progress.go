package model

import (
	"time"

	"github.com/google/uuid"
)

// ModuleProgress caches a user's completion of a module.
// A passing QuizAttempt remains the authoritative signal.
type ModuleProgress struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	ModuleID    uuid.UUID  `json:"module_id"`
	IsUnlocked  bool       `json:"is_unlocked"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
