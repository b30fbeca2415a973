package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizAttempt is one scored attempt by a user against a quiz. Rows are append-only.
type QuizAttempt struct {
	ID            uuid.UUID  `json:"id"`
	QuizID        uuid.UUID  `json:"quiz_id"`
	UserID        uuid.UUID  `json:"user_id"`
	Score         int        `json:"score"`
	TotalPoints   int        `json:"total_points"`
	Percentage    float64    `json:"percentage"`
	Passed        bool       `json:"passed"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   time.Time  `json:"completed_at"`
	NextAttemptAt *time.Time `json:"next_attempt_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// QuizAnswer is the audit row of one answered question within an attempt.
type QuizAnswer struct {
	ID               uuid.UUID  `json:"id"`
	AttemptID        uuid.UUID  `json:"attempt_id"`
	QuestionID       uuid.UUID  `json:"question_id"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id"`
	IsCorrect        bool       `json:"is_correct"`
}

// SubmitQuizRequest maps question ids to the selected option id.
type SubmitQuizRequest struct {
	Answers   map[uuid.UUID]uuid.UUID `json:"answers" binding:"required,min=1"`
	StartedAt *time.Time              `json:"started_at" binding:"omitempty"`
}
