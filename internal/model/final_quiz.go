package model

import (
	"time"

	"github.com/google/uuid"
)

// FinalQuiz is the course-wide quiz that opens once every module is completed.
type FinalQuiz struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description,omitempty"`
	PassingScore     int       `json:"passing_score"`
	TimeLimitMinutes *int      `json:"time_limit_minutes,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FinalQuizWithQuestions is a final quiz with its questions and options in
// order_index order. Question and option rows share the module quiz shapes.
type FinalQuizWithQuestions struct {
	FinalQuiz
	Questions []QuizQuestion `json:"questions"`
}

// FinalQuizPaper is the student-facing final quiz payload (no correct answers).
type FinalQuizPaper struct {
	QuizID           uuid.UUID            `json:"quiz_id"`
	Title            string               `json:"title"`
	Description      *string              `json:"description,omitempty"`
	PassingScore     int                  `json:"passing_score"`
	TimeLimitMinutes *int                 `json:"time_limit_minutes,omitempty"`
	Questions        []QuestionForStudent `json:"questions"`
}

// Paper projects the final quiz into its student-facing form.
func (q *FinalQuizWithQuestions) Paper() *FinalQuizPaper {
	return &FinalQuizPaper{
		QuizID:           q.ID,
		Title:            q.Title,
		Description:      q.Description,
		PassingScore:     q.PassingScore,
		TimeLimitMinutes: q.TimeLimitMinutes,
		Questions:        studentQuestions(q.Questions),
	}
}

// Scorable returns the final quiz in the shape the scorer grades. It belongs
// to no module.
func (q *FinalQuizWithQuestions) Scorable() *QuizWithQuestions {
	return &QuizWithQuestions{
		Quiz: Quiz{
			ID:               q.ID,
			Title:            q.Title,
			Description:      q.Description,
			PassingScore:     q.PassingScore,
			TimeLimitMinutes: q.TimeLimitMinutes,
			CreatedAt:        q.CreatedAt,
			UpdatedAt:        q.UpdatedAt,
		},
		Questions: q.Questions,
	}
}
