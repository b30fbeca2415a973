package model

import (
	"time"

	"github.com/google/uuid"
)

// Quiz is a scored set of multiple-choice questions tied to one module.
type Quiz struct {
	ID               uuid.UUID `json:"id"`
	ModuleID         uuid.UUID `json:"module_id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description,omitempty"`
	PassingScore     int       `json:"passing_score"`
	TimeLimitMinutes *int      `json:"time_limit_minutes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// QuizQuestion is an ordered, weighted question of a quiz.
type QuizQuestion struct {
	ID           uuid.UUID    `json:"id"`
	QuizID       uuid.UUID    `json:"quiz_id"`
	QuestionText string       `json:"question_text"`
	OrderIndex   int          `json:"order_index"`
	Points       int          `json:"points"`
	Options      []QuizOption `json:"options"`
}

// QuizOption is one selectable answer of a question.
type QuizOption struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	OptionText string    `json:"option_text"`
	IsCorrect  bool      `json:"is_correct"`
	OrderIndex int       `json:"order_index"`
}

// QuizWithQuestions is a quiz with its questions and options in order_index order.
type QuizWithQuestions struct {
	Quiz
	Questions []QuizQuestion `json:"questions"`
}

// QuizPaper is the student-facing quiz payload (no correct answers).
type QuizPaper struct {
	QuizID           uuid.UUID            `json:"quiz_id"`
	ModuleID         uuid.UUID            `json:"module_id"`
	Title            string               `json:"title"`
	Description      *string              `json:"description,omitempty"`
	PassingScore     int                  `json:"passing_score"`
	TimeLimitMinutes *int                 `json:"time_limit_minutes,omitempty"`
	Questions        []QuestionForStudent `json:"questions"`
}

// QuestionForStudent is a question stripped of its answer key.
type QuestionForStudent struct {
	ID           uuid.UUID          `json:"id"`
	QuestionText string             `json:"question_text"`
	OrderIndex   int                `json:"order_index"`
	Points       int                `json:"points"`
	Options      []OptionForStudent `json:"options"`
}

// OptionForStudent is an option without the is_correct flag.
type OptionForStudent struct {
	ID         uuid.UUID `json:"id"`
	OptionText string    `json:"option_text"`
	OrderIndex int       `json:"order_index"`
}

// Paper projects the quiz into its student-facing form.
func (q *QuizWithQuestions) Paper() *QuizPaper {
	return &QuizPaper{
		QuizID:           q.ID,
		ModuleID:         q.ModuleID,
		Title:            q.Title,
		Description:      q.Description,
		PassingScore:     q.PassingScore,
		TimeLimitMinutes: q.TimeLimitMinutes,
		Questions:        studentQuestions(q.Questions),
	}
}

func studentQuestions(questions []QuizQuestion) []QuestionForStudent {
	out := make([]QuestionForStudent, 0, len(questions))
	for _, qq := range questions {
		sq := QuestionForStudent{
			ID:           qq.ID,
			QuestionText: qq.QuestionText,
			OrderIndex:   qq.OrderIndex,
			Points:       qq.Points,
			Options:      make([]OptionForStudent, 0, len(qq.Options)),
		}
		for _, o := range qq.Options {
			sq.Options = append(sq.Options, OptionForStudent{ID: o.ID, OptionText: o.OptionText, OrderIndex: o.OrderIndex})
		}
		out = append(out, sq)
	}
	return out
}
