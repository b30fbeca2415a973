// Package scoring turns submitted quiz answers into a reproducible result and
// decides whether a failed attempt still blocks a retry.
package scoring

import (
	"math"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
)

// Answers maps a question id to the option id the student selected.
type Answers map[uuid.UUID]uuid.UUID

// QuestionResult is the per-question outcome kept for review rendering.
type QuestionResult struct {
	QuestionID       uuid.UUID  `json:"question_id"`
	IsCorrect        bool       `json:"is_correct"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id"`
}

// Result is the outcome of scoring one set of answers.
type Result struct {
	Score       int              `json:"score"`
	TotalPoints int              `json:"total_points"`
	Percentage  float64          `json:"percentage"`
	Passed      bool             `json:"passed"`
	Answers     []QuestionResult `json:"answers"`
}

// Score grades answers against the quiz. Unanswered questions and selections
// that do not belong to the question count as incorrect, and only selections
// of a real option of the question are kept. A quiz worth zero points scores 0%.
func Score(quiz *model.QuizWithQuestions, answers Answers) Result {
	res := Result{Answers: make([]QuestionResult, 0, len(quiz.Questions))}

	for _, q := range quiz.Questions {
		res.TotalPoints += q.Points

		qr := QuestionResult{QuestionID: q.ID}
		if selected, ok := answers[q.ID]; ok {
			for _, o := range q.Options {
				if o.ID == selected {
					qr.SelectedOptionID = &selected
					qr.IsCorrect = o.IsCorrect
					break
				}
			}
		}

		if qr.IsCorrect {
			res.Score += q.Points
		}
		res.Answers = append(res.Answers, qr)
	}

	if res.TotalPoints > 0 {
		res.Percentage = 100 * float64(res.Score) / float64(res.TotalPoints)
	}
	res.Passed = res.Percentage >= float64(quiz.PassingScore)

	return res
}

// DisplayPercentage rounds a stored percentage for presentation.
func DisplayPercentage(p float64) int {
	return int(math.Round(p))
}

// AnswerRows converts a result into audit rows for the given attempt.
func (r Result) AnswerRows(attemptID uuid.UUID) []model.QuizAnswer {
	rows := make([]model.QuizAnswer, 0, len(r.Answers))
	for _, a := range r.Answers {
		rows = append(rows, model.QuizAnswer{
			AttemptID:        attemptID,
			QuestionID:       a.QuestionID,
			SelectedOptionID: a.SelectedOptionID,
			IsCorrect:        a.IsCorrect,
		})
	}
	return rows
}
