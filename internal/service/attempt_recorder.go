package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cursoteca/lms-backend/internal/metrics"
	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/cursoteca/lms-backend/internal/scoring"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AttemptOutcome is what the student sees after submitting a quiz.
type AttemptOutcome struct {
	Attempt           *model.QuizAttempt       `json:"attempt"`
	Answers           []scoring.QuestionResult `json:"answers"`
	DisplayPercentage int                      `json:"display_percentage"`
	Cooldown          scoring.Cooldown         `json:"cooldown"`
}

// AttemptRecorder scores a submission and persists it: the attempt row first,
// then the answer audit rows, then the module progress cache on a pass.
// Only the attempt insert can fail the call.
type AttemptRecorder struct {
	attempts AttemptStore
	answers  AnswerWriter
	progress ProgressStore
	now      func() time.Time
	log      zerolog.Logger
}

// NewAttemptRecorder creates a new AttemptRecorder.
func NewAttemptRecorder(attempts AttemptStore, answers AnswerWriter, progress ProgressStore, log zerolog.Logger) *AttemptRecorder {
	return &AttemptRecorder{
		attempts: attempts,
		answers:  answers,
		progress: progress,
		now:      time.Now,
		log:      log.With().Str("component", "attempt_recorder").Logger(),
	}
}

// Record scores answers against quiz and stores the attempt for userID.
func (r *AttemptRecorder) Record(ctx context.Context, userID uuid.UUID, quiz *model.QuizWithQuestions, answers scoring.Answers, startedAt *time.Time) (*AttemptOutcome, error) {
	result := scoring.Score(quiz, answers)
	now := r.now()

	attempt := newAttempt(userID, quiz.ID, result, startedAt, now)
	if err := r.attempts.InsertQuizAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("insert quiz attempt: %w", err)
	}
	metrics.ObserveAttempt(metrics.KindModuleQuiz, result.Passed)

	if rows := result.AnswerRows(attempt.ID); len(rows) > 0 {
		if err := r.answers.InsertQuizAnswers(ctx, rows); err != nil {
			r.log.Error().Err(err).
				Str("attempt_id", attempt.ID.String()).
				Int("answers", len(rows)).
				Msg("Failed to store quiz answers")
		}
	}

	outcome := newOutcome(attempt, result, now)

	if result.Passed {
		if err := r.progress.UpsertModuleProgress(ctx, userID, quiz.ModuleID, now); err != nil {
			r.log.Error().Err(err).
				Str("user_id", userID.String()).
				Str("module_id", quiz.ModuleID.String()).
				Msg("Failed to update module progress")
		}
	}

	r.log.Info().
		Str("user_id", userID.String()).
		Str("quiz_id", quiz.ID.String()).
		Float64("percentage", result.Percentage).
		Bool("passed", result.Passed).
		Msg("Quiz attempt recorded")

	return outcome, nil
}

// newAttempt builds the immutable attempt row for a scored result. A failed
// attempt carries the instant its cooldown ends.
func newAttempt(userID, quizID uuid.UUID, result scoring.Result, startedAt *time.Time, now time.Time) *model.QuizAttempt {
	return &model.QuizAttempt{
		QuizID:        quizID,
		UserID:        userID,
		Score:         result.Score,
		TotalPoints:   result.TotalPoints,
		Percentage:    result.Percentage,
		Passed:        result.Passed,
		StartedAt:     startedAt,
		CompletedAt:   now,
		NextAttemptAt: scoring.NextAttemptAt(now, result.Passed),
	}
}

func newOutcome(attempt *model.QuizAttempt, result scoring.Result, now time.Time) *AttemptOutcome {
	return &AttemptOutcome{
		Attempt:           attempt,
		Answers:           result.Answers,
		DisplayPercentage: scoring.DisplayPercentage(result.Percentage),
		Cooldown:          scoring.CheckCooldown(attempt, now),
	}
}
