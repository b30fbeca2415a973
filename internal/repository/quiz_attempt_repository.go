package repository

import (
	"context"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuizAttemptRepository handles quiz attempt and answer data access.
type QuizAttemptRepository struct {
	pool *pgxpool.Pool
}

// NewQuizAttemptRepository creates a new QuizAttemptRepository.
func NewQuizAttemptRepository(pool *pgxpool.Pool) *QuizAttemptRepository {
	return &QuizAttemptRepository{pool: pool}
}

// InsertQuizAttempt stores a scored attempt. Attempts are never updated.
func (r *QuizAttemptRepository) InsertQuizAttempt(ctx context.Context, a *model.QuizAttempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quiz_attempts
		     (quiz_id, user_id, score, total_points, percentage, passed, started_at, completed_at, next_attempt_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		a.QuizID, a.UserID, a.Score, a.TotalPoints, a.Percentage, a.Passed, a.StartedAt, a.CompletedAt, a.NextAttemptAt,
	).Scan(&a.ID, &a.CreatedAt)
}

// ListAttemptsByUser retrieves all attempts of one user, newest first.
func (r *QuizAttemptRepository) ListAttemptsByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, user_id, score, total_points, percentage, passed,
		        started_at, completed_at, next_attempt_at, created_at
		 FROM quiz_attempts
		 WHERE user_id = $1
		 ORDER BY completed_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.QuizAttempt
	for rows.Next() {
		var a model.QuizAttempt
		if err := rows.Scan(&a.ID, &a.QuizID, &a.UserID, &a.Score, &a.TotalPoints, &a.Percentage, &a.Passed,
			&a.StartedAt, &a.CompletedAt, &a.NextAttemptAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// InsertQuizAnswers stores the audit rows of an attempt with one batch.
// Rows already present for (attempt, question) are kept.
func (r *QuizAttemptRepository) InsertQuizAnswers(ctx context.Context, answers []model.QuizAnswer) error {
	if len(answers) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, a := range answers {
		batch.Queue(
			`INSERT INTO quiz_answers (attempt_id, question_id, selected_option_id, is_correct)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (attempt_id, question_id) DO NOTHING`,
			a.AttemptID, a.QuestionID, a.SelectedOptionID, a.IsCorrect,
		)
	}

	return r.pool.SendBatch(ctx, batch).Close()
}

// ListAnswersByAttempt retrieves the audit rows of one attempt.
func (r *QuizAttemptRepository) ListAnswersByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.QuizAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, attempt_id, question_id, selected_option_id, is_correct
		 FROM quiz_answers
		 WHERE attempt_id = $1`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.QuizAnswer
	for rows.Next() {
		var a model.QuizAnswer
		if err := rows.Scan(&a.ID, &a.AttemptID, &a.QuestionID, &a.SelectedOptionID, &a.IsCorrect); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
