package repository

import (
	"context"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FinalQuizRepository handles the course final quiz and its attempts.
type FinalQuizRepository struct {
	pool *pgxpool.Pool
}

// NewFinalQuizRepository creates a new FinalQuizRepository.
func NewFinalQuizRepository(pool *pgxpool.Pool) *FinalQuizRepository {
	return &FinalQuizRepository{pool: pool}
}

// GetActiveFinalQuiz retrieves the active final quiz with its questions and
// options. Returns pgx.ErrNoRows when none is configured.
func (r *FinalQuizRepository) GetActiveFinalQuiz(ctx context.Context) (*model.FinalQuizWithQuestions, error) {
	q := &model.FinalQuizWithQuestions{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, passing_score, time_limit_minutes, is_active, created_at, updated_at
		 FROM final_quiz
		 WHERE is_active
		 ORDER BY updated_at DESC
		 LIMIT 1`,
	).Scan(&q.ID, &q.Title, &q.Description, &q.PassingScore, &q.TimeLimitMinutes, &q.IsActive, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT fq.id, fq.question_text, fq.order_index, fq.points,
		        o.id, o.option_text, o.is_correct, o.order_index
		 FROM final_quiz_questions fq
		 LEFT JOIN final_quiz_options o ON o.question_id = fq.id
		 WHERE fq.quiz_id = $1
		 ORDER BY fq.order_index, fq.id, o.order_index`, q.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if q.Questions, err = scanQuestions(rows, q.ID); err != nil {
		return nil, err
	}
	return q, nil
}

// Create inserts a final quiz with its questions and options in one
// transaction. An active quiz deactivates every other one.
func (r *FinalQuizRepository) Create(ctx context.Context, q *model.FinalQuizWithQuestions) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if q.IsActive {
		if _, err := tx.Exec(ctx, `UPDATE final_quiz SET is_active = FALSE, updated_at = NOW() WHERE is_active`); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO final_quiz (title, description, passing_score, time_limit_minutes, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		q.Title, q.Description, q.PassingScore, q.TimeLimitMinutes, q.IsActive,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range q.Questions {
		qq := &q.Questions[i]
		qq.QuizID = q.ID
		if err := tx.QueryRow(ctx,
			`INSERT INTO final_quiz_questions (quiz_id, question_text, order_index, points)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			qq.QuizID, qq.QuestionText, qq.OrderIndex, qq.Points,
		).Scan(&qq.ID); err != nil {
			return err
		}

		for j := range qq.Options {
			o := &qq.Options[j]
			o.QuestionID = qq.ID
			if err := tx.QueryRow(ctx,
				`INSERT INTO final_quiz_options (question_id, option_text, is_correct, order_index)
				 VALUES ($1, $2, $3, $4)
				 RETURNING id`,
				o.QuestionID, o.OptionText, o.IsCorrect, o.OrderIndex,
			).Scan(&o.ID); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// InsertFinalQuizAttempt stores a scored final quiz attempt. Attempts are never updated.
func (r *FinalQuizRepository) InsertFinalQuizAttempt(ctx context.Context, a *model.QuizAttempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO final_quiz_attempts
		     (quiz_id, user_id, score, total_points, percentage, passed, started_at, completed_at, next_attempt_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		a.QuizID, a.UserID, a.Score, a.TotalPoints, a.Percentage, a.Passed, a.StartedAt, a.CompletedAt, a.NextAttemptAt,
	).Scan(&a.ID, &a.CreatedAt)
}

// ListFinalQuizAttemptsByUser retrieves every final quiz attempt of one user,
// newest completed_at first.
func (r *FinalQuizRepository) ListFinalQuizAttemptsByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, user_id, score, total_points, percentage, passed,
		        started_at, completed_at, next_attempt_at, created_at
		 FROM final_quiz_attempts
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
