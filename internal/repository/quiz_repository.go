package repository

import (
	"context"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuizRepository handles quiz, question and option data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// ListQuizzes retrieves every quiz header.
func (r *QuizRepository) ListQuizzes(ctx context.Context) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, module_id, title, description, passing_score, time_limit_minutes, created_at, updated_at
		 FROM quizzes
		 ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.ModuleID, &q.Title, &q.Description, &q.PassingScore, &q.TimeLimitMinutes, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// GetQuizWithQuestions retrieves a quiz with its questions and options, both
// in order_index order. Returns pgx.ErrNoRows when the quiz does not exist.
func (r *QuizRepository) GetQuizWithQuestions(ctx context.Context, id uuid.UUID) (*model.QuizWithQuestions, error) {
	q := &model.QuizWithQuestions{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, module_id, title, description, passing_score, time_limit_minutes, created_at, updated_at
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.ModuleID, &q.Title, &q.Description, &q.PassingScore, &q.TimeLimitMinutes, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT qq.id, qq.question_text, qq.order_index, qq.points,
		        o.id, o.option_text, o.is_correct, o.order_index
		 FROM quiz_questions qq
		 LEFT JOIN quiz_options o ON o.question_id = qq.id
		 WHERE qq.quiz_id = $1
		 ORDER BY qq.order_index, qq.id, o.order_index`, id,
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

// scanQuestions folds question rows LEFT JOINed with their options into
// questions. Rows must be ordered by question, then option order_index.
func scanQuestions(rows pgx.Rows, quizID uuid.UUID) ([]model.QuizQuestion, error) {
	questions := []model.QuizQuestion{}
	for rows.Next() {
		var (
			question   model.QuizQuestion
			optID      *uuid.UUID
			optText    *string
			optCorrect *bool
			optOrder   *int
		)
		if err := rows.Scan(&question.ID, &question.QuestionText, &question.OrderIndex, &question.Points,
			&optID, &optText, &optCorrect, &optOrder); err != nil {
			return nil, err
		}

		n := len(questions)
		if n == 0 || questions[n-1].ID != question.ID {
			question.QuizID = quizID
			question.Options = []model.QuizOption{}
			questions = append(questions, question)
			n++
		}
		if optID != nil {
			questions[n-1].Options = append(questions[n-1].Options, model.QuizOption{
				ID:         *optID,
				QuestionID: question.ID,
				OptionText: *optText,
				IsCorrect:  *optCorrect,
				OrderIndex: *optOrder,
			})
		}
	}
	return questions, rows.Err()
}

// Create inserts a quiz with its questions and options in one transaction.
func (r *QuizRepository) Create(ctx context.Context, q *model.QuizWithQuestions) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO quizzes (module_id, title, description, passing_score, time_limit_minutes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		q.ModuleID, q.Title, q.Description, q.PassingScore, q.TimeLimitMinutes,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range q.Questions {
		qq := &q.Questions[i]
		qq.QuizID = q.ID
		if err := tx.QueryRow(ctx,
			`INSERT INTO quiz_questions (quiz_id, question_text, order_index, points)
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
				`INSERT INTO quiz_options (question_id, option_text, is_correct, order_index)
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
