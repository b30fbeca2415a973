package repository

import (
	"context"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubmissionRepository handles assignment submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

const submissionColumns = `id, assignment_id, user_id, status, is_approved, link_url, link_type, comment,
		score, feedback, submitted_at, graded_at, graded_by, created_at, updated_at`

func scanSubmission(row pgx.Row, s *model.Submission) error {
	return row.Scan(&s.ID, &s.AssignmentID, &s.UserID, &s.Status, &s.IsApproved, &s.LinkURL, &s.LinkType, &s.Comment,
		&s.Score, &s.Feedback, &s.SubmittedAt, &s.GradedAt, &s.GradedBy, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SubmissionRepository) list(ctx context.Context, query string, args ...any) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := scanSubmission(rows, &s); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// ListSubmissionsByUser retrieves all submissions of one user.
func (r *SubmissionRepository) ListSubmissionsByUser(ctx context.Context, userID uuid.UUID) ([]model.Submission, error) {
	return r.list(ctx,
		`SELECT `+submissionColumns+`
		 FROM submissions
		 WHERE user_id = $1
		 ORDER BY updated_at DESC`, userID,
	)
}

// ListSubmissionsByStatus retrieves submissions for review, oldest first.
// A nil status lists every submission.
func (r *SubmissionRepository) ListSubmissionsByStatus(ctx context.Context, status *model.SubmissionStatus) ([]model.Submission, error) {
	return r.list(ctx,
		`SELECT `+submissionColumns+`
		 FROM submissions
		 WHERE $1::text IS NULL OR status = $1
		 ORDER BY submitted_at NULLS LAST, created_at`, status,
	)
}

// GetSubmission retrieves one submission by id.
func (r *SubmissionRepository) GetSubmission(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	s := &model.Submission{}
	err := scanSubmission(r.pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id,
	), s)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SaveSubmission inserts the user's submission or replaces the delivery of an
// existing one, clearing any previous grade.
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, s *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions (assignment_id, user_id, status, link_url, link_type, comment, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (assignment_id, user_id) DO UPDATE
		 SET status = EXCLUDED.status,
		     is_approved = NULL,
		     link_url = EXCLUDED.link_url,
		     link_type = EXCLUDED.link_type,
		     comment = EXCLUDED.comment,
		     score = NULL,
		     feedback = NULL,
		     submitted_at = EXCLUDED.submitted_at,
		     graded_at = NULL,
		     graded_by = NULL,
		     updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		s.AssignmentID, s.UserID, s.Status, s.LinkURL, s.LinkType, s.Comment, s.SubmittedAt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GradeSubmission stores an admin's grade.
func (r *SubmissionRepository) GradeSubmission(ctx context.Context, s *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`UPDATE submissions
		 SET status = $1, score = $2, feedback = $3, is_approved = $4,
		     graded_at = $5, graded_by = $6, updated_at = NOW()
		 WHERE id = $7
		 RETURNING updated_at`,
		s.Status, s.Score, s.Feedback, s.IsApproved, s.GradedAt, s.GradedBy, s.ID,
	).Scan(&s.UpdatedAt)
}
