package repository

import (
	"context"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignmentRepository handles assignment data access. Assignments belong to
// lessons; the owning module is resolved through the lesson.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

const assignmentColumns = `a.id, a.lesson_id, l.module_id, a.title, a.max_score, a.due_date, a.created_at`

// ListAssignments retrieves every assignment with its module id.
func (r *AssignmentRepository) ListAssignments(ctx context.Context) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assignmentColumns+`
		 FROM assignments a
		 JOIN lessons l ON l.id = a.lesson_id
		 ORDER BY l.module_id, l.order_index, a.created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.LessonID, &a.ModuleID, &a.Title, &a.MaxScore, &a.DueDate, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// GetAssignment retrieves one assignment by id.
func (r *AssignmentRepository) GetAssignment(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+`
		 FROM assignments a
		 JOIN lessons l ON l.id = a.lesson_id
		 WHERE a.id = $1`, id,
	).Scan(&a.ID, &a.LessonID, &a.ModuleID, &a.Title, &a.MaxScore, &a.DueDate, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new assignment under a lesson.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO assignments (lesson_id, title, max_score, due_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		a.LessonID, a.Title, a.MaxScore, a.DueDate,
	).Scan(&a.ID, &a.CreatedAt)
}
