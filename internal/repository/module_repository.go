package repository

import (
	"context"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleRepository handles module and lesson data access.
type ModuleRepository struct {
	pool *pgxpool.Pool
}

// NewModuleRepository creates a new ModuleRepository.
func NewModuleRepository(pool *pgxpool.Pool) *ModuleRepository {
	return &ModuleRepository{pool: pool}
}

// ListPublishedModules retrieves published modules ordered by order_index.
func (r *ModuleRepository) ListPublishedModules(ctx context.Context) ([]model.Module, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, order_index, is_published, created_at, updated_at
		 FROM modules
		 WHERE is_published = TRUE
		 ORDER BY order_index, created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []model.Module
	for rows.Next() {
		var m model.Module
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.OrderIndex, &m.IsPublished, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// Create inserts a new module.
func (r *ModuleRepository) Create(ctx context.Context, m *model.Module) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO modules (title, description, order_index, is_published)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		m.Title, m.Description, m.OrderIndex, m.IsPublished,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// CreateLesson inserts a new lesson.
func (r *ModuleRepository) CreateLesson(ctx context.Context, l *model.Lesson) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO lessons (module_id, title, order_index)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		l.ModuleID, l.Title, l.OrderIndex,
	).Scan(&l.ID, &l.CreatedAt)
}
