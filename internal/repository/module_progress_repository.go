package repository

import (
	"context"
	"time"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleProgressRepository handles the per-user module completion cache.
type ModuleProgressRepository struct {
	pool *pgxpool.Pool
}

// NewModuleProgressRepository creates a new ModuleProgressRepository.
func NewModuleProgressRepository(pool *pgxpool.Pool) *ModuleProgressRepository {
	return &ModuleProgressRepository{pool: pool}
}

// ListProgressByUser retrieves every progress row of one user.
func (r *ModuleProgressRepository) ListProgressByUser(ctx context.Context, userID uuid.UUID) ([]model.ModuleProgress, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, module_id, is_unlocked, completed_at, created_at
		 FROM module_progress
		 WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []model.ModuleProgress
	for rows.Next() {
		var p model.ModuleProgress
		if err := rows.Scan(&p.ID, &p.UserID, &p.ModuleID, &p.IsUnlocked, &p.CompletedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

// UpsertModuleProgress marks the module unlocked and completed for the user.
func (r *ModuleProgressRepository) UpsertModuleProgress(ctx context.Context, userID, moduleID uuid.UUID, completedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO module_progress (user_id, module_id, is_unlocked, completed_at)
		 VALUES ($1, $2, TRUE, $3)
		 ON CONFLICT (user_id, module_id) DO UPDATE
		 SET is_unlocked = TRUE,
		     completed_at = EXCLUDED.completed_at`,
		userID, moduleID, completedAt,
	)
	return err
}
