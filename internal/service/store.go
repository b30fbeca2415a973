package service

import (
	"context"
	"time"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
)

// Store interfaces are satisfied by the pgx repositories. Not-found is
// reported as pgx.ErrNoRows.

// ModuleReader lists the course outline.
type ModuleReader interface {
	ListPublishedModules(ctx context.Context) ([]model.Module, error)
}

// AssignmentReader lists assignments with their owning module resolved.
type AssignmentReader interface {
	ListAssignments(ctx context.Context) ([]model.Assignment, error)
	GetAssignment(ctx context.Context, id uuid.UUID) (*model.Assignment, error)
}

// SubmissionStore reads and writes assignment submissions.
type SubmissionStore interface {
	ListSubmissionsByUser(ctx context.Context, userID uuid.UUID) ([]model.Submission, error)
	ListSubmissionsByStatus(ctx context.Context, status *model.SubmissionStatus) ([]model.Submission, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (*model.Submission, error)
	// SaveSubmission inserts or replaces the user's submission for the assignment.
	SaveSubmission(ctx context.Context, s *model.Submission) error
	GradeSubmission(ctx context.Context, s *model.Submission) error
}

// QuizReader loads quizzes. GetQuizWithQuestions returns questions and
// options ordered by order_index.
type QuizReader interface {
	ListQuizzes(ctx context.Context) ([]model.Quiz, error)
	GetQuizWithQuestions(ctx context.Context, id uuid.UUID) (*model.QuizWithQuestions, error)
}

// AttemptStore persists immutable quiz attempts.
type AttemptStore interface {
	// InsertQuizAttempt fills in ID and CreatedAt.
	InsertQuizAttempt(ctx context.Context, a *model.QuizAttempt) error
	ListAttemptsByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizAttempt, error)
}

// AnswerWriter stores the per-question audit rows of an attempt.
type AnswerWriter interface {
	InsertQuizAnswers(ctx context.Context, answers []model.QuizAnswer) error
}

// ProgressStore reads and upserts the module completion cache.
type ProgressStore interface {
	ListProgressByUser(ctx context.Context, userID uuid.UUID) ([]model.ModuleProgress, error)
	// UpsertModuleProgress marks (user, module) unlocked and completed at the given time.
	UpsertModuleProgress(ctx context.Context, userID, moduleID uuid.UUID, completedAt time.Time) error
}

// FinalQuizStore reads the active final quiz and persists its attempts.
type FinalQuizStore interface {
	// GetActiveFinalQuiz returns pgx.ErrNoRows when no final quiz is active.
	GetActiveFinalQuiz(ctx context.Context) (*model.FinalQuizWithQuestions, error)
	// InsertFinalQuizAttempt fills in ID and CreatedAt.
	InsertFinalQuizAttempt(ctx context.Context, a *model.QuizAttempt) error
	ListFinalQuizAttemptsByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizAttempt, error)
}
