// Package progression decides, for one student, which modules, assignments and
// quizzes are unlocked or completed. Every function here is pure: it reads a
// Snapshot fetched by the caller and never touches the store.
package progression

import (
	"github.com/cursoteca/lms-backend/internal/model"
)

// Snapshot is the data a single evaluation reads. All slices belong to one user
// except Modules, Assignments and Quizzes, which describe the course.
type Snapshot struct {
	Modules     []model.Module
	Assignments []model.Assignment
	Submissions []model.Submission
	Quizzes     []model.Quiz
	Attempts    []model.QuizAttempt
	Progress    []model.ModuleProgress
}
