package progression

import (
	"math"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
)

// Summary is the dashboard overview derived from an evaluation.
type Summary struct {
	CompletedModules   int     `json:"completed_modules"`
	TotalModules       int     `json:"total_modules"`
	OverallProgress    float64 `json:"overall_progress"`
	AverageScore       float64 `json:"average_score"`
	PendingAssignments int     `json:"pending_assignments"`
	FinalQuizUnlocked  bool    `json:"final_quiz_unlocked"`
}

// GradeStats summarises a student's quiz attempts and graded submissions.
type GradeStats struct {
	TotalAttempts          int     `json:"total_attempts"`
	PassedAttempts         int     `json:"passed_attempts"`
	AverageQuizScore       float64 `json:"average_quiz_score"`
	TotalSubmissions       int     `json:"total_submissions"`
	GradedSubmissions      int     `json:"graded_submissions"`
	AverageAssignmentScore float64 `json:"average_assignment_score"`
}

// BestScore is the highest attempt percentage for the module's quiz, or nil
// when the user never attempted it.
func (e *Evaluator) BestScore(moduleID uuid.UUID) *float64 {
	var best *float64
	for _, a := range e.snap.Attempts {
		if m, ok := e.quizModule[a.QuizID]; !ok || m != moduleID {
			continue
		}
		if best == nil || a.Percentage > *best {
			p := a.Percentage
			best = &p
		}
	}
	return best
}

// ProgressPercent is 100 for a completed module, otherwise the rounded share of
// approved assignments. Modules without assignments report 0 until completed.
func (e *Evaluator) ProgressPercent(moduleID uuid.UUID) int {
	if e.IsCompleted(moduleID) {
		return 100
	}
	ids := e.assignmentsByModule[moduleID]
	if len(ids) == 0 {
		return 0
	}
	approved := 0
	for _, id := range ids {
		if sub, ok := e.submissions[id]; ok && sub.Approved() {
			approved++
		}
	}
	return int(math.Round(float64(approved) / float64(len(ids)) * 100))
}

// Summary computes the dashboard overview.
func (e *Evaluator) Summary() Summary {
	s := Summary{
		TotalModules:      len(e.order),
		FinalQuizUnlocked: e.FinalQuizUnlocked(),
	}

	for _, m := range e.order {
		if e.completed[m.ID] {
			s.CompletedModules++
		}
		if !e.unlocked[m.ID] {
			continue
		}
		for _, id := range e.assignmentsByModule[m.ID] {
			if sub, ok := e.submissions[id]; !ok || !sub.Approved() {
				s.PendingAssignments++
			}
		}
	}
	if s.TotalModules > 0 {
		s.OverallProgress = float64(s.CompletedModules) / float64(s.TotalModules) * 100
	}

	var sum float64
	passed := 0
	for _, a := range e.snap.Attempts {
		if a.Passed {
			sum += a.Percentage
			passed++
		}
	}
	if passed > 0 {
		s.AverageScore = sum / float64(passed)
	}

	return s
}

// Grades computes the grade report over every attempt and submission in the snapshot.
func (e *Evaluator) Grades() GradeStats {
	g := GradeStats{
		TotalAttempts:    len(e.snap.Attempts),
		TotalSubmissions: len(e.snap.Submissions),
	}

	var quizSum float64
	for _, a := range e.snap.Attempts {
		quizSum += a.Percentage
		if a.Passed {
			g.PassedAttempts++
		}
	}
	if g.TotalAttempts > 0 {
		g.AverageQuizScore = quizSum / float64(g.TotalAttempts)
	}

	maxScore := make(map[uuid.UUID]int, len(e.snap.Assignments))
	for _, a := range e.snap.Assignments {
		maxScore[a.ID] = a.MaxScore
	}

	var assignmentSum float64
	scored := 0
	for _, sub := range e.snap.Submissions {
		if sub.Status != model.SubmissionStatusGraded {
			continue
		}
		g.GradedSubmissions++
		limit := maxScore[sub.AssignmentID]
		if sub.Score == nil || limit <= 0 {
			continue
		}
		assignmentSum += float64(*sub.Score) / float64(limit) * 100
		scored++
	}
	if scored > 0 {
		g.AverageAssignmentScore = assignmentSum / float64(scored)
	}

	return g
}
