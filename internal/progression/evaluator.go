package progression

import (
	"sort"
	"time"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
)

// QuizGate explains whether a quiz may be opened, ignoring cooldown.
type QuizGate string

const (
	QuizGateOpen               QuizGate = "open"
	QuizGateModuleLocked       QuizGate = "module_locked"
	QuizGateAssignmentsPending QuizGate = "assignments_pending"
	QuizGateNotFound           QuizGate = "not_found"
)

// ModuleState is the evaluated state of one published module.
type ModuleState struct {
	model.Module
	Position            int        `json:"position"`
	IsUnlocked          bool       `json:"is_unlocked"`
	IsCompleted         bool       `json:"is_completed"`
	AssignmentsApproved bool       `json:"assignments_approved"`
	QuizPassed          bool       `json:"quiz_passed"`
	QuizID              *uuid.UUID `json:"quiz_id,omitempty"`
	AssignmentCount     int        `json:"assignment_count"`
}

// Evaluator answers progression questions over one Snapshot. Build a new one
// for every request; it holds no state beyond the snapshot it was given.
type Evaluator struct {
	snap Snapshot

	order               []model.Module
	assignmentsByModule map[uuid.UUID][]uuid.UUID
	assignmentModule    map[uuid.UUID]uuid.UUID
	submissions         map[uuid.UUID]*model.Submission
	quizModule          map[uuid.UUID]uuid.UUID
	quizzesByModule     map[uuid.UUID][]uuid.UUID
	passedModules       map[uuid.UUID]bool
	progressCompleted   map[uuid.UUID]bool

	completed map[uuid.UUID]bool
	unlocked  map[uuid.UUID]bool
}

// NewEvaluator indexes the snapshot and walks the unlock chain once.
func NewEvaluator(s Snapshot) *Evaluator {
	e := &Evaluator{
		snap:                s,
		assignmentsByModule: make(map[uuid.UUID][]uuid.UUID),
		assignmentModule:    make(map[uuid.UUID]uuid.UUID, len(s.Assignments)),
		submissions:         make(map[uuid.UUID]*model.Submission, len(s.Submissions)),
		quizModule:          make(map[uuid.UUID]uuid.UUID, len(s.Quizzes)),
		quizzesByModule:     make(map[uuid.UUID][]uuid.UUID, len(s.Quizzes)),
		passedModules:       make(map[uuid.UUID]bool),
		progressCompleted:   make(map[uuid.UUID]bool, len(s.Progress)),
		completed:           make(map[uuid.UUID]bool, len(s.Modules)),
		unlocked:            make(map[uuid.UUID]bool, len(s.Modules)),
	}

	for _, m := range s.Modules {
		if m.IsPublished {
			e.order = append(e.order, m)
		}
	}
	sort.SliceStable(e.order, func(i, j int) bool {
		return e.order[i].OrderIndex < e.order[j].OrderIndex
	})

	for _, a := range s.Assignments {
		e.assignmentsByModule[a.ModuleID] = append(e.assignmentsByModule[a.ModuleID], a.ID)
		e.assignmentModule[a.ID] = a.ModuleID
	}

	for i := range s.Submissions {
		sub := &s.Submissions[i]
		if cur, ok := e.submissions[sub.AssignmentID]; !ok || newerSubmission(sub, cur) {
			e.submissions[sub.AssignmentID] = sub
		}
	}

	for _, q := range s.Quizzes {
		e.quizModule[q.ID] = q.ModuleID
		e.quizzesByModule[q.ModuleID] = append(e.quizzesByModule[q.ModuleID], q.ID)
	}

	for _, a := range s.Attempts {
		if !a.Passed {
			continue
		}
		if moduleID, ok := e.quizModule[a.QuizID]; ok {
			e.passedModules[moduleID] = true
		}
	}

	for _, p := range s.Progress {
		if p.CompletedAt != nil {
			e.progressCompleted[p.ModuleID] = true
		}
	}

	for i, m := range e.order {
		e.completed[m.ID] = e.assignmentsApproved(m.ID) && (e.quizPassed(m.ID) || e.progressCompleted[m.ID])
		if i == 0 {
			e.unlocked[m.ID] = true
		} else {
			e.unlocked[m.ID] = e.completed[e.order[i-1].ID]
		}
	}

	return e
}

// newerSubmission prefers the most recently touched row for an assignment.
func newerSubmission(a, b *model.Submission) bool {
	return latestTouch(a).After(latestTouch(b))
}

func latestTouch(s *model.Submission) time.Time {
	t := s.CreatedAt
	if s.UpdatedAt.After(t) {
		t = s.UpdatedAt
	}
	if s.GradedAt != nil && s.GradedAt.After(t) {
		t = *s.GradedAt
	}
	return t
}

func (e *Evaluator) assignmentsApproved(moduleID uuid.UUID) bool {
	for _, id := range e.assignmentsByModule[moduleID] {
		sub, ok := e.submissions[id]
		if !ok || !sub.Approved() {
			return false
		}
	}
	return true
}

func (e *Evaluator) quizPassed(moduleID uuid.UUID) bool {
	if len(e.quizzesByModule[moduleID]) == 0 {
		return true
	}
	return e.passedModules[moduleID]
}

// AssignmentsApproved is true when the module has no assignments or every one
// of them has an approved submission.
func (e *Evaluator) AssignmentsApproved(moduleID uuid.UUID) bool {
	return e.assignmentsApproved(moduleID)
}

// QuizPassed is true when the module has no quiz or the user passed it at least once.
func (e *Evaluator) QuizPassed(moduleID uuid.UUID) bool {
	return e.quizPassed(moduleID)
}

// IsCompleted reports module completion. A completion cached in module
// progress counts the same as a passing attempt.
func (e *Evaluator) IsCompleted(moduleID uuid.UUID) bool {
	if done, ok := e.completed[moduleID]; ok {
		return done
	}
	return e.assignmentsApproved(moduleID) && (e.quizPassed(moduleID) || e.progressCompleted[moduleID])
}

// IsUnlocked reports whether the module is reachable in the unlock chain.
// Unknown and unpublished modules are locked.
func (e *Evaluator) IsUnlocked(moduleID uuid.UUID) bool {
	return e.unlocked[moduleID]
}

// AssignmentAccessible is true when the assignment's module is unlocked.
func (e *Evaluator) AssignmentAccessible(assignmentID uuid.UUID) bool {
	moduleID, ok := e.assignmentModule[assignmentID]
	if !ok {
		return false
	}
	return e.IsUnlocked(moduleID)
}

// QuizGate reports why a quiz is or is not open. Cooldown is checked separately.
func (e *Evaluator) QuizGate(quizID uuid.UUID) QuizGate {
	moduleID, ok := e.quizModule[quizID]
	if !ok {
		return QuizGateNotFound
	}
	if !e.IsUnlocked(moduleID) {
		return QuizGateModuleLocked
	}
	if !e.assignmentsApproved(moduleID) {
		return QuizGateAssignmentsPending
	}
	return QuizGateOpen
}

// QuizAccessible is shorthand for QuizGate(quizID) == QuizGateOpen.
func (e *Evaluator) QuizAccessible(quizID uuid.UUID) bool {
	return e.QuizGate(quizID) == QuizGateOpen
}

// QuizModule returns the module owning quizID.
func (e *Evaluator) QuizModule(quizID uuid.UUID) (uuid.UUID, bool) {
	id, ok := e.quizModule[quizID]
	return id, ok
}

// FinalQuizUnlocked is true once every published module is completed.
// A course with no published modules keeps the final quiz locked.
func (e *Evaluator) FinalQuizUnlocked() bool {
	if len(e.order) == 0 {
		return false
	}
	for _, m := range e.order {
		if !e.completed[m.ID] {
			return false
		}
	}
	return true
}

// Modules returns the state of every published module in chain order.
func (e *Evaluator) Modules() []ModuleState {
	states := make([]ModuleState, 0, len(e.order))
	for i, m := range e.order {
		states = append(states, e.state(i, m))
	}
	return states
}

// Module returns the state of one published module.
func (e *Evaluator) Module(moduleID uuid.UUID) (ModuleState, bool) {
	for i, m := range e.order {
		if m.ID == moduleID {
			return e.state(i, m), true
		}
	}
	return ModuleState{}, false
}

func (e *Evaluator) state(i int, m model.Module) ModuleState {
	st := ModuleState{
		Module:              m,
		Position:            i + 1,
		IsUnlocked:          e.unlocked[m.ID],
		IsCompleted:         e.completed[m.ID],
		AssignmentsApproved: e.assignmentsApproved(m.ID),
		QuizPassed:          e.quizPassed(m.ID),
		AssignmentCount:     len(e.assignmentsByModule[m.ID]),
	}
	if ids := e.quizzesByModule[m.ID]; len(ids) > 0 {
		qid := ids[0]
		st.QuizID = &qid
	}
	return st
}
