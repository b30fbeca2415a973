package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/cursoteca/lms-backend/internal/progression"
	"github.com/cursoteca/lms-backend/internal/scoring"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Progression errors.
var (
	ErrModuleNotFound     = errors.New("module not found")
	ErrModuleLocked       = errors.New("module is locked")
	ErrAssignmentsPending = errors.New("module assignments are not approved yet")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuizCooldown       = errors.New("quiz retry is on cooldown")
)

// CooldownError carries the remaining wait of a blocked retry.
// errors.Is(err, ErrQuizCooldown) holds for it.
type CooldownError struct {
	Cooldown scoring.Cooldown
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ErrQuizCooldown, e.Cooldown.Label())
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrQuizCooldown
}

// ModuleOverview is a module state enriched for the student dashboard.
type ModuleOverview struct {
	progression.ModuleState
	ProgressPercent int      `json:"progress_percent"`
	BestScore       *float64 `json:"best_score,omitempty"`
}

// Dashboard bundles the summary with the per-module overview.
type Dashboard struct {
	Summary progression.Summary `json:"summary"`
	Modules []ModuleOverview    `json:"modules"`
}

// FinalQuizStatus reports whether the course final quiz may be taken.
type FinalQuizStatus struct {
	Unlocked         bool `json:"unlocked"`
	CompletedModules int  `json:"completed_modules"`
	TotalModules     int  `json:"total_modules"`
}

// QuizStatus is the access decision for one quiz, cooldown included.
type QuizStatus struct {
	QuizID     uuid.UUID            `json:"quiz_id"`
	ModuleID   uuid.UUID            `json:"module_id"`
	Gate       progression.QuizGate `json:"gate"`
	Passed     bool                 `json:"passed"`
	Cooldown   scoring.Cooldown     `json:"cooldown"`
	CanAttempt bool                 `json:"can_attempt"`
}

// Err maps the status to the sentinel error blocking an attempt, or nil.
func (s *QuizStatus) Err() error {
	switch s.Gate {
	case progression.QuizGateNotFound:
		return ErrQuizNotFound
	case progression.QuizGateModuleLocked:
		return ErrModuleLocked
	case progression.QuizGateAssignmentsPending:
		return ErrAssignmentsPending
	}
	if s.Cooldown.Active {
		return &CooldownError{Cooldown: s.Cooldown}
	}
	return nil
}

// ProgressService loads a user's snapshot and answers progression queries.
// Nothing is cached between calls so every answer reflects current data.
type ProgressService struct {
	modules     ModuleReader
	assignments AssignmentReader
	submissions SubmissionStore
	quizzes     QuizReader
	attempts    AttemptStore
	progress    ProgressStore
	now         func() time.Time
	log         zerolog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(
	modules ModuleReader,
	assignments AssignmentReader,
	submissions SubmissionStore,
	quizzes QuizReader,
	attempts AttemptStore,
	progress ProgressStore,
	log zerolog.Logger,
) *ProgressService {
	return &ProgressService{
		modules:     modules,
		assignments: assignments,
		submissions: submissions,
		quizzes:     quizzes,
		attempts:    attempts,
		progress:    progress,
		now:         time.Now,
		log:         log.With().Str("component", "progress_service").Logger(),
	}
}

// Snapshot reads everything the evaluator needs for one user.
func (s *ProgressService) Snapshot(ctx context.Context, userID uuid.UUID) (*progression.Snapshot, error) {
	var (
		snap progression.Snapshot
		err  error
	)

	if snap.Modules, err = s.modules.ListPublishedModules(ctx); err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	if snap.Assignments, err = s.assignments.ListAssignments(ctx); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	if snap.Submissions, err = s.submissions.ListSubmissionsByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if snap.Quizzes, err = s.quizzes.ListQuizzes(ctx); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	if snap.Attempts, err = s.attempts.ListAttemptsByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if snap.Progress, err = s.progress.ListProgressByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("list module progress: %w", err)
	}

	return &snap, nil
}

// Evaluate builds an evaluator over the user's current data.
func (s *ProgressService) Evaluate(ctx context.Context, userID uuid.UUID) (*progression.Evaluator, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progression.NewEvaluator(*snap), nil
}

// Modules lists every published module with its lock state.
func (s *ProgressService) Modules(ctx context.Context, userID uuid.UUID) ([]ModuleOverview, error) {
	ev, err := s.Evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return overviews(ev), nil
}

// Module returns one published module.
func (s *ProgressService) Module(ctx context.Context, userID, moduleID uuid.UUID) (*ModuleOverview, error) {
	ev, err := s.Evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}
	st, ok := ev.Module(moduleID)
	if !ok {
		return nil, ErrModuleNotFound
	}
	o := overview(ev, st)
	return &o, nil
}

// Dashboard returns the summary and the per-module overview.
func (s *ProgressService) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	ev, err := s.Evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Summary: ev.Summary(), Modules: overviews(ev)}, nil
}

// Grades returns the user's grade report.
func (s *ProgressService) Grades(ctx context.Context, userID uuid.UUID) (*progression.GradeStats, error) {
	ev, err := s.Evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}
	g := ev.Grades()
	return &g, nil
}

// FinalQuiz reports whether every published module is completed.
func (s *ProgressService) FinalQuiz(ctx context.Context, userID uuid.UUID) (*FinalQuizStatus, error) {
	ev, err := s.Evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum := ev.Summary()
	return &FinalQuizStatus{
		Unlocked:         sum.FinalQuizUnlocked,
		CompletedModules: sum.CompletedModules,
		TotalModules:     sum.TotalModules,
	}, nil
}

// QuizStatus combines the content gate with the retry cooldown.
func (s *ProgressService) QuizStatus(ctx context.Context, userID, quizID uuid.UUID) (*QuizStatus, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return quizStatus(progression.NewEvaluator(*snap), snap.Attempts, quizID, s.now()), nil
}

func quizStatus(ev *progression.Evaluator, attempts []model.QuizAttempt, quizID uuid.UUID, now time.Time) *QuizStatus {
	st := &QuizStatus{QuizID: quizID, Gate: ev.QuizGate(quizID)}
	if moduleID, ok := ev.QuizModule(quizID); ok {
		st.ModuleID = moduleID
	}
	for _, a := range attempts {
		if a.QuizID == quizID && a.Passed {
			st.Passed = true
			break
		}
	}
	st.Cooldown = scoring.CheckCooldown(scoring.LatestAttempt(attempts, quizID), now)
	st.CanAttempt = st.Gate == progression.QuizGateOpen && !st.Cooldown.Active
	return st
}

func overviews(ev *progression.Evaluator) []ModuleOverview {
	states := ev.Modules()
	out := make([]ModuleOverview, 0, len(states))
	for _, st := range states {
		out = append(out, overview(ev, st))
	}
	return out
}

func overview(ev *progression.Evaluator, st progression.ModuleState) ModuleOverview {
	return ModuleOverview{
		ModuleState:     st,
		ProgressPercent: ev.ProgressPercent(st.ID),
		BestScore:       ev.BestScore(st.ID),
	}
}
