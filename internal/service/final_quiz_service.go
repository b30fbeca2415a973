package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cursoteca/lms-backend/internal/metrics"
	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/cursoteca/lms-backend/internal/scoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Final quiz errors.
var (
	ErrFinalQuizLocked   = errors.New("final quiz is locked until every module is completed")
	ErrFinalQuizNotFound = errors.New("no final quiz is active")
)

// FinalQuizAccess is the module gate of the final quiz combined with the
// state of the active final quiz for one user.
type FinalQuizAccess struct {
	FinalQuizStatus
	Available  bool             `json:"available"`
	QuizID     *uuid.UUID       `json:"quiz_id,omitempty"`
	Passed     bool             `json:"passed"`
	Cooldown   scoring.Cooldown `json:"cooldown"`
	CanAttempt bool             `json:"can_attempt"`
}

// Err maps the access to the error blocking an attempt, or nil.
func (a *FinalQuizAccess) Err() error {
	switch {
	case !a.Unlocked:
		return ErrFinalQuizLocked
	case !a.Available:
		return ErrFinalQuizNotFound
	case a.Cooldown.Active:
		return &CooldownError{Cooldown: a.Cooldown}
	}
	return nil
}

// FinalQuizService gates, serves and records the course final quiz.
// Attempts follow the module quiz rules: scored the same way and blocked
// for the same cooldown after a fail.
type FinalQuizService struct {
	progress *ProgressService
	store    FinalQuizStore
	now      func() time.Time
	log      zerolog.Logger
}

// NewFinalQuizService creates a new FinalQuizService.
func NewFinalQuizService(progress *ProgressService, store FinalQuizStore, log zerolog.Logger) *FinalQuizService {
	return &FinalQuizService{
		progress: progress,
		store:    store,
		now:      time.Now,
		log:      log.With().Str("component", "final_quiz_service").Logger(),
	}
}

// Status reports whether the user may take the final quiz now.
func (s *FinalQuizService) Status(ctx context.Context, userID uuid.UUID) (*FinalQuizAccess, error) {
	access, _, err := s.access(ctx, userID)
	return access, err
}

// Paper returns the active final quiz without its answer key.
func (s *FinalQuizService) Paper(ctx context.Context, userID uuid.UUID) (*model.FinalQuizPaper, error) {
	quiz, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return quiz.Paper(), nil
}

// Submit scores the answers against the active final quiz and stores the attempt.
func (s *FinalQuizService) Submit(ctx context.Context, userID uuid.UUID, req *model.SubmitQuizRequest) (*AttemptOutcome, error) {
	quiz, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}

	var startedAt *time.Time
	if req.StartedAt != nil {
		t := req.StartedAt.UTC()
		startedAt = &t
	}

	result := scoring.Score(quiz.Scorable(), scoring.Answers(req.Answers))
	now := s.now()

	attempt := newAttempt(userID, quiz.ID, result, startedAt, now)
	if err := s.store.InsertFinalQuizAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("insert final quiz attempt: %w", err)
	}
	metrics.ObserveAttempt(metrics.KindFinalQuiz, result.Passed)

	s.log.Info().
		Str("user_id", userID.String()).
		Str("quiz_id", quiz.ID.String()).
		Float64("percentage", result.Percentage).
		Bool("passed", result.Passed).
		Msg("Final quiz attempt recorded")

	return newOutcome(attempt, result, now), nil
}

func (s *FinalQuizService) open(ctx context.Context, userID uuid.UUID) (*model.FinalQuizWithQuestions, error) {
	access, quiz, err := s.access(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := access.Err(); err != nil {
		s.log.Debug().Err(err).Str("user_id", userID.String()).Msg("Final quiz access blocked")
		return nil, err
	}
	return quiz, nil
}

// access evaluates the module gate first. The active quiz is nil when none
// is configured.
func (s *FinalQuizService) access(ctx context.Context, userID uuid.UUID) (*FinalQuizAccess, *model.FinalQuizWithQuestions, error) {
	gate, err := s.progress.FinalQuiz(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	access := &FinalQuizAccess{FinalQuizStatus: *gate}

	quiz, err := s.store.GetActiveFinalQuiz(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return access, nil, nil
		}
		return nil, nil, fmt.Errorf("get active final quiz: %w", err)
	}
	access.Available = true
	access.QuizID = &quiz.ID

	attempts, err := s.store.ListFinalQuizAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list final quiz attempts: %w", err)
	}
	for _, a := range attempts {
		if a.QuizID == quiz.ID && a.Passed {
			access.Passed = true
			break
		}
	}
	access.Cooldown = scoring.CheckCooldown(scoring.LatestAttempt(attempts, quiz.ID), s.now())
	access.CanAttempt = access.Unlocked && !access.Cooldown.Active

	return access, quiz, nil
}
