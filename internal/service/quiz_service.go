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
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// QuizService serves gated quiz papers and records submissions.
type QuizService struct {
	progress *ProgressService
	catalog  QuizCatalog
	recorder *AttemptRecorder
	log      zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(progress *ProgressService, catalog QuizCatalog, recorder *AttemptRecorder, log zerolog.Logger) *QuizService {
	return &QuizService{
		progress: progress,
		catalog:  catalog,
		recorder: recorder,
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// Status reports whether the user may attempt the quiz now.
func (s *QuizService) Status(ctx context.Context, userID, quizID uuid.UUID) (*QuizStatus, error) {
	st, err := s.progress.QuizStatus(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if st.Gate == progression.QuizGateNotFound {
		return nil, ErrQuizNotFound
	}
	return st, nil
}

// Paper returns the quiz without its answer key once the user may attempt it.
func (s *QuizService) Paper(ctx context.Context, userID, quizID uuid.UUID) (*model.QuizPaper, error) {
	quiz, err := s.openQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	return quiz.Paper(), nil
}

// Submit scores and records an attempt. The gate and the cooldown are
// checked against fresh data before anything is written.
func (s *QuizService) Submit(ctx context.Context, userID, quizID uuid.UUID, req *model.SubmitQuizRequest) (*AttemptOutcome, error) {
	quiz, err := s.openQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}

	var startedAt *time.Time
	if req.StartedAt != nil {
		t := req.StartedAt.UTC()
		startedAt = &t
	}

	return s.recorder.Record(ctx, userID, quiz, scoring.Answers(req.Answers), startedAt)
}

func (s *QuizService) openQuiz(ctx context.Context, userID, quizID uuid.UUID) (*model.QuizWithQuestions, error) {
	st, err := s.progress.QuizStatus(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if err := st.Err(); err != nil {
		s.log.Debug().Err(err).
			Str("user_id", userID.String()).
			Str("quiz_id", quizID.String()).
			Msg("Quiz access blocked")
		return nil, err
	}

	quiz, err := s.catalog.GetQuizWithQuestions(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return quiz, nil
}
