package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Submission errors.
var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrScoreExceedsMax    = errors.New("score exceeds the assignment max score")
)

// SubmissionService handles assignment delivery and grading.
type SubmissionService struct {
	assignments AssignmentReader
	submissions SubmissionStore
	progress    *ProgressService
	now         func() time.Time
	log         zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(assignments AssignmentReader, submissions SubmissionStore, progress *ProgressService, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		assignments: assignments,
		submissions: submissions,
		progress:    progress,
		now:         time.Now,
		log:         log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit delivers (or re-delivers) an assignment. A resubmission resets
// approval, so the module gate closes again until it is graded.
func (s *SubmissionService) Submit(ctx context.Context, userID, assignmentID uuid.UUID, req *model.CreateSubmissionRequest) (*model.Submission, error) {
	if _, err := s.assignments.GetAssignment(ctx, assignmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}

	ev, err := s.progress.Evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ev.AssignmentAccessible(assignmentID) {
		return nil, ErrModuleLocked
	}

	now := s.now()
	linkURL := strings.TrimSpace(req.LinkURL)
	linkType := model.LinkType(req.LinkType)
	sub := &model.Submission{
		AssignmentID: assignmentID,
		UserID:       userID,
		Status:       model.SubmissionStatusSubmitted,
		LinkURL:      &linkURL,
		LinkType:     &linkType,
		SubmittedAt:  &now,
	}
	if c := strings.TrimSpace(req.Comment); c != "" {
		sub.Comment = &c
	}

	if err := s.submissions.SaveSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Str("assignment_id", assignmentID.String()).
		Msg("Assignment submitted")

	return sub, nil
}

// ListForReview lists submissions, optionally filtered by status.
func (s *SubmissionService) ListForReview(ctx context.Context, status *model.SubmissionStatus) ([]model.Submission, error) {
	subs, err := s.submissions.ListSubmissionsByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	return subs, nil
}

// Grade records an admin's verdict. The next evaluation of the student's
// progress picks up the new approval state.
func (s *SubmissionService) Grade(ctx context.Context, graderID, submissionID uuid.UUID, req *model.GradeSubmissionRequest) (*model.Submission, error) {
	sub, err := s.submissions.GetSubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}

	assignment, err := s.assignments.GetAssignment(ctx, sub.AssignmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if *req.Score > assignment.MaxScore {
		return nil, ErrScoreExceedsMax
	}

	now := s.now()
	score := *req.Score
	approved := *req.IsApproved
	sub.Status = model.SubmissionStatusGraded
	sub.Score = &score
	sub.IsApproved = &approved
	sub.GradedAt = &now
	sub.GradedBy = &graderID
	sub.Feedback = nil
	if f := strings.TrimSpace(req.Feedback); f != "" {
		sub.Feedback = &f
	}

	if err := s.submissions.GradeSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("grade submission: %w", err)
	}

	s.log.Info().
		Str("submission_id", submissionID.String()).
		Str("grader_id", graderID.String()).
		Bool("approved", approved).
		Msg("Submission graded")

	return sub, nil
}
