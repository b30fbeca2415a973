package model

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus enumerates the grading lifecycle of a submission.
type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusGraded    SubmissionStatus = "graded"
)

// LinkType classifies the URL attached to a submission.
type LinkType string

const (
	LinkTypeGithub LinkType = "github"
	LinkTypeVercel LinkType = "vercel"
	LinkTypeOther  LinkType = "other"
)

// Submission is one student's delivery for an assignment.
// IsApproved is nil until an admin grades it.
type Submission struct {
	ID           uuid.UUID        `json:"id"`
	AssignmentID uuid.UUID        `json:"assignment_id"`
	UserID       uuid.UUID        `json:"user_id"`
	Status       SubmissionStatus `json:"status"`
	IsApproved   *bool            `json:"is_approved"`
	LinkURL      *string          `json:"link_url,omitempty"`
	LinkType     *LinkType        `json:"link_type,omitempty"`
	Comment      *string          `json:"comment,omitempty"`
	Score        *int             `json:"score,omitempty"`
	Feedback     *string          `json:"feedback,omitempty"`
	SubmittedAt  *time.Time       `json:"submitted_at,omitempty"`
	GradedAt     *time.Time       `json:"graded_at,omitempty"`
	GradedBy     *uuid.UUID       `json:"graded_by,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Approved reports whether the submission was explicitly approved.
func (s *Submission) Approved() bool {
	return s.IsApproved != nil && *s.IsApproved
}

// CreateSubmissionRequest is the payload a student sends to deliver an assignment.
type CreateSubmissionRequest struct {
	LinkURL  string `json:"link_url" binding:"required,url,max=2048"`
	LinkType string `json:"link_type" binding:"required,oneof=github vercel other"`
	Comment  string `json:"comment" binding:"omitempty,max=2000"`
}

// GradeSubmissionRequest is the payload an admin sends to grade a submission.
type GradeSubmissionRequest struct {
	Score      *int   `json:"score" binding:"required,min=0"`
	Feedback   string `json:"feedback" binding:"omitempty,max=4000"`
	IsApproved *bool  `json:"is_approved" binding:"required"`
}
