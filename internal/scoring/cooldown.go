package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
)

// CooldownPeriod is the fixed wait imposed after a failed attempt.
const CooldownPeriod = 6 * time.Hour

// NextAttemptAt returns when a retry becomes possible, or nil for a passing attempt.
func NextAttemptAt(completedAt time.Time, passed bool) *time.Time {
	if passed {
		return nil
	}
	t := completedAt.Add(CooldownPeriod)
	return &t
}

// Cooldown describes whether a quiz retry is currently blocked.
type Cooldown struct {
	Active        bool          `json:"active"`
	NextAttemptAt *time.Time    `json:"next_attempt_at,omitempty"`
	Remaining     time.Duration `json:"-"`
	HoursLeft     int           `json:"hours_left"`
	MinutesLeft   int           `json:"minutes_left"`
}

// Label renders the remaining wait, switching to minutes under one hour.
func (c Cooldown) Label() string {
	if !c.Active {
		return ""
	}
	if c.Remaining < time.Hour {
		return fmt.Sprintf("%dm", c.MinutesLeft)
	}
	return fmt.Sprintf("%dh", c.HoursLeft)
}

// LatestAttempt returns the most recent attempt for quizID by completed_at, or nil.
func LatestAttempt(attempts []model.QuizAttempt, quizID uuid.UUID) *model.QuizAttempt {
	var latest *model.QuizAttempt
	for i := range attempts {
		a := &attempts[i]
		if a.QuizID != quizID {
			continue
		}
		if latest == nil || a.CompletedAt.After(latest.CompletedAt) {
			latest = a
		}
	}
	return latest
}

// CheckCooldown evaluates the cooldown of the latest attempt at instant now.
func CheckCooldown(latest *model.QuizAttempt, now time.Time) Cooldown {
	if latest == nil || latest.Passed || latest.NextAttemptAt == nil {
		return Cooldown{}
	}
	if !now.Before(*latest.NextAttemptAt) {
		return Cooldown{}
	}

	remaining := latest.NextAttemptAt.Sub(now)
	next := *latest.NextAttemptAt
	return Cooldown{
		Active:        true,
		NextAttemptAt: &next,
		Remaining:     remaining,
		HoursLeft:     int(math.Ceil(remaining.Hours())),
		MinutesLeft:   int(math.Ceil(remaining.Minutes())),
	}
}
