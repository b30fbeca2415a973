package service

import (
	"io"
	"time"

	"github.com/cursoteca/lms-backend/internal/service/servicetest"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var nopLog = zerolog.New(io.Discard)

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

// fixture wires every service against one in-memory store and one clock.
type fixture struct {
	store      *servicetest.Store
	clock      *clock
	progress   *ProgressService
	recorder   *AttemptRecorder
	quizzes    *QuizService
	submission *SubmissionService
	final      *FinalQuizService
	user       uuid.UUID
	admin      uuid.UUID
}

func newFixture() *fixture {
	st := servicetest.NewStore()
	clk := &clock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}

	progress := NewProgressService(st, st, st, st, st, st, nopLog)
	progress.now = clk.now
	recorder := NewAttemptRecorder(st, st, st, nopLog)
	recorder.now = clk.now
	quizzes := NewQuizService(progress, st, recorder, nopLog)
	subs := NewSubmissionService(st, st, progress, nopLog)
	subs.now = clk.now
	final := NewFinalQuizService(progress, st, nopLog)
	final.now = clk.now

	return &fixture{
		store:      st,
		clock:      clk,
		progress:   progress,
		recorder:   recorder,
		quizzes:    quizzes,
		submission: subs,
		final:      final,
		user:       uuid.New(),
		admin:      uuid.New(),
	}
}
