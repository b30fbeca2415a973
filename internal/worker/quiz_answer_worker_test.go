package worker

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// flakySink fails any write containing a row of a poisoned attempt.
type flakySink struct {
	poisoned map[uuid.UUID]bool
	calls    int
	stored   []model.QuizAnswer
}

func (s *flakySink) InsertQuizAnswers(ctx context.Context, answers []model.QuizAnswer) error {
	s.calls++
	for _, a := range answers {
		if s.poisoned[a.AttemptID] {
			return errors.New("constraint violation")
		}
	}
	s.stored = append(s.stored, answers...)
	return nil
}

func payload(attemptID uuid.UUID, n int) *answerPayload {
	p := &answerPayload{}
	for i := 0; i < n; i++ {
		p.Answers = append(p.Answers, model.QuizAnswer{AttemptID: attemptID, QuestionID: uuid.New()})
	}
	return p
}

func TestFlushWritesBatchOnce(t *testing.T) {
	sink := &flakySink{}
	w := NewQuizAnswerWorker(sink, nil, zerolog.New(io.Discard))

	failed := w.flush(context.Background(), []*answerPayload{payload(uuid.New(), 3), payload(uuid.New(), 2)})
	if len(failed) != 0 {
		t.Fatalf("failed = %d, want 0", len(failed))
	}
	if sink.calls != 1 || len(sink.stored) != 5 {
		t.Errorf("calls = %d, stored = %d, want 1 and 5", sink.calls, len(sink.stored))
	}
}

func TestFlushFallsBackPerAttempt(t *testing.T) {
	bad := uuid.New()
	sink := &flakySink{poisoned: map[uuid.UUID]bool{bad: true}}
	w := NewQuizAnswerWorker(sink, nil, zerolog.New(io.Discard))

	badPayload := payload(bad, 2)
	failed := w.flush(context.Background(), []*answerPayload{payload(uuid.New(), 3), badPayload, payload(uuid.New(), 1)})

	if len(failed) != 1 || failed[0] != badPayload {
		t.Fatalf("failed = %v, want only the poisoned attempt", failed)
	}
	if len(sink.stored) != 4 {
		t.Errorf("stored = %d, want 4", len(sink.stored))
	}
}

func TestFlushEmptyBatch(t *testing.T) {
	sink := &flakySink{}
	w := NewQuizAnswerWorker(sink, nil, zerolog.New(io.Discard))
	if failed := w.flush(context.Background(), nil); failed != nil || sink.calls != 0 {
		t.Error("empty batch should not touch the sink")
	}
}

func TestSettleParksExhaustedPayloads(t *testing.T) {
	bad := uuid.New()
	sink := &flakySink{poisoned: map[uuid.UUID]bool{bad: true}}
	w := NewQuizAnswerWorker(sink, nil, zerolog.New(io.Discard))

	p := payload(bad, 2)
	for round := 1; round < MaxAnswerRetries; round++ {
		retry, dead := settle(w.flush(context.Background(), []*answerPayload{p}))
		if len(retry) != 1 || len(dead) != 0 {
			t.Fatalf("round %d: retry = %d, dead = %d, want 1 and 0", round, len(retry), len(dead))
		}
	}

	retry, dead := settle(w.flush(context.Background(), []*answerPayload{p}))
	if len(retry) != 0 || len(dead) != 1 || dead[0] != p {
		t.Fatalf("retry = %d, dead = %d, want the payload parked", len(retry), len(dead))
	}
	if p.Retries != MaxAnswerRetries {
		t.Errorf("retries = %d, want %d", p.Retries, MaxAnswerRetries)
	}
}

func TestSettleNothingFailed(t *testing.T) {
	retry, dead := settle(nil)
	if retry != nil || dead != nil {
		t.Errorf("retry = %v, dead = %v, want both empty", retry, dead)
	}
}
