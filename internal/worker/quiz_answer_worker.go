package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cursoteca/lms-backend/internal/config"
	"github.com/cursoteca/lms-backend/internal/metrics"
	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	AnswerBatchSize    = 50
	AnswerBatchTimeout = 2 * time.Second
	AnswerPollTimeout  = 1 * time.Second
	// MaxAnswerRetries is how many flushes a failing payload gets before it
	// is parked on the dead-letter list.
	MaxAnswerRetries = 5
)

// AnswerSink persists answer rows.
type AnswerSink interface {
	InsertQuizAnswers(ctx context.Context, answers []model.QuizAnswer) error
}

// QuizAnswerWorker drains the quiz answer queue into PostgreSQL.
type QuizAnswerWorker struct {
	sink AnswerSink
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewQuizAnswerWorker creates a new QuizAnswerWorker.
func NewQuizAnswerWorker(sink AnswerSink, rdb *redis.Client, log zerolog.Logger) *QuizAnswerWorker {
	return &QuizAnswerWorker{
		sink: sink,
		rdb:  rdb,
		log:  log.With().Str("component", "quiz_answer_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start runs until ctx is cancelled, then flushes what it holds. Call in a goroutine.
func (w *QuizAnswerWorker) Start(ctx context.Context) {
	w.log.Info().Msg("QuizAnswerWorker started")

	batch := make([]*answerPayload, 0, AnswerBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= AnswerBatchSize || time.Since(lastFlush) >= AnswerBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, AnswerPollTimeout, config.WorkerKey.PersistQuizAnswersQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p answerPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert with per-attempt fallback and bounded retries
// ----------------------------------------------------------------

func (w *QuizAnswerWorker) flushSafe(ctx context.Context, batch []*answerPayload) {
	retry, dead := settle(w.flush(ctx, batch))
	for _, p := range retry {
		w.push(ctx, config.WorkerKey.PersistQuizAnswersQueue, p)
	}
	for _, p := range dead {
		w.log.Error().Int("answers", len(p.Answers)).Int("retries", p.Retries).Msg("Answer payload exhausted its retries, moving to dead-letter list")
		w.push(ctx, config.WorkerKey.PersistQuizAnswersDead, p)
	}
}

func (w *QuizAnswerWorker) push(ctx context.Context, key string, p *answerPayload) {
	raw, _ := json.Marshal(p)
	if err := w.rdb.RPush(ctx, key, raw).Err(); err != nil {
		w.log.Error().Err(err).Str("key", key).Int("answers", len(p.Answers)).Msg("Requeue failed, answers dropped")
	}
}

// settle counts one more failure on every payload and splits them into those
// that go back on the queue and those that ran out of retries.
func settle(failed []*answerPayload) (retry, dead []*answerPayload) {
	for _, p := range failed {
		p.Retries++
		if p.Retries >= MaxAnswerRetries {
			dead = append(dead, p)
			continue
		}
		retry = append(retry, p)
	}
	return retry, dead
}

// flush writes the whole batch at once and falls back to one write per
// attempt. It returns the payloads that still could not be stored.
func (w *QuizAnswerWorker) flush(ctx context.Context, batch []*answerPayload) []*answerPayload {
	if len(batch) == 0 {
		return nil
	}

	var rows []model.QuizAnswer
	for _, p := range batch {
		rows = append(rows, p.Answers...)
	}

	err := w.sink.InsertQuizAnswers(ctx, rows)
	if err == nil {
		metrics.QuizAnswersPersisted.WithLabelValues("batch").Add(float64(len(rows)))
		return nil
	}
	w.log.Warn().Err(err).Int("attempts", len(batch)).Msg("bulk answer insert failed, using fallback")

	var failed []*answerPayload
	for _, p := range batch {
		if err := w.sink.InsertQuizAnswers(ctx, p.Answers); err != nil {
			w.log.Error().Err(err).Msg("single attempt insert failed, requeueing")
			failed = append(failed, p)
			continue
		}
		metrics.QuizAnswersPersisted.WithLabelValues("fallback").Add(float64(len(p.Answers)))
	}
	return failed
}
