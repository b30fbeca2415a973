package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cursoteca/lms-backend/internal/config"
	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// answerPayload is one attempt's answer rows as queued in Redis.
type answerPayload struct {
	Answers []model.QuizAnswer `json:"answers"`
	Retries int                `json:"retries,omitempty"`
}

// AnswerQueue hands quiz answer rows to the QuizAnswerWorker through Redis.
// It satisfies the recorder's answer writer so the request path only pays
// for an RPUSH.
type AnswerQueue struct {
	rdb *redis.Client
}

// NewAnswerQueue creates a new AnswerQueue.
func NewAnswerQueue(rdb *redis.Client) *AnswerQueue {
	return &AnswerQueue{rdb: rdb}
}

// InsertQuizAnswers enqueues the rows for asynchronous persistence.
func (q *AnswerQueue) InsertQuizAnswers(ctx context.Context, answers []model.QuizAnswer) error {
	raw, err := json.Marshal(answerPayload{Answers: answers})
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	if err := q.rdb.RPush(ctx, config.WorkerKey.PersistQuizAnswersQueue, raw).Err(); err != nil {
		return fmt.Errorf("enqueue answers: %w", err)
	}
	return nil
}
