package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cursoteca/lms-backend/internal/config"
	"github.com/cursoteca/lms-backend/internal/metrics"
	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// QuizCatalog resolves a quiz with its answer key.
type QuizCatalog interface {
	GetQuizWithQuestions(ctx context.Context, id uuid.UUID) (*model.QuizWithQuestions, error)
}

// CachedQuizCatalog keeps full quizzes in Redis in front of the database.
// Redis failures degrade to direct reads.
type CachedQuizCatalog struct {
	next QuizCatalog
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewCachedQuizCatalog creates a new CachedQuizCatalog.
func NewCachedQuizCatalog(next QuizCatalog, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedQuizCatalog {
	return &CachedQuizCatalog{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "quiz_cache").Logger(),
	}
}

// GetQuizWithQuestions serves the quiz from Redis, loading it on a miss.
func (c *CachedQuizCatalog) GetQuizWithQuestions(ctx context.Context, id uuid.UUID) (*model.QuizWithQuestions, error) {
	key := config.CacheKey.QuizFullKey(id.String())

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var q model.QuizWithQuestions
		if jsonErr := json.Unmarshal(raw, &q); jsonErr == nil {
			metrics.ObserveCacheLookup(true)
			return &q, nil
		}
		c.log.Warn().Str("key", key).Msg("Discarding unreadable cached quiz")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("Quiz cache read failed")
	}
	metrics.ObserveCacheLookup(false)

	return c.load(ctx, id, key)
}

// Refresh drops the cached copy and reloads it from the database.
func (c *CachedQuizCatalog) Refresh(ctx context.Context, id uuid.UUID) (*model.QuizWithQuestions, error) {
	key := config.CacheKey.QuizFullKey(id.String())
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Quiz cache delete failed")
	}
	return c.load(ctx, id, key)
}

func (c *CachedQuizCatalog) load(ctx context.Context, id uuid.UUID, key string) (*model.QuizWithQuestions, error) {
	q, err := c.next.GetQuizWithQuestions(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(q); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("Quiz cache write failed")
		}
	}
	return q, nil
}

// Prewarm loads every quiz into Redis before traffic arrives and returns how
// many were cached. Individual failures are logged and skipped.
func (c *CachedQuizCatalog) Prewarm(ctx context.Context, quizzes QuizReader) (int, error) {
	list, err := quizzes.ListQuizzes(ctx)
	if err != nil {
		return 0, fmt.Errorf("list quizzes: %w", err)
	}

	warmed := 0
	for _, q := range list {
		key := config.CacheKey.QuizFullKey(q.ID.String())
		if _, err := c.load(ctx, q.ID, key); err != nil {
			c.log.Warn().Err(err).Str("quiz_id", q.ID.String()).Msg("Quiz prewarm failed")
			continue
		}
		warmed++
	}
	return warmed, nil
}
