package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizFullKey returns the cache key for a quiz with its questions and options
func (r *CacheKeyStruct) QuizFullKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:full", quizID)
}

var CacheKey = NewCacheKeyStruct()
