package middleware

import "github.com/gin-gonic/gin"

// NoStore marks responses as per-user and uncacheable. Progress answers
// change as soon as a submission is graded.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "private, no-store")
		c.Next()
	}
}
