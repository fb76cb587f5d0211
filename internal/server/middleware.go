package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nordclean/internal/storage/redis"
)

const (
	sessionCookie = "nc_session"
	sessionKey    = "session_id"
)

// sessionMiddleware makes sure every visitor carries a session id cookie.
func sessionMiddleware(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
		c.Set(sessionKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

func rateLimit(limiter RateLimiter, action string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := limiter.Allow(c.Request.Context(), action, c.ClientIP())
		if errors.Is(err, redis.ErrRateLimited) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "För många förfrågningar, försök igen om en stund.",
			})
			return
		}
		if err != nil {
			// fail open
			logger.Warn("Rate limiter unavailable", zap.String("action", action), zap.Error(err))
		}
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("Request failed", fields...)
			return
		}
		logger.Debug("Request handled", fields...)
	}
}
