package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolmanager/internal/pkg/logger"
)

const requestLoggerKey = "requestLogger"

// RequestIDHeader carries the id of a request in and out
const RequestIDHeader = "X-Request-ID"

// RequestID makes sure every request has an id, generating one when the
// client did not send it
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestID", id)
		c.Set(requestLoggerKey, logger.WithField("requestId", id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		lgr := RequestLog(c)
		event := lgr.Info()
		switch {
		case status >= 500:
			event = lgr.Error()
		case status >= 400:
			event = lgr.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
	}
}

// RequestLog returns the logger tagged with the request id, or the process
// logger when RequestID did not run
func RequestLog(c *gin.Context) zerolog.Logger {
	if v, ok := c.Get(requestLoggerKey); ok {
		if lgr, ok := v.(zerolog.Logger); ok {
			return lgr
		}
	}
	return logger.Get()
}
