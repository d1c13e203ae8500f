package server

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// HeaderRequestID carries the request identifier in both directions
	HeaderRequestID = "X-Request-ID"

	requestIDKey = "request_id"
)

// RequestID echoes the client's request ID or assigns a fresh one
func RequestID() MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c Context) error {
			id := c.Header(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(requestIDKey, id)
			c.SetHeader(HeaderRequestID, id)
			return next(c)
		}
	}
}

// RequestIDFrom returns the ID assigned by RequestID, if any
func RequestIDFrom(c Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}

// AccessLog logs one line per request once the handler chain has run
func AccessLog(logger *zap.Logger) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c Context) error {
			start := time.Now()
			err := next(c)

			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", c.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", RequestIDFrom(c)),
			}
			if err != nil {
				logger.Error("request failed", append(fields, zap.Error(err))...)
				return err
			}
			logger.Info("request", fields...)
			return nil
		}
	}
}
