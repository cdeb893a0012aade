package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
)

type CtxKey string

const (
	CtxKeyTraceID   CtxKey = "trace_id"
	CtxKeySessionID CtxKey = "session_id"
)

const HeaderTraceID = "X-Trace-Id"

// TraceID tags the request context with a new trace id and echoes it back in
// the response headers.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := ksuid.New().String()
		ctx := context.WithValue(c.Request.Context(), CtxKeyTraceID, traceID)
		c.Request = c.Request.Clone(ctx)
		c.Header(HeaderTraceID, traceID)

		c.Next()
	}
}
