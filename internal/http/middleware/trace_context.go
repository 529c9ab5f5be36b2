package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/adcopy-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
	headerCopyID    = "X-Copy-Id"
)

// AttachTraceContext puts request, trace and copy correlation ids on the request
// context. The copy id comes from the :copy_id route param, falling back to the
// X-Copy-Id header so selection and generation calls can be tied to the copy they
// produce. Ids are echoed back as response headers.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span := trace.SpanFromContext(ctx)

		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}
		traceID := strings.TrimSpace(c.GetHeader(headerTraceID))
		if traceID == "" && span.SpanContext().HasTraceID() {
			traceID = span.SpanContext().TraceID().String()
		}
		if traceID == "" {
			traceID = uuid.New().String()
		}
		copyID := strings.TrimSpace(c.Param("copy_id"))
		if copyID == "" {
			copyID = strings.TrimSpace(c.GetHeader(headerCopyID))
		}

		td := &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
			Route:     c.FullPath(),
			CopyID:    copyID,
		}
		span.SetAttributes(attribute.String("adcopy.request_id", reqID))
		if copyID != "" {
			span.SetAttributes(attribute.String("adcopy.copy_id", copyID))
			c.Writer.Header().Set(headerCopyID, copyID)
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, td))
		c.Set("trace_id", traceID)
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}
