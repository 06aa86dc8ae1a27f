package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"employeedir/internal/platform/logger"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

const maxRequestIDLength = 128

// RequestID propagates X-Request-ID, minting a UUID when the caller sent none,
// and attaches a request-scoped logger to the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if reqID == "" || len(reqID) > maxRequestIDLength {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		ctx = logger.WithFields(ctx, map[string]any{"requestId": reqID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}
