package middleware

import (
	"net/http"

	"github.com/frahmantamala/pos-backoffice/pkg/logger"

	"github.com/google/uuid"
)

const (
	TraceHeader     = "X-Trace-ID"
	RequestIDHeader = "X-Request-ID"
	maxTraceIDLen   = 64
)

// RequestID tags the request logger and the response with a trace id, reusing a
// well-formed incoming one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = r.Header.Get(RequestIDHeader)
		}
		if !validTraceID(traceID) {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)
		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validTraceID admits printable ASCII without spaces.
func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
