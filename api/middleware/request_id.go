package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"

	maxRequestIDLen = 64
)

// RequestID trusts a caller's X-Request-Id only when it is a short plain
// token, so ids copied into logs cannot carry arbitrary text.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := cleanToken(r.Header.Get(requestIDHeader), maxRequestIDLen)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
