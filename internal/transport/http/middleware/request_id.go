package middleware

import (
	"net/http"

	"github.com/google/uuid"

	appctx "github.com/spectral-labs/auth-api/internal/pkg/context"
)

const requestIDHeader = "X-Request-Id"

// RequestID accepts a caller-supplied X-Request-Id or mints one, and
// echoes it back on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(appctx.WithRequestID(r.Context(), id)))
	})
}
