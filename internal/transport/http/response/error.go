package response

import (
	"errors"
	"net/http"

	"github.com/spectral-labs/auth-api/internal/domain"
	"github.com/spectral-labs/auth-api/internal/logger"
	appctx "github.com/spectral-labs/auth-api/internal/pkg/context"
)

// ErrorBody is the error wire format. Every failure, validation or
// otherwise, is a list of field/message pairs; non-field errors have
// an empty field.
type ErrorBody struct {
	Errors    []domain.FieldError `json:"errors"`
	RequestID string              `json:"request_id,omitempty"`
}

func statusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError maps a domain error to its HTTP status and body. Unknown
// error types become an opaque 500 so internals never leak to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.ErrInternal(err)
	}

	status := statusFromKind(de.Kind)
	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error().Err(err).
			Str("code", de.Code).
			Str("path", r.URL.Path).
			Msg("request failed")
	}

	fields := de.Fields
	if len(fields) == 0 {
		fields = []domain.FieldError{{Message: de.Message}}
	}

	writeJSON(w, status, ErrorBody{
		Errors:    fields,
		RequestID: appctx.GetRequestID(r.Context()),
	})
}
