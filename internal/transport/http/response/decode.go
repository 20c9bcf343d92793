// Package response owns the HTTP wire format: JSON decoding of request
// bodies and the success/error envelopes every handler writes.
package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/spectral-labs/auth-api/internal/domain"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// DecodeJSON parses the request body into dst. Unknown fields and
// trailing content are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return domain.ErrInvalidJSON(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.ErrInvalidJSON(errors.New("body must contain a single JSON object"))
	}
	return nil
}
