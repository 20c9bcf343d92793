package middleware

import (
	"net/http"
	"strings"

	"github.com/spectral-labs/auth-api/internal/application/auth"
	"github.com/spectral-labs/auth-api/internal/domain"
	"github.com/spectral-labs/auth-api/internal/infrastructure/security"
	"github.com/spectral-labs/auth-api/internal/transport/http/response"
)

// Authenticator verifies the access token and injects the identity
// into the request context. The cookie is the primary carrier; a
// Bearer header is accepted for non-browser clients.
type Authenticator struct {
	signer auth.TokenSigner
}

func NewAuthenticator(signer auth.TokenSigner) *Authenticator {
	return &Authenticator{signer: signer}
}

func extractToken(r *http.Request) (string, error) {
	if tok, err := security.ReadAuthToken(r); err == nil && tok != "" {
		return tok, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return "", domain.ErrTokenMissing()
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", domain.ErrTokenInvalid()
	}
	return parts[1], nil
}

func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		claims, err := a.signer.Verify(token)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, claims.Role)))
	})
}
