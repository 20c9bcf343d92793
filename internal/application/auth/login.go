package auth

import (
	"context"
	"strings"

	"github.com/spectral-labs/auth-api/internal/domain"
)

// Login authenticates a user and issues a token.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			// Hide not-found behind invalid credentials.
			return LoginResult{}, domain.ErrInvalidCredentials()
		}
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	tok, err := s.issueToken(u.ID, u.Role)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{User: u, Token: tok}, nil
}
