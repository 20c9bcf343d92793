package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/spectral-labs/auth-api/internal/domain"
	"github.com/spectral-labs/auth-api/internal/logger"
)

// Register hashes the password, persists the new user and issues a token.
// Email uniqueness is enforced by the store; a duplicate surfaces as a
// conflict error from the repo, never as a pre-read race.
func (s *Service) Register(ctx context.Context, email, password, role string) (RegisterResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return RegisterResult{}, domain.ErrInvalidField("email/password", "must not be empty")
	}
	if role == "" {
		role = string(domain.RoleUser)
	}
	if !domain.IsValidRole(role) {
		return RegisterResult{}, domain.ErrInvalidRole(role)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return RegisterResult{}, domain.ErrHashFailed(err)
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return RegisterResult{}, err
	}

	tok, err := s.issueToken(created.ID, created.Role)
	if err != nil {
		return RegisterResult{}, err
	}

	if s.pub != nil {
		// Best-effort: a broker outage must not fail the signup.
		if err := s.pub.PublishUserRegistered(ctx, UserRegisteredEvent{
			UserID: created.ID,
			Email:  created.Email,
			Role:   created.Role,
		}); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).Str("user_id", created.ID).Msg("user_registered event not published")
		}
	}

	return RegisterResult{User: created, Token: tok}, nil
}
