package auth

import (
	"context"

	"github.com/spectral-labs/auth-api/internal/domain"
)

func (s *Service) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
