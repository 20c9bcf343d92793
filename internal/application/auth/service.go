package auth

import (
	"time"

	"github.com/spectral-labs/auth-api/internal/domain"
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner
	pub    EventPublisher

	tokenTTL time.Duration
}

type Config struct {
	TokenTTL time.Duration
}

func NewService(users UserRepo, hasher PasswordHasher, signer TokenSigner, pub EventPublisher, cfg Config) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:    users,
		hasher:   hasher,
		signer:   signer,
		pub:      pub,
		tokenTTL: ttl,
	}
}

// AuthToken is the signed credential handed to the transport layer.
// The handler puts it in an HttpOnly cookie; it never appears in a JSON body.
type AuthToken struct {
	Token     string
	ExpiresIn int64 // seconds
}

type RegisterResult struct {
	User  domain.User
	Token AuthToken
}

type LoginResult struct {
	User  domain.User
	Token AuthToken
}

func (s *Service) issueToken(userID, role string) (AuthToken, error) {
	signed, err := s.signer.Sign(userID, role, s.tokenTTL)
	if err != nil {
		return AuthToken{}, err
	}
	return AuthToken{
		Token:     signed,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}
