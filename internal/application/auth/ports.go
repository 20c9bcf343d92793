package auth

import (
	"context"
	"time"

	"github.com/spectral-labs/auth-api/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the auth service needs, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies access tokens (JWT).
Used by service + auth middleware.
*/
type TokenClaims struct {
	UserID string
	Role   string
	Exp    time.Time
}

type TokenSigner interface {
	Sign(userID string, role string, ttl time.Duration) (string, error)
	Verify(token string) (TokenClaims, error)
}

/*
EventPublisher
--------------
Announces registrations to the rest of the platform.
The auth service never consumes these itself.
*/
type UserRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
}
