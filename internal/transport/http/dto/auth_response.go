package dto

import (
	"time"

	"github.com/spectral-labs/auth-api/internal/domain"
)

// UserView is the public shape of a user. The password hash never
// leaves the server, and neither does the token (cookie only).
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type AuthData struct {
	User UserView `json:"user"`
}

type MeData struct {
	User UserView `json:"user"`
}
