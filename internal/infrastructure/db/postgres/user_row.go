package postgres

import "time"

// userRow mirrors the users table. Kept separate from domain.User so the
// schema can grow without leaking columns into the domain type.
type userRow struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
