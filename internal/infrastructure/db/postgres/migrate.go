package postgres

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/spectral-labs/auth-api/internal/infrastructure/db/postgres/migrations"
)

// RunMigrations applies the embedded goose migrations.
// Safe to run on every startup; goose tracks applied versions.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
