package db

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/mdewinter/gatehouse/migrations"
)

// Migrate brings the database schema up to date by applying all pending
// migrations embedded in the binary.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}
