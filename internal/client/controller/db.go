package controller

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/sharestory/internal/client/migrations"
	"github.com/dmitrijs2005/sharestory/internal/common"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded schema migrations. Goose tracks the
// schema version in the database itself, so repeated calls are no-ops and
// new additive migrations (like the sync status index) apply without data
// loss.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local story store and brings its schema up to date.
// All failures wrap common.ErrStorageUnavailable: a client without a local
// store cannot run.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	// modernc sqlite allows a single writer; one connection avoids lock
	// contention between interleaved store operations
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	return db, nil
}
