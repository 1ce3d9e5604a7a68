package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Migrate applies the embedded migrations for driver.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var dialect goose.Dialect
	switch driver {
	case DriverMySQL:
		dialect = goose.DialectMySQL
	case DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	fsys, err := fs.Sub(migrations, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
