package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Options selects and parameterizes the backing store.
type Options struct {
	Driver         string // DriverMySQL or DriverSQLite
	FallbackSQLite bool   // open SQLitePath when MySQL cannot be reached
	User           string
	Pass           string
	Host           string
	Port           string
	Name           string
	SQLitePath     string
}

// DB is a migrated connection pool plus the driver that backs it.
type DB struct {
	*sql.DB
	Driver string
}

// Open connects to the configured store, falling back to SQLite when MySQL
// is unreachable and the fallback is enabled, and applies migrations.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*DB, error) {
	driver := strings.ToLower(opts.Driver)
	if driver == "" {
		driver = DriverSQLite
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	switch driver {
	case DriverMySQL:
		sqlDB, err = OpenMySQL(ctx, opts.User, opts.Pass, opts.Host, opts.Port, opts.Name)
		if err != nil && opts.FallbackSQLite {
			logger.Warn("mysql unavailable, falling back to sqlite",
				"host", opts.Host, "port", opts.Port, "path", opts.SQLitePath, "error", err)
			driver = DriverSQLite
			sqlDB, err = OpenSQLite(ctx, opts.SQLitePath)
		}
	case DriverSQLite:
		sqlDB, err = OpenSQLite(ctx, opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if err := Migrate(ctx, sqlDB, driver); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database ready", "driver", driver)
	return &DB{DB: sqlDB, Driver: driver}, nil
}

// OpenMySQL connects to MySQL and verifies the connection.
func OpenMySQL(ctx context.Context, user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens (creating if needed) a SQLite database. ":memory:" gives
// a private in-memory database, which is what the tests use.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		params += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", path+"?"+params)
	if err != nil {
		return nil, err
	}
	// One writer at a time; also keeps an in-memory database on a single connection.
	db.SetMaxOpenConns(1)

	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
