// Package database opens the shared *sql.DB pool and applies schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect is the SQL flavour the pool speaks.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// sql.Open driver names registered by the blank imports above.
const (
	sqliteDriverName   = "sqlite"
	postgresDriverName = "pgx"
)

const sqliteBusyTimeout = 5 * time.Second

// DB is the pool shared by every repository together with its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Rebind rewrites "?" placeholders into the dialect's positional form.
func (d *DB) Rebind(query string) string {
	return d.Dialect.Rebind(query)
}

// Rebind rewrites "?" placeholders as $1, $2... for postgres and leaves sqlite queries untouched.
// Placeholders inside single-quoted literals are skipped.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Target returns the dialect and DSN selected by cfg.DBDriver.
func Target(cfg *config.Config) (Dialect, string, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return DialectSQLite, SQLiteDSN(cfg.SQLitePath), nil
	case config.DriverPostgres:
		return DialectPostgres, cfg.DatabaseURL, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Open connects to the database selected by cfg.DBDriver.
// When cfg.EnableDBCheck is set the connection is pinged before returning.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, cfg.EnableDBCheck)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// OpenSQLite opens a file-backed SQLite database in WAL mode.
// SQLite allows a single writer, so the pool is capped at one connection.
func OpenSQLite(ctx context.Context, path string, check bool) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	db, err := sql.Open(sqliteDriverName, SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if check {
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
		}
	}
	log.Printf("Opened SQLite database at %s.\n", path)
	return &DB{DB: db, Dialect: DialectSQLite}, nil
}

// SQLiteDSN builds a modernc DSN with foreign keys, WAL and a busy timeout.
func SQLiteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", sqliteBusyTimeout.Milliseconds()))
	return "file:" + path + "?" + q.Encode()
}

// OpenPostgres opens a postgres pool through the pgx stdlib driver.
func OpenPostgres(ctx context.Context, databaseURL string, check bool) (*DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}
	db, err := sql.Open(postgresDriverName, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if check {
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	}
	log.Println("Successfully connected to PostgreSQL database.")
	return &DB{DB: db, Dialect: DialectPostgres}, nil
}

// Close closes the pool, logging instead of failing.
func Close(db *DB) {
	if db == nil || db.DB == nil {
		return
	}
	if err := db.DB.Close(); err != nil {
		log.Printf("Error closing database: %v\n", err)
		return
	}
	log.Println("Database connection pool closed.")
}
