// Package sqlstore implements the storage interfaces on database/sql.
// SQLite (modernc.org/sqlite) is the default; Postgres is reached through pgx.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// Supported values of the driver argument of New.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLSTATE коды Postgres
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// dialect собирает различия между SQLite и Postgres
type dialect struct {
	sqlDriver     string
	gooseDialect  string
	migrationsDir string
	numbered      bool // плейсхолдеры $1, $2 вместо ?
}

var dialects = map[string]dialect{
	DriverSQLite: {
		sqlDriver:     "sqlite",
		gooseDialect:  "sqlite3",
		migrationsDir: "migrations/sqlite",
	},
	DriverPostgres: {
		sqlDriver:     "pgx",
		gooseDialect:  "postgres",
		migrationsDir: "migrations/postgres",
		numbered:      true,
	},
}

// Storage represents SQL storage implementation
type Storage struct {
	db      *sql.DB
	dialect dialect
}

// New creates a new storage instance and applies migrations.
// driver is DriverSQLite or DriverPostgres. For SQLite dsn is a file path;
// use ":memory:" for in-memory database (useful for testing).
func New(ctx context.Context, driver, dsn string) (*Storage, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	// Открываем соединение с БД
	db, err := sql.Open(d.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DriverSQLite {
		if err := configureSQLite(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	storage := &Storage{db: db, dialect: d}

	// Запускаем миграции
	if err := storage.runMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return storage, nil
}

// configureSQLite настраивает пул и pragmas
func configureSQLite(ctx context.Context, db *sql.DB) error {
	// SQLite с WAL mode может поддерживать несколько читателей, но только одного писателя
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// runMigrations выполняет миграции из embedded FS
func (s *Storage) runMigrations() error {
	if err := goose.SetDialect(s.dialect.gooseDialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.Up(s.db, s.dialect.migrationsDir); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// DB returns the underlying database connection for testing purposes
func (s *Storage) DB() *sql.DB {
	return s.db
}

// rebind переписывает ? в $n для Postgres
func (s *Storage) rebind(query string) string {
	if !s.dialect.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// isUniqueViolation распознает нарушение UNIQUE в обоих драйверах
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation распознает нарушение FOREIGN KEY в обоих драйверах
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}

	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// rowsAffected возвращает notFound, если ни одна строка не изменилась
func rowsAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
