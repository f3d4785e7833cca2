package dialect

import (
	"context"
	"fmt"
	"strings"
)

// Dialect names.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the Exec and Query methods of a database connection.
type ExecQuerier interface {
	// Exec executes a statement. v is nil or a *sql.Result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query. v is a *sql.Rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for applying
// generated migrations.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in a transaction.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

// Parse returns the dialect name for s. Driver names such as "sqlite3",
// "pgx" and "postgresql" are accepted as aliases.
func Parse(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case MySQL, "mariadb":
		return MySQL, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	case Postgres, "postgresql", "pg", "pgx":
		return Postgres, nil
	default:
		return "", fmt.Errorf("dialect: unsupported dialect %q", s)
	}
}

// DriverName returns the database/sql driver name registered for a
// dialect.
func DriverName(name string) string {
	if name == Postgres {
		return "postgres"
	}
	return name
}
