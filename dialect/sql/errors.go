package sql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// ErrTransient is returned when tables are requested for a transient schema.
var ErrTransient = errors.New("dialect/sql: transient schema")

// TransientError reports a transient schema used as the root of a table
// plan.
type TransientError struct {
	Schema string
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("dialect/sql: unable to create tables for transient schema %s", e.Schema)
}

// Is reports whether target is ErrTransient.
func (e *TransientError) Is(target error) bool { return target == ErrTransient }

// SelectError reports an invalid field selection.
type SelectError struct {
	Schema string
	Field  string
	Reason string
}

func (e *SelectError) Error() string {
	return fmt.Sprintf("dialect/sql: select %s.%s: %s", e.Schema, e.Field, e.Reason)
}

// MigrateError is returned when a migration statement fails. The
// transaction it ran in is rolled back.
type MigrateError struct {
	Stmt string
	Err  error
}

func (e *MigrateError) Error() string {
	return fmt.Sprintf("dialect/sql: migrate: %q: %v", e.Stmt, e.Err)
}

func (e *MigrateError) Unwrap() error { return e.Err }

// IsConstraintError returns true if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	return IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err)
}

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451
	mysqlForeignKeyChild        = 1452
	mysqlCheckConstraintViolate = 3819
)

// violation describes how each driver reports one kind of constraint error.
type violation struct {
	state    string
	numbers  []uint16
	messages []string
}

var (
	uniqueViolation = violation{
		state:    pgUniqueViolation,
		numbers:  []uint16{mysqlDuplicateEntry},
		messages: []string{"Error 1062", "violates unique constraint", "UNIQUE constraint failed"},
	}
	foreignKeyViolation = violation{
		state:    pgForeignKeyViolation,
		numbers:  []uint16{mysqlForeignKeyParent, mysqlForeignKeyChild},
		messages: []string{"Error 1451", "Error 1452", "violates foreign key constraint", "FOREIGN KEY constraint failed"},
	}
	checkViolation = violation{
		state:    pgCheckViolation,
		numbers:  []uint16{mysqlCheckConstraintViolate},
		messages: []string{"Error 3819", "violates check constraint", "CHECK constraint failed"},
	}
)

func (v violation) match(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && string(pgErr.Code) == v.state {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		for _, n := range v.numbers {
			if myErr.Number == n {
				return true
			}
		}
	}
	// Drivers without typed errors, such as SQLite.
	for _, m := range v.messages {
		if strings.Contains(err.Error(), m) {
			return true
		}
	}
	return false
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
func IsUniqueConstraintError(err error) bool { return uniqueViolation.match(err) }

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
func IsForeignKeyConstraintError(err error) bool { return foreignKeyViolation.match(err) }

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
func IsCheckConstraintError(err error) bool { return checkViolation.match(err) }
