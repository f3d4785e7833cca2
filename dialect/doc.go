// Package dialect names the SQL dialects supported by the table planner and
// defines the driver interfaces the migrator executes statements through.
//
// The following dialects are supported:
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// Sub-packages:
//
//   - dialect/sql: table planning, select queries and the migrator
//   - dialect/sqlschema: SQL annotations for schemas and fields
package dialect
