package sql

import (
	"errors"
	"fmt"
	"strings"

	atlas "ariga.io/atlas/sql/schema"
)

// ValidationError represents a table validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of table validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err returns the validation errors joined, or nil.
func (r *ValidationResult) Err() error {
	if !r.HasErrors() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return fmt.Errorf("dialect/sql: invalid tables: %w", errors.Join(errs...))
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	for _, group := range []struct {
		title string
		list  []*ValidationError
	}{{"Errors", r.Errors}, {"Warnings", r.Warnings}} {
		if len(group.list) == 0 {
			continue
		}
		sb.WriteString(group.title + ":\n")
		for _, e := range group.list {
			sb.WriteString("  - " + e.Error() + "\n")
		}
	}
	return sb.String()
}

// ValidateTable validates a single table definition.
func ValidateTable(t *atlas.Table) *ValidationResult {
	result := &ValidationResult{}
	if t.PrimaryKey == nil || len(t.PrimaryKey.Parts) == 0 {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.Name,
			Message: "table has no primary key",
		})
	}

	colNames := make(map[string]bool)
	for _, c := range t.Columns {
		if colNames[c.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "duplicate column name",
			})
		}
		colNames[c.Name] = true
	}

	idxNames := make(map[string]bool)
	for _, idx := range t.Indexes {
		if idxNames[idx.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("duplicate index name: %s", idx.Name),
			})
		}
		idxNames[idx.Name] = true
		for _, part := range idx.Parts {
			if part.C != nil && !colNames[part.C.Name] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("index %q references non-existent column %q", idx.Name, part.C.Name),
				})
			}
		}
	}

	for _, fk := range t.ForeignKeys {
		for _, col := range fk.Columns {
			if !colNames[col.Name] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key references non-existent column %q", col.Name),
				})
			}
		}
	}
	return result
}

// ValidateTables validates a set of tables planned together.
func ValidateTables(tables []*atlas.Table) *ValidationResult {
	result := &ValidationResult{}
	tableNames := make(map[string]bool)
	for _, t := range tables {
		if tableNames[t.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: "duplicate table name",
			})
		}
		tableNames[t.Name] = true

		tableResult := ValidateTable(t)
		result.Errors = append(result.Errors, tableResult.Errors...)
		result.Warnings = append(result.Warnings, tableResult.Warnings...)
	}

	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			if fk.RefTable == nil || !tableNames[fk.RefTable.Name] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key %q references a table outside the plan", fk.Symbol),
				})
			}
		}
	}
	return result
}
