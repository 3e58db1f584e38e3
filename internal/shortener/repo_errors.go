package shortener

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	codeUniqueConstraint    = "url_mappings_short_code_unique"
	longURLUniqueConstraint = "url_mappings_long_url_unique"
	longURLLengthConstraint = "url_mappings_long_url_length"

	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

func isPostgresUniqueViolation(err error, constraint string) bool {
	return isPostgresViolation(err, pgUniqueViolation, constraint)
}

func isPostgresCheckViolation(err error, constraint string) bool {
	return isPostgresViolation(err, pgCheckViolation, constraint)
}

func isPostgresViolation(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == code && pgErr.ConstraintName == constraint
}

// SQLite names the offending column rather than the constraint:
// "UNIQUE constraint failed: url_mappings.short_code".
func isSQLiteUniqueViolation(err error, column string) bool {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	return sqlErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(sqlErr.Error(), "UNIQUE") &&
		strings.Contains(sqlErr.Error(), "url_mappings."+column)
}
