package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors surfaced by repositories. Services translate these into
// API error codes; the underlying constraint names stay internal.
var (
	ErrDuplicateTitle       = errors.New("media title already exists")
	ErrDuplicateDescription = errors.New("media description already exists")
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrAlreadyDownloaded    = errors.New("media already downloaded by this user")
	ErrDuplicateReport      = errors.New("report already filed for this target")
	ErrTaskConflict         = errors.New("media already claimed by another moderator")
	ErrNoPendingMedia       = errors.New("no media awaiting moderation")
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation, optionally on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
