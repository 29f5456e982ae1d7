package service

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/fixdesk/fixdesk/internal/domain"
)

// notFoundOr maps sql.ErrNoRows to the given not-found error and anything
// else to an internal error.
func notFoundOr(err error, notFound *domain.DomainError) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return domain.NewInternalError(err)
}

func strPtr(s string) *string {
	return &s
}

func intToStr(i int) string {
	return strconv.Itoa(i)
}

func timeToStr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
