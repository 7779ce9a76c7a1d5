// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/rali22212/VibeConnect/internal/models"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a uniqueness-constraint failure.
// GORM translates driver errors when TranslateError is enabled; the pgconn
// check covers raw SQL paths that bypass translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// storeError classifies a failed store call. Connectivity problems become
// BACKEND_UNAVAILABLE so callers answer 503 and clients know to retry;
// anything else is an internal error.
func storeError(err error) *models.AppError {
	if isStoreUnavailable(err) {
		return models.NewBackendError(err)
	}
	return models.NewInternalError(err)
}

func isStoreUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, gorm.ErrInvalidDB) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 is connection exceptions, class 57 covers server
		// shutdown (57P01 admin_shutdown, 57P02 crash_shutdown).
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57")
	}
	return false
}
