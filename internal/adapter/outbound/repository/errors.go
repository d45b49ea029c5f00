package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Common error types
var (
	ErrAlreadyExists       = errors.New("record already exists")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrConnectionFailed    = errors.New("database connection failed")
)

// IsConstraintViolationError checks if an error is a constraint violation
func IsConstraintViolationError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 unique_violation, 23503 foreign_key_violation,
		// 23514 check_violation, 23502 not_null_violation
		switch pgErr.Code {
		case "23505", "23503", "23514", "23502":
			return true
		}
	}

	return errors.Is(err, ErrConstraintViolation) || errors.Is(err, ErrAlreadyExists)
}

// IsConnectionError checks if an error is a connection-related error
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "08": // connection exception
			return true
		case "57": // operator intervention
			return true
		}
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	return errors.Is(err, ErrConnectionFailed)
}

// WrapError wraps a database error with the failed operation, mapping
// PostgreSQL error codes to the sentinels above.
func WrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if IsConstraintViolationError(err) {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%s failed: %w: %w", operation, ErrAlreadyExists, err)
		}
		return fmt.Errorf("%s failed: %w: %w", operation, ErrConstraintViolation, err)
	}

	if IsConnectionError(err) {
		return fmt.Errorf("%s failed: %w: %w", operation, ErrConnectionFailed, err)
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
