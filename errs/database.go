package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes we classify.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

var ErrDatabaseQuery = errors.New("database query failed")

// NewDatabaseError classifies a repository failure while performing operation on entity.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("failed to %s %s", operation, entity)

	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	if errors.Is(cause, gorm.ErrRecordNotFound) {
		return NewNotFound(entity).WithCause(cause)
	}

	if errors.Is(cause, context.DeadlineExceeded) {
		return NewServiceUnavailableError("Database", cause).WithDetails(details)
	}

	var pgErr *pgconn.PgError
	if errors.As(cause, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return NewConflictError(entity, fieldFromConstraint(pgErr.TableName, pgErr.ConstraintName)).
				WithCause(cause).WithDetails(details)
		case pgForeignKeyViolation:
			return NewValidationError("", fmt.Sprintf("Invalid reference in %s", entity)).
				WithCause(cause).WithDetails(details)
		case pgNotNullViolation:
			return NewValidationError(pgErr.ColumnName, fmt.Sprintf("%s is required", pgErr.ColumnName)).
				WithCause(cause).WithDetails(details)
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		kind:       ErrInternal,
		Details:    details,
		Cause:      cause,
	}
}

// fieldFromConstraint recovers the column from the index names gorm and PostgreSQL generate:
// idx_<table>_<column>, uni_<table>_<column> and <table>_<column>_key.
func fieldFromConstraint(table, constraint string) string {
	name := constraint
	for _, prefix := range []string{"idx_" + table + "_", "uni_" + table + "_", table + "_"} {
		if table != "" && strings.HasPrefix(name, prefix) {
			name = strings.TrimPrefix(name, prefix)
			break
		}
	}
	name = strings.TrimSuffix(name, "_key")
	if name == "" {
		return constraint
	}
	return name
}
