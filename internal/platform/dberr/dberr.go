// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Constraint naming
//
// Unique constraints are named "uq_<table>_<field>" in the migrations, which
// lets [Wrap] report a unique violation against the offending payload field.
package dberr

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// The action names the failing operation and only travels with the cause.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Resource")
	}

	// 2. Constraint violations are client errors
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			field := ConstraintField(pgErr.ConstraintName)
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   field,
				Message: "A record with this " + field + " already exists",
			})
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Related object does not exist")
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.StringDataRightTruncationDataException:
			return apperr.ValidationError("Invalid value: " + pgErr.ColumnName)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(&actionError{action: action, err: err})
}

// NotFound maps a missing row to a 404 naming resource, and wraps anything else.
func NotFound(err error, resource, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}
	return Wrap(err, action)
}

// IsUniqueViolation reports whether err is a unique violation of constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// ConstraintField extracts the field from a "uq_<table>_<field>" constraint name.
func ConstraintField(constraint string) string {
	name, found := strings.CutPrefix(constraint, "uq_")
	if !found {
		return "non_field_errors"
	}
	_, field, found := strings.Cut(name, "_")
	if !found || field == "" {
		return "non_field_errors"
	}
	return field
}

// actionError keeps the failing operation name next to the driver error in logs.
type actionError struct {
	action string
	err    error
}

func (e *actionError) Error() string { return e.action + ": " + e.err.Error() }
func (e *actionError) Unwrap() error { return e.err }
