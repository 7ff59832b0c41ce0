package apperr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// FromStore translates a pgx error into the taxonomy. entity names what was
// being read or written, for NotFound messages.
func FromStore(err error, entity string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: entity + " not found", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "referenced record not found", Err: err}
		case pgUniqueViolation:
			return &Error{Kind: KindConflict, Code: "CONFLICT", Message: entity + " already exists", Err: err}
		case pgCheckViolation:
			return &Error{Kind: KindValidation, Code: "VALIDATION_FAILED", Message: "value rejected by store: " + pgErr.ConstraintName, Err: err}
		}
	}
	return Store(err)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsForeignKeyViolation reports whether err is a Postgres foreign key failure.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
