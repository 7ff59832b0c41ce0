package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf_UnwrapsThroughFmt(t *testing.T) {
	err := fmt.Errorf("toggle: %w", Unauthenticated())
	assert.Equal(t, KindUnauthenticated, KindOf(err))
	assert.True(t, Is(err, KindUnauthenticated))
	assert.False(t, Is(nil, KindUnauthenticated))
}

func TestKindOf_UnknownIsStore(t *testing.T) {
	assert.Equal(t, KindStore, KindOf(errors.New("boom")))
}

func TestValidation_DefaultCode(t *testing.T) {
	e := Validation("", "bad input", FieldError{Field: "rating", Message: "must be between 1 and 5"})
	assert.Equal(t, "VALIDATION_FAILED", e.Code)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "rating", e.Fields[0].Field)
}

func TestFromStore(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"no rows", pgx.ErrNoRows, KindNotFound},
		{"fk", &pgconn.PgError{Code: "23503"}, KindNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, KindConflict},
		{"check", &pgconn.PgError{Code: "23514", ConstraintName: "reviews_rating_check"}, KindValidation},
		{"other pg", &pgconn.PgError{Code: "57014"}, KindStore},
		{"plain", errors.New("conn reset"), KindStore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromStore(fmt.Errorf("query: %w", tc.err), "package")
			assert.Equal(t, tc.want, KindOf(got))
		})
	}
}

func TestFromStore_KeepsTaxonomyErrors(t *testing.T) {
	in := Conflict("PACKAGE_IN_USE", "in use")
	assert.Same(t, in, FromStore(in, "package"))
	assert.Nil(t, FromStore(nil, "package"))
}
