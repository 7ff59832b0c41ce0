package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"tourbooking/pkg/config"
)

func TestIsRetryable(t *testing.T) {
	serialization := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "40001"})
	if !IsRetryable(serialization) {
		t.Fatalf("expected serialization failure to be retryable")
	}
	if !IsRetryable(&pgconn.PgError{Code: "40P01"}) {
		t.Fatalf("expected deadlock to be retryable")
	}
	if IsRetryable(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("unique violation must not be retried")
	}
	if IsRetryable(errors.New("boom")) {
		t.Fatalf("plain errors must not be retried")
	}
}

func TestConnStrings_PreferURLs(t *testing.T) {
	cfg := config.Config{
		DB: config.DBConfig{User: "u", Password: "p", Host: "h", Port: "5432", Name: "n"},
	}
	if got := runtimeConnString(cfg); got != "postgres://u:p@h:5432/n?sslmode=disable" {
		t.Fatalf("unexpected dsn: %s", got)
	}

	cfg.DatabaseURL = "postgres://pooler/db?pgbouncer=true"
	if got := migrationConnString(cfg); got != cfg.DatabaseURL {
		t.Fatalf("expected migrations to fall back to DATABASE_URL, got %s", got)
	}

	cfg.DirectURL = "postgres://direct/db"
	if got := migrationConnString(cfg); got != cfg.DirectURL {
		t.Fatalf("expected DIRECT_URL for migrations, got %s", got)
	}
}
