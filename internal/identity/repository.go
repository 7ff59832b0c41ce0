package identity

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tourbooking/internal/apperr"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Ensure returns the profile for id, creating a non-admin one on first sight.
// Existing rows keep their admin flag; blank name/email are filled in.
func (r *Repository) Ensure(ctx context.Context, id, email, name string) (*Profile, error) {
	const q = `
INSERT INTO profiles (id, name, email)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET
  name = CASE WHEN profiles.name = '' THEN EXCLUDED.name ELSE profiles.name END,
  email = CASE WHEN profiles.email = '' THEN EXCLUDED.email ELSE profiles.email END,
  updated_at = NOW()
RETURNING id, name, email, is_admin, created_at
`
	p := &Profile{}
	if err := r.db.QueryRow(ctx, q, id, name, email).Scan(
		&p.ID, &p.Name, &p.Email, &p.IsAdmin, &p.CreatedAt,
	); err != nil {
		return nil, apperr.FromStore(err, "profile")
	}
	return p, nil
}

// SetAdmin is administration tooling; no HTTP route reaches it.
func (r *Repository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	const q = `UPDATE profiles SET is_admin = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id, isAdmin)
	if err != nil {
		return apperr.FromStore(err, "profile")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("profile", id)
	}
	return nil
}
