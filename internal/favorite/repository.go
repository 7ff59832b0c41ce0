package favorite

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"tourbooking/internal/catalog"
	"tourbooking/pkg/db"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Set locks the (user, package) pair, hands its current presence to decide and
// stores decide's answer, all in one transaction. It reports whether the
// favorite is present afterwards. The advisory lock serializes callers on the
// same pair, so two concurrent toggles always see each other's result.
func (r *Repository) Set(ctx context.Context, userID, packageID string, decide func(present bool) bool) (bool, error) {
	var present bool
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1 || ':' || $2, 0))`, userID, packageID); err != nil {
			return err
		}
		var was bool
		if err := tx.QueryRow(ctx, existsQuery, userID, packageID).Scan(&was); err != nil {
			return err
		}

		want := decide(was)
		switch {
		case want && !was:
			if err := insert(ctx, tx, userID, packageID); err != nil {
				return err
			}
		case !want && was:
			if _, err := tx.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND package_id = $2`, userID, packageID); err != nil {
				return err
			}
		}
		present = want
		return nil
	})
	return present, err
}

const existsQuery = `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND package_id = $2)`

func (r *Repository) Exists(ctx context.Context, userID, packageID string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, existsQuery, userID, packageID).Scan(&ok)
	return ok, err
}

func (r *Repository) ListPackageIDs(ctx context.Context, userID string) ([]string, error) {
	const q = `SELECT package_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *Repository) ListPackages(ctx context.Context, userID string) ([]catalog.Package, error) {
	const q = `
SELECT p.id, p.title, p.location, p.description, p.price::text, p.duration, p.image_url, p.created_at, p.updated_at
FROM favorites f
JOIN packages p ON p.id = f.package_id
WHERE f.user_id = $1
ORDER BY f.created_at DESC
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []catalog.Package{}
	for rows.Next() {
		var p catalog.Package
		var price string
		if err := rows.Scan(&p.ID, &p.Title, &p.Location, &p.Description, &price, &p.Duration, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func insert(ctx context.Context, tx pgx.Tx, userID, packageID string) error {
	const q = `
INSERT INTO favorites (user_id, package_id)
VALUES ($1, $2)
ON CONFLICT (user_id, package_id) DO NOTHING
`
	_, err := tx.Exec(ctx, q, userID, packageID)
	return err
}
