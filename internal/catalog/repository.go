package catalog

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"tourbooking/internal/apperr"
	"tourbooking/internal/audit"
	"tourbooking/pkg/db"
)

const packageColumns = `id, title, location, description, price::text, duration, image_url, created_at, updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context, q Query) ([]Package, error) {
	const sql = `
SELECT ` + packageColumns + `
FROM packages
WHERE $1 = '' OR title ILIKE $2 OR location ILIKE $2 OR description ILIKE $2
ORDER BY created_at DESC, id
LIMIT NULLIF($3::int, 0)
`
	search := strings.TrimSpace(q.Search)
	rows, err := r.db.Query(ctx, sql, search, "%"+escapeLike(search)+"%", q.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id string) (*Package, error) {
	const q = `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`
	p, err := scanPackage(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, apperr.FromStore(err, "package")
	}
	return p, nil
}

func (r *Repository) Insert(ctx context.Context, actorID string, in Input) (*Package, error) {
	const q = `
INSERT INTO packages (title, location, description, price, duration, image_url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + packageColumns

	var out *Package
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		p, err := scanPackage(tx.QueryRow(ctx, q, in.Title, in.Location, in.Description, in.Price.StringFixed(2), in.Duration, in.ImageURL))
		if err != nil {
			return err
		}
		out = p
		return audit.Insert(ctx, tx, actorID, audit.ActionPackageCreated, "package", p.ID, map[string]any{"title": p.Title})
	})
	if err != nil {
		return nil, apperr.FromStore(err, "package")
	}
	return out, nil
}

// Update overwrites every mutable field.
func (r *Repository) Update(ctx context.Context, actorID, id string, in Input) (*Package, error) {
	const q = `
UPDATE packages
SET title = $2, location = $3, description = $4, price = $5, duration = $6, image_url = $7, updated_at = NOW()
WHERE id = $1
RETURNING ` + packageColumns

	var out *Package
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		p, err := scanPackage(tx.QueryRow(ctx, q, id, in.Title, in.Location, in.Description, in.Price.StringFixed(2), in.Duration, in.ImageURL))
		if err != nil {
			return err
		}
		out = p
		return audit.Insert(ctx, tx, actorID, audit.ActionPackageUpdated, "package", p.ID, map[string]any{"title": p.Title})
	})
	if err != nil {
		return nil, apperr.FromStore(err, "package")
	}
	return out, nil
}

// Delete removes package id once allow accepts its dependent counts. The row
// lock blocks concurrent inserts of favorites, bookings or reviews for it until
// the tx ends, so the counts allow sees are still current at delete time.
func (r *Repository) Delete(ctx context.Context, actorID, id string, allow func(Dependents) error) error {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var title string
		if err := tx.QueryRow(ctx, `SELECT title FROM packages WHERE id = $1 FOR UPDATE`, id).Scan(&title); err != nil {
			return err
		}

		const qDeps = `
SELECT
  (SELECT COUNT(*) FROM bookings WHERE package_id = $1),
  (SELECT COUNT(*) FROM favorites WHERE package_id = $1),
  (SELECT COUNT(*) FROM reviews WHERE package_id = $1)
`
		var d Dependents
		if err := tx.QueryRow(ctx, qDeps, id).Scan(&d.Bookings, &d.Favorites, &d.Reviews); err != nil {
			return err
		}
		if err := allow(d); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM packages WHERE id = $1`, id); err != nil {
			if apperr.IsForeignKeyViolation(err) {
				return inUse(d)
			}
			return err
		}
		return audit.Insert(ctx, tx, actorID, audit.ActionPackageDeleted, "package", id, map[string]any{"title": title})
	})
	return apperr.FromStore(err, "package")
}

func scanPackage(row pgx.Row) (*Package, error) {
	p := &Package{}
	var price string
	if err := row.Scan(&p.ID, &p.Title, &p.Location, &p.Description, &price, &p.Duration, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Price = d
	return p, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
