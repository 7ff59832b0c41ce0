package review

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, userID, packageID string, in Input) (*Review, error) {
	const q = `
WITH inserted AS (
  INSERT INTO reviews (user_id, package_id, rating, comment)
  VALUES ($1, $2, $3, $4)
  RETURNING id, user_id, package_id, rating, comment, created_at
)
SELECT i.id, i.user_id, i.package_id, i.rating, i.comment, i.created_at, COALESCE(p.name, '')
FROM inserted i
LEFT JOIN profiles p ON p.id = i.user_id
`
	rv := &Review{}
	if err := r.db.QueryRow(ctx, q, userID, packageID, in.Rating, in.Comment).Scan(
		&rv.ID, &rv.UserID, &rv.PackageID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.AuthorName,
	); err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *Repository) ListByPackage(ctx context.Context, packageID string) ([]Review, error) {
	const q = `
SELECT r.id, r.user_id, r.package_id, r.rating, r.comment, r.created_at, COALESCE(p.name, ''), ''
FROM reviews r
LEFT JOIN profiles p ON p.id = r.user_id
WHERE r.package_id = $1
ORDER BY r.created_at DESC, r.id
`
	return r.list(ctx, q, packageID)
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Review, error) {
	const q = `
SELECT r.id, r.user_id, r.package_id, r.rating, r.comment, r.created_at, '', pk.title
FROM reviews r
JOIN packages pk ON pk.id = r.package_id
WHERE r.user_id = $1
ORDER BY r.created_at DESC, r.id
`
	return r.list(ctx, q, userID)
}

func (r *Repository) Ratings(ctx context.Context, packageID string) ([]int, error) {
	const q = `SELECT rating FROM reviews WHERE package_id = $1`
	rows, err := r.db.Query(ctx, q, packageID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}

func (r *Repository) list(ctx context.Context, q string, arg string) ([]Review, error) {
	rows, err := r.db.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.PackageID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.AuthorName, &rv.PackageTitle); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
