package booking

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"tourbooking/internal/apperr"
	"tourbooking/internal/audit"
	"tourbooking/internal/events"
	"tourbooking/pkg/db"
)

const bookingSelect = `
SELECT b.id, b.user_id, b.package_id, b.travel_date::text, b.booking_date, b.status, b.payment_status,
       b.payment_method, b.payment_reference, b.total_amount::text, b.created_at, b.updated_at,
       COALESCE(p.title, ''), COALESCE(p.location, ''), COALESCE(pr.name, ''), COALESCE(pr.email, '')
FROM bookings b
LEFT JOIN packages p ON p.id = b.package_id
LEFT JOIN profiles pr ON pr.id = b.user_id
`

type Repository struct {
	db     *pgxpool.Pool
	events *events.Repository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db, events: events.NewRepository(db)}
}

func (r *Repository) Insert(ctx context.Context, nb NewBooking) (*Booking, error) {
	const q = `
INSERT INTO bookings (user_id, package_id, travel_date, status, payment_status, payment_method, payment_reference, total_amount)
VALUES ($1, $2, CAST($3 AS date), $4, $5, $6, $7, $8)
RETURNING id
`
	var out *Booking
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var id string
		if err := tx.QueryRow(ctx, q,
			nb.UserID, nb.PackageID, nb.TravelDate, string(nb.Status), string(nb.PaymentStatus),
			nb.PaymentMethod, nb.PaymentReference, nb.TotalAmount.StringFixed(2),
		).Scan(&id); err != nil {
			return err
		}
		if err := events.Insert(ctx, tx, id, events.TypeBookingCreated, "Booking requested", "user", time.Now(),
			map[string]any{"userId": nb.UserID, "packageId": nb.PackageID, "totalAmount": nb.TotalAmount.StringFixed(2)}); err != nil {
			return err
		}
		b, err := getTx(ctx, tx, id)
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}

func (r *Repository) Get(ctx context.Context, id string) (*Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, bookingSelect+`WHERE b.id = $1`, id))
	if err != nil {
		return nil, apperr.FromStore(err, "booking")
	}
	return b, nil
}

// SetStatus moves booking id to next under a row lock once guard accepts the
// locked current status. Of two racing admins only the first passes the guard.
func (r *Repository) SetStatus(ctx context.Context, actorID, id string, next Status, guard func(current Status) error) (*Booking, error) {
	var out *Booking
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		current, err := GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := guard(current); err != nil {
			return err
		}
		if err := UpdateStatus(ctx, tx, id, next); err != nil {
			return err
		}

		change := map[string]any{"from": current, "to": next, "by": actorID}
		if err := audit.Insert(ctx, tx, actorID, audit.ActionBookingStatusChanged, "booking", id, change); err != nil {
			return err
		}
		if err := events.Insert(ctx, tx, id, events.TypeStatusChanged, "Status changed to "+string(next), "admin", time.Now(), change); err != nil {
			return err
		}

		b, err := getTx(ctx, tx, id)
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err, "booking")
	}
	return out, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]Booking, error) {
	return r.list(ctx, bookingSelect+`ORDER BY b.created_at DESC, b.id`)
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	return r.list(ctx, bookingSelect+`
WHERE b.user_id = $1
ORDER BY COALESCE(b.travel_date, (b.booking_date AT TIME ZONE 'UTC')::date) DESC, b.created_at DESC
`, userID)
}

func (r *Repository) Events(ctx context.Context, bookingID string) ([]events.Event, error) {
	return r.events.ListByBooking(ctx, bookingID)
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]Booking, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (Status, error) {
	const q = `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`
	var s string
	if err := tx.QueryRow(ctx, q, id).Scan(&s); err != nil {
		return "", err
	}
	return ParseStatus(s)
}

func UpdateStatus(ctx context.Context, tx pgx.Tx, id string, next Status) error {
	const q = `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := tx.Exec(ctx, q, id, string(next))
	return err
}

// ApplyPayment records a provider payment update inside tx. It reports
// whether anything changed; updates that would leave a completed payment are
// ignored. Booking status is never touched.
func ApplyPayment(ctx context.Context, tx pgx.Tx, id string, u PaymentUpdate) (bool, error) {
	var cur string
	if err := tx.QueryRow(ctx, `SELECT payment_status FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&cur); err != nil {
		return false, err
	}
	from := PaymentStatus(cur)
	if !CanTransitionPayment(from, u.Status) {
		return false, nil
	}

	const q = `
UPDATE bookings
SET payment_status = $2,
    payment_method = COALESCE($3, payment_method),
    payment_reference = COALESCE($4, payment_reference),
    updated_at = NOW()
WHERE id = $1
`
	if _, err := tx.Exec(ctx, q, id, string(u.Status), optional(u.Method), optional(u.Reference)); err != nil {
		return false, err
	}

	change := map[string]any{"from": from, "to": u.Status, "reference": u.Reference}
	if err := audit.Insert(ctx, tx, "", audit.ActionBookingPaymentApplied, "booking", id, change); err != nil {
		return false, err
	}
	if err := events.Insert(ctx, tx, id, events.TypePaymentUpdated, "Payment "+string(u.Status), "payment-webhook", time.Now(), change); err != nil {
		return false, err
	}
	return true, nil
}

func getTx(ctx context.Context, tx pgx.Tx, id string) (*Booking, error) {
	return scanBooking(tx.QueryRow(ctx, bookingSelect+`WHERE b.id = $1`, id))
}

func scanBooking(row pgx.Row) (*Booking, error) {
	b := &Booking{}
	var status, payStatus, total string
	if err := row.Scan(
		&b.ID, &b.UserID, &b.PackageID, &b.TravelDate, &b.BookingDate, &status, &payStatus,
		&b.PaymentMethod, &b.PaymentReference, &total, &b.CreatedAt, &b.UpdatedAt,
		&b.PackageTitle, &b.PackageLocation, &b.UserName, &b.UserEmail,
	); err != nil {
		return nil, err
	}
	b.Status = Status(status)
	b.PaymentStatus = PaymentStatus(payStatus)
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	b.TotalAmount = d
	return b, nil
}
