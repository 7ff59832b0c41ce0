package webhook

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourbooking/internal/apperr"
	"tourbooking/internal/booking"
	"tourbooking/pkg/db"
)

const provider = "payments"

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Process records the event and applies it in one tx. A replayed event id is
// reported as a duplicate without touching the booking.
func (r *Repository) Process(ctx context.Context, ev Event) (Outcome, error) {
	outcome := OutcomeIgnored
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertWebhookEvent(ctx, tx, ev.EventID, ev.PayloadHash); err != nil {
			if apperr.IsUniqueViolation(err) {
				outcome = OutcomeDuplicate
				return nil
			}
			return err
		}

		changed, err := booking.ApplyPayment(ctx, tx, ev.BookingID, ev.Update)
		if errors.Is(err, pgx.ErrNoRows) {
			// Unknown booking: keep the event row so provider retries stop here.
			return nil
		}
		if err != nil {
			return err
		}
		if changed {
			outcome = OutcomeApplied
		}
		return nil
	})
	return outcome, err
}

func insertWebhookEvent(ctx context.Context, tx pgx.Tx, eventID, payloadHash string) error {
	const q = `
INSERT INTO webhook_events (provider, event_id, payload_hash, processed_at)
VALUES ($1, $2, $3, NOW())
`
	_, err := tx.Exec(ctx, q, provider, eventID, payloadHash)
	return err
}
