package webhook

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"tourbooking/internal/api"
	"tourbooking/internal/booking"
	"tourbooking/internal/metrics"
	"tourbooking/pkg/logger"
)

const maxPayloadBytes = 1 << 20

type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

// Payload is the payment provider's callback body.
type Payload struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	BookingID   string `json:"bookingId"`
	Description string `json:"description"`
	Method      string `json:"method"`
	Reference   string `json:"reference"`
}

type Event struct {
	EventID     string
	PayloadHash string
	BookingID   string
	Update      booking.PaymentUpdate
}

type Processor interface {
	Process(ctx context.Context, ev Event) (Outcome, error)
}

type Handler struct {
	Secret    string
	Processor Processor
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid body")
		return
	}

	if !VerifySignature(body, strings.TrimSpace(r.Header.Get("X-Payment-Signature")), h.Secret) {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid webhook signature")
		return
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	payloadHash := sha256Hex(body)
	eventID := strings.TrimSpace(r.Header.Get("X-Payment-Event-Id"))
	if eventID == "" {
		eventID = strings.TrimSpace(p.ID)
	}
	if eventID == "" {
		// Fallback idempotency key when the provider sends no event id.
		eventID = payloadHash
	}

	status, ok := PaymentStatusFor(NormalizeTopic(p.Type))
	bookingID := resolveBookingID(p)
	if !ok || bookingID == "" {
		logger.Debug(r.Context()).Str("event_id", eventID).Str("type", p.Type).Msg("payment webhook ignored")
		h.done(w, OutcomeIgnored)
		return
	}

	outcome, err := h.Processor.Process(r.Context(), Event{
		EventID:     eventID,
		PayloadHash: payloadHash,
		BookingID:   bookingID,
		Update:      booking.PaymentUpdate{Status: status, Method: strings.TrimSpace(p.Method), Reference: strings.TrimSpace(p.Reference)},
	})
	if err != nil {
		// Nothing was committed; a non-2xx makes the provider retry.
		logger.Error(r.Context()).Err(err).Str("event_id", eventID).Str("booking_id", bookingID).Msg("payment webhook failed")
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	logger.Info(r.Context()).Str("event_id", eventID).Str("booking_id", bookingID).Str("outcome", string(outcome)).Msg("payment webhook processed")
	h.done(w, outcome)
}

func (h Handler) done(w http.ResponseWriter, outcome Outcome) {
	metrics.PaymentEvents.WithLabelValues(string(outcome)).Inc()
	api.WriteJSON(w, http.StatusOK, map[string]any{"outcome": outcome})
}

// resolveBookingID prefers the explicit field and falls back to the
// booking_id token in the description. Non-UUID values are dropped.
func resolveBookingID(p Payload) string {
	raw := strings.TrimSpace(p.BookingID)
	if raw == "" {
		raw = ParseKeyFromNote(p.Description, "booking_id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
