package webhook

import (
	"strings"

	"tourbooking/internal/booking"
)

// NormalizeTopic converts provider event types into a stable internal form.
// Examples:
// - "payment.completed" -> "payment_completed"
// - "Charge-Failed" -> "charge_failed"
func NormalizeTopic(topic string) string {
	t := strings.TrimSpace(strings.ToLower(topic))
	t = strings.ReplaceAll(t, "/", "_")
	t = strings.ReplaceAll(t, ".", "_")
	t = strings.ReplaceAll(t, "-", "_")
	for strings.Contains(t, "__") {
		t = strings.ReplaceAll(t, "__", "_")
	}
	return strings.Trim(t, "_")
}

// PaymentStatusFor maps a normalized event type to the payment status it
// reports. ok is false for events that carry no payment outcome.
func PaymentStatusFor(topic string) (booking.PaymentStatus, bool) {
	switch topic {
	case "payment_completed", "payment_succeeded", "charge_succeeded":
		return booking.PaymentCompleted, true
	case "payment_failed", "charge_failed":
		return booking.PaymentFailed, true
	default:
		return "", false
	}
}
