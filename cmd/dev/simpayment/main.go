package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"tourbooking/internal/webhook"
	"tourbooking/pkg/config"
)

// simpayment posts a signed payment callback to a running API.
func main() {
	var (
		url       = flag.String("url", "", "webhook endpoint url (defaults to http://localhost<HTTP_ADDR>/v1/webhooks/payments)")
		secret    = flag.String("secret", "", "PAYMENT_WEBHOOK_SECRET (defaults to env/.env)")
		bookingID = flag.String("booking", "", "booking id the payment is for")
		eventType = flag.String("type", "payment.completed", "event type (payment.completed, payment.failed)")
		method    = flag.String("method", "card", "payment method")
		reference = flag.String("reference", "", "provider payment reference")
		eventID   = flag.String("id", "", "event id; a unique one is generated when empty")
	)
	flag.Parse()

	cfg := config.Load()
	if *url == "" {
		addr := cfg.HTTPAddr
		if strings.HasPrefix(addr, ":") {
			*url = "http://localhost" + addr + "/v1/webhooks/payments"
		} else {
			*url = "http://localhost:8081/v1/webhooks/payments"
		}
	}
	if *secret == "" {
		*secret = cfg.PaymentWebhookSecret
	}
	if *secret == "" {
		fmt.Fprintln(os.Stderr, "missing -secret (or PAYMENT_WEBHOOK_SECRET in env/.env)")
		os.Exit(2)
	}
	if *bookingID == "" {
		fmt.Fprintln(os.Stderr, "missing -booking")
		os.Exit(2)
	}
	if *eventID == "" {
		*eventID = fmt.Sprintf("simpayment-%d", time.Now().UnixNano())
	}
	if *reference == "" {
		*reference = "sim_" + *eventID
	}

	body, _ := json.Marshal(webhook.Payload{
		ID:          *eventID,
		Type:        *eventType,
		BookingID:   *bookingID,
		Description: "Tour booking: booking_id=" + *bookingID,
		Method:      *method,
		Reference:   *reference,
	})

	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "new request: %v\n", err)
		os.Exit(2)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Payment-Signature", webhook.Sign(body, *secret))
	req.Header.Set("X-Payment-Event-Id", *eventID)

	resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "post: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	fmt.Printf("status=%d\n%s\n", resp.StatusCode, string(b))
}
