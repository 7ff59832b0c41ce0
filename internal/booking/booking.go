package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	PackageID        string          `json:"packageId"`
	TravelDate       *string         `json:"travelDate,omitempty"`
	BookingDate      time.Time       `json:"bookingDate"`
	Status           Status          `json:"status"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	PaymentMethod    *string         `json:"paymentMethod,omitempty"`
	PaymentReference *string         `json:"paymentReference,omitempty"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`

	PackageTitle    string `json:"packageTitle,omitempty"`
	PackageLocation string `json:"packageLocation,omitempty"`
	UserName        string `json:"userName,omitempty"`
	UserEmail       string `json:"userEmail,omitempty"`
}

// Details is what a user supplies when booking. Status is accepted so older
// clients keep working, and ignored.
type Details struct {
	TravelDate       string `json:"travelDate" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod    string `json:"paymentMethod" validate:"omitempty,max=64"`
	PaymentReference string `json:"paymentReference" validate:"omitempty,max=128"`
	Status           string `json:"status,omitempty"`
}

type NewBooking struct {
	UserID           string
	PackageID        string
	TravelDate       *string
	Status           Status
	PaymentStatus    PaymentStatus
	PaymentMethod    *string
	PaymentReference *string
	TotalAmount      decimal.Decimal
}

// PaymentUpdate is reported by the payment provider. Empty method or
// reference leave the stored value unchanged.
type PaymentUpdate struct {
	Status    PaymentStatus
	Method    string
	Reference string
}

type AdminList struct {
	Items        []Booking `json:"items"`
	PendingCount int       `json:"pendingCount"`
}

func CountPending(bs []Booking) int {
	n := 0
	for _, b := range bs {
		if b.Status == StatusPending {
			n++
		}
	}
	return n
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
