package booking

import (
	"context"
	"strings"

	"tourbooking/internal/apperr"
	"tourbooking/internal/catalog"
	"tourbooking/internal/events"
	"tourbooking/internal/identity"
	"tourbooking/internal/metrics"
	"tourbooking/internal/validation"
)

type Store interface {
	Insert(ctx context.Context, nb NewBooking) (*Booking, error)
	Get(ctx context.Context, id string) (*Booking, error)
	SetStatus(ctx context.Context, actorID, id string, next Status, guard func(current Status) error) (*Booking, error)
	ListAll(ctx context.Context) ([]Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	Events(ctx context.Context, bookingID string) ([]events.Event, error)
}

type PackageLookup interface {
	Get(ctx context.Context, id string) (*catalog.Package, error)
}

type Service struct {
	Store    Store
	Packages PackageLookup
}

func NewService(store Store, packages PackageLookup) *Service {
	return &Service{Store: store, Packages: packages}
}

// Create books packageID for the actor. The booking always starts pending
// with a pending payment, priced at the package's current price.
func (s *Service) Create(ctx context.Context, actor *identity.Actor, packageID string, d Details) (*Booking, error) {
	if err := identity.RequireUser(actor); err != nil {
		return nil, err
	}
	d.TravelDate = strings.TrimSpace(d.TravelDate)
	d.PaymentMethod = strings.TrimSpace(d.PaymentMethod)
	d.PaymentReference = strings.TrimSpace(d.PaymentReference)
	if err := validation.Struct(d); err != nil {
		return nil, err
	}

	pkg, err := s.Packages.Get(ctx, packageID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, packageNotFound(packageID)
		}
		return nil, err
	}

	b, err := s.Store.Insert(ctx, NewBooking{
		UserID:           actor.UserID,
		PackageID:        pkg.ID,
		TravelDate:       optional(d.TravelDate),
		Status:           StatusPending,
		PaymentStatus:    PaymentPending,
		PaymentMethod:    optional(d.PaymentMethod),
		PaymentReference: optional(d.PaymentReference),
		TotalAmount:      pkg.Price.Round(2),
	})
	if err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return nil, packageNotFound(packageID)
		}
		return nil, apperr.FromStore(err, "booking")
	}
	metrics.BookingsCreated.Inc()
	return b, nil
}

// SetStatus confirms or rejects a pending booking. Admin only.
func (s *Service) SetStatus(ctx context.Context, actor *identity.Actor, id, target string) (*Booking, error) {
	if err := identity.RequireAdmin(actor); err != nil {
		return nil, err
	}
	next, err := ParseStatus(strings.TrimSpace(target))
	if err != nil || (next != StatusConfirmed && next != StatusRejected) {
		return nil, apperr.Validation("", "status must be confirmed or rejected",
			apperr.FieldError{Field: "status", Message: "must be one of confirmed rejected"})
	}

	var from Status
	b, err := s.Store.SetStatus(ctx, actor.UserID, id, next, func(current Status) error {
		from = current
		return checkTransition(current, next)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "booking")
	}
	metrics.BookingTransitions.WithLabelValues(string(from), string(next)).Inc()
	return b, nil
}

// checkTransition is evaluated against the stored status while it is locked.
func checkTransition(current, next Status) error {
	if !CanTransition(current, next) {
		return apperr.InvalidTransition(string(current), string(next))
	}
	return nil
}

// ListAll returns every booking, newest first, with the pending count. Admin only.
func (s *Service) ListAll(ctx context.Context, actor *identity.Actor) (*AdminList, error) {
	if err := identity.RequireAdmin(actor); err != nil {
		return nil, err
	}
	items, err := s.Store.ListAll(ctx)
	if err != nil {
		return nil, apperr.FromStore(err, "booking")
	}
	return &AdminList{Items: items, PendingCount: CountPending(items)}, nil
}

func (s *Service) ListMine(ctx context.Context, actor *identity.Actor) ([]Booking, error) {
	if err := identity.RequireUser(actor); err != nil {
		return nil, err
	}
	items, err := s.Store.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.FromStore(err, "booking")
	}
	return items, nil
}

// Get returns a booking to its owner or an admin. Anyone else sees NotFound.
func (s *Service) Get(ctx context.Context, actor *identity.Actor, id string) (*Booking, error) {
	if err := identity.RequireUser(actor); err != nil {
		return nil, err
	}
	b, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "booking")
	}
	if !actor.CanSee(b.UserID) {
		return nil, apperr.NotFound("booking", id)
	}
	return b, nil
}

func (s *Service) Events(ctx context.Context, actor *identity.Actor, id string) ([]events.Event, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	evs, err := s.Store.Events(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "booking event")
	}
	return evs, nil
}

func packageNotFound(id string) error {
	return apperr.Validation("PACKAGE_NOT_FOUND", "package "+id+" does not exist",
		apperr.FieldError{Field: "packageId", Message: "does not exist"})
}
