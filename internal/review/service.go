package review

import (
	"context"
	"strings"

	"tourbooking/internal/apperr"
	"tourbooking/internal/identity"
	"tourbooking/internal/metrics"
	"tourbooking/internal/validation"
)

type Store interface {
	Insert(ctx context.Context, userID, packageID string, in Input) (*Review, error)
	ListByPackage(ctx context.Context, packageID string) ([]Review, error)
	ListByUser(ctx context.Context, userID string) ([]Review, error)
	Ratings(ctx context.Context, packageID string) ([]int, error)
}

type Service struct {
	Store Store
}

func NewService(store Store) *Service {
	return &Service{Store: store}
}

// Submit appends a review. Input is validated before any store access, and
// out-of-range ratings are rejected rather than clamped. Repeat reviews of the
// same package by the same user are kept.
func (s *Service) Submit(ctx context.Context, actor *identity.Actor, packageID string, in Input) (*Review, error) {
	if err := identity.RequireUser(actor); err != nil {
		return nil, err
	}
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	rv, err := s.Store.Insert(ctx, actor.UserID, packageID, in)
	if err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return nil, apperr.NotFound("package", packageID)
		}
		return nil, apperr.FromStore(err, "review")
	}
	metrics.ReviewsSubmitted.Inc()
	return rv, nil
}

func (s *Service) ListByPackage(ctx context.Context, packageID string) ([]Review, error) {
	items, err := s.Store.ListByPackage(ctx, packageID)
	if err != nil {
		return nil, apperr.FromStore(err, "review")
	}
	return items, nil
}

func (s *Service) ListMine(ctx context.Context, actor *identity.Actor) ([]Review, error) {
	if err := identity.RequireUser(actor); err != nil {
		return nil, err
	}
	items, err := s.Store.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.FromStore(err, "review")
	}
	return items, nil
}

func (s *Service) Summary(ctx context.Context, packageID string) (Summary, error) {
	ratings, err := s.Store.Ratings(ctx, packageID)
	if err != nil {
		return Summary{}, apperr.FromStore(err, "review")
	}
	return Summarize(ratings), nil
}

// AverageRating is the mean rating of a package, 0 when it has no reviews.
func (s *Service) AverageRating(ctx context.Context, packageID string) (float64, error) {
	sum, err := s.Summary(ctx, packageID)
	return sum.Average, err
}
