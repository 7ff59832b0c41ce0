package catalog

import (
	"context"

	"tourbooking/internal/apperr"
	"tourbooking/internal/identity"
	"tourbooking/internal/metrics"
)

const maxListLimit = 100

type Store interface {
	List(ctx context.Context, q Query) ([]Package, error)
	Get(ctx context.Context, id string) (*Package, error)
	Insert(ctx context.Context, actorID string, in Input) (*Package, error)
	Update(ctx context.Context, actorID, id string, in Input) (*Package, error)
	Delete(ctx context.Context, actorID, id string, allow func(Dependents) error) error
}

type Service struct {
	Store Store
}

func NewService(store Store) *Service {
	return &Service{Store: store}
}

// List returns packages newest first. A zero limit means no limit.
func (s *Service) List(ctx context.Context, q Query) ([]Package, error) {
	if q.Limit < 0 {
		return nil, apperr.Validation("", "limit must not be negative",
			apperr.FieldError{Field: "limit", Message: "must be at least 0"})
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}
	items, err := s.Store.List(ctx, q)
	if err != nil {
		return nil, apperr.FromStore(err, "package")
	}
	return items, nil
}

func (s *Service) Featured(ctx context.Context) ([]Package, error) {
	return s.List(ctx, Query{Limit: FeaturedLimit})
}

func (s *Service) Get(ctx context.Context, id string) (*Package, error) {
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "package")
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, actor *identity.Actor, f Fields) (*Package, error) {
	if err := identity.RequireAdmin(actor); err != nil {
		return nil, err
	}
	in, err := f.Validate()
	if err != nil {
		return nil, err
	}
	p, err := s.Store.Insert(ctx, actor.UserID, in)
	if err != nil {
		return nil, apperr.FromStore(err, "package")
	}
	metrics.CatalogMutations.WithLabelValues("create").Inc()
	return p, nil
}

// Update overwrites all mutable fields of package id.
func (s *Service) Update(ctx context.Context, actor *identity.Actor, id string, f Fields) (*Package, error) {
	if err := identity.RequireAdmin(actor); err != nil {
		return nil, err
	}
	in, err := f.Validate()
	if err != nil {
		return nil, err
	}
	p, err := s.Store.Update(ctx, actor.UserID, id, in)
	if err != nil {
		return nil, apperr.FromStore(err, "package")
	}
	metrics.CatalogMutations.WithLabelValues("update").Inc()
	return p, nil
}

// Delete refuses with PACKAGE_IN_USE while any booking, favorite or review
// references the package.
func (s *Service) Delete(ctx context.Context, actor *identity.Actor, id string) error {
	if err := identity.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, actor.UserID, id, refuseReferenced); err != nil {
		return apperr.FromStore(err, "package")
	}
	metrics.CatalogMutations.WithLabelValues("delete").Inc()
	return nil
}

// refuseReferenced allows a delete only when nothing references the package.
func refuseReferenced(d Dependents) error {
	if d.Total() > 0 {
		return inUse(d)
	}
	return nil
}

func inUse(d Dependents) error {
	e := apperr.Conflict("PACKAGE_IN_USE", "package has bookings, favorites or reviews")
	e.Details = map[string]any{"dependents": d}
	return e
}
