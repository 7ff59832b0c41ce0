package favorite

import (
	"context"

	"tourbooking/internal/apperr"
	"tourbooking/internal/catalog"
	"tourbooking/internal/identity"
	"tourbooking/internal/metrics"
)

type State struct {
	Present bool `json:"present"`
}

type Store interface {
	Set(ctx context.Context, userID, packageID string, decide func(present bool) bool) (bool, error)
	Exists(ctx context.Context, userID, packageID string) (bool, error)
	ListPackageIDs(ctx context.Context, userID string) ([]string, error)
	ListPackages(ctx context.Context, userID string) ([]catalog.Package, error)
}

type Service struct {
	Store Store
}

func NewService(store Store) *Service {
	return &Service{Store: store}
}

// Toggle removes the favorite if present, adds it otherwise.
func (s *Service) Toggle(ctx context.Context, actor *identity.Actor, packageID string) (State, error) {
	st, err := s.set(ctx, actor, packageID, flip)
	if err != nil {
		return State{}, err
	}
	result := "removed"
	if st.Present {
		result = "added"
	}
	metrics.FavoriteToggles.WithLabelValues(result).Inc()
	return st, nil
}

// Add is idempotent.
func (s *Service) Add(ctx context.Context, actor *identity.Actor, packageID string) (State, error) {
	return s.set(ctx, actor, packageID, func(bool) bool { return true })
}

// Remove is idempotent.
func (s *Service) Remove(ctx context.Context, actor *identity.Actor, packageID string) (State, error) {
	return s.set(ctx, actor, packageID, func(bool) bool { return false })
}

func (s *Service) set(ctx context.Context, actor *identity.Actor, packageID string, decide func(present bool) bool) (State, error) {
	if err := identity.RequireUser(actor); err != nil {
		return State{}, err
	}
	present, err := s.Store.Set(ctx, actor.UserID, packageID, decide)
	if err != nil {
		return State{}, storeErr(err, packageID)
	}
	return State{Present: present}, nil
}

func flip(present bool) bool { return !present }

func (s *Service) IsFavorite(ctx context.Context, actor *identity.Actor, packageID string) (bool, error) {
	if err := identity.RequireUser(actor); err != nil {
		return false, err
	}
	ok, err := s.Store.Exists(ctx, actor.UserID, packageID)
	if err != nil {
		return false, apperr.FromStore(err, "favorite")
	}
	return ok, nil
}

func (s *Service) ListPackageIDs(ctx context.Context, actor *identity.Actor) ([]string, error) {
	if err := identity.RequireUser(actor); err != nil {
		return nil, err
	}
	ids, err := s.Store.ListPackageIDs(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.FromStore(err, "favorite")
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (s *Service) ListPackages(ctx context.Context, actor *identity.Actor) ([]catalog.Package, error) {
	if err := identity.RequireUser(actor); err != nil {
		return nil, err
	}
	items, err := s.Store.ListPackages(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.FromStore(err, "favorite")
	}
	return items, nil
}

func storeErr(err error, packageID string) error {
	if apperr.IsForeignKeyViolation(err) {
		return apperr.NotFound("package", packageID)
	}
	return apperr.FromStore(err, "favorite")
}
