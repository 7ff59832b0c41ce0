// Package dashboard composes a signed-in user's favorites, bookings and
// reviews into one response.
package dashboard

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"tourbooking/internal/api"
	"tourbooking/internal/booking"
	"tourbooking/internal/catalog"
	"tourbooking/internal/identity"
	"tourbooking/internal/review"
)

type FavoriteLister interface {
	ListPackages(ctx context.Context, actor *identity.Actor) ([]catalog.Package, error)
}

type BookingLister interface {
	ListMine(ctx context.Context, actor *identity.Actor) ([]booking.Booking, error)
}

type ReviewLister interface {
	ListMine(ctx context.Context, actor *identity.Actor) ([]review.Review, error)
}

type Dashboard struct {
	Profile   *identity.Actor   `json:"profile"`
	Favorites []catalog.Package `json:"favorites"`
	Bookings  []booking.Booking `json:"bookings"`
	Reviews   []review.Review   `json:"reviews"`
}

type Service struct {
	Favorites FavoriteLister
	Bookings  BookingLister
	Reviews   ReviewLister
}

// Load runs the three reads concurrently. The first failure cancels the rest.
func (s Service) Load(ctx context.Context, actor *identity.Actor) (*Dashboard, error) {
	if err := identity.RequireUser(actor); err != nil {
		return nil, err
	}

	d := &Dashboard{Profile: actor}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Favorites, err = s.Favorites.ListPackages(ctx, actor)
		return err
	})
	g.Go(func() error {
		var err error
		d.Bookings, err = s.Bookings.ListMine(ctx, actor)
		return err
	})
	g.Go(func() error {
		var err error
		d.Reviews, err = s.Reviews.ListMine(ctx, actor)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

type Handlers struct {
	Dashboard Service
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dashboard.Load(r.Context(), api.ActorFromContext(r.Context()))
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, d)
}

// Me returns the caller's profile as seen by the server.
func Me(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if err := identity.RequireUser(actor); err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"profile": actor})
}
