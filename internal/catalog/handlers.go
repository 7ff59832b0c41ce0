package catalog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"tourbooking/internal/api"
	"tourbooking/internal/identity"
	"tourbooking/internal/review"
)

type RatingSummarizer interface {
	Summary(ctx context.Context, packageID string) (review.Summary, error)
}

type FavoriteChecker interface {
	IsFavorite(ctx context.Context, actor *identity.Actor, packageID string) (bool, error)
}

type Handlers struct {
	Packages  *Service
	Ratings   RatingSummarizer
	Favorites FavoriteChecker
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	q := Query{Search: r.URL.Query().Get("search")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "limit must be an integer")
			return
		}
		q.Limit = n
	}
	if strings.EqualFold(r.URL.Query().Get("featured"), "true") {
		q.Limit = FeaturedLimit
	}

	items, err := h.Packages.List(r.Context(), q)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Get returns a package with its rating summary, plus isFavorite for signed-in callers.
func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := api.ParseID(r, "id")
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	p, err := h.Packages.Get(r.Context(), id)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}

	resp := map[string]any{"package": p}
	if h.Ratings != nil {
		sum, err := h.Ratings.Summary(r.Context(), id)
		if err != nil {
			api.WriteAppError(w, r, err)
			return
		}
		resp["rating"] = sum
	}
	if actor := api.ActorFromContext(r.Context()); actor != nil && h.Favorites != nil {
		fav, err := h.Favorites.IsFavorite(r.Context(), actor, id)
		if err != nil {
			api.WriteAppError(w, r, err)
			return
		}
		resp["isFavorite"] = fav
	}
	api.WriteJSON(w, http.StatusOK, resp)
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if err := identity.RequireAdmin(actor); err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	var f Fields
	if err := api.DecodeJSON(w, r, &f); err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	p, err := h.Packages.Create(r.Context(), actor, f)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"package": p})
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if err := identity.RequireAdmin(actor); err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	id, err := api.ParseID(r, "id")
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	var f Fields
	if err := api.DecodeJSON(w, r, &f); err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	p, err := h.Packages.Update(r.Context(), actor, id, f)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"package": p})
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := api.ParseID(r, "id")
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	if err := h.Packages.Delete(r.Context(), api.ActorFromContext(r.Context()), id); err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
