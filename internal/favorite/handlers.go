package favorite

import (
	"context"
	"net/http"

	"tourbooking/internal/api"
	"tourbooking/internal/identity"
)

type Handlers struct {
	Favorites *Service
}

func (h Handlers) Toggle(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.Favorites.Toggle)
}

func (h Handlers) Add(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.Favorites.Add)
}

func (h Handlers) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.Favorites.Remove)
}

// ListMine returns the caller's favorite package ids and the packages themselves.
func (h Handlers) ListMine(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	ids, err := h.Favorites.ListPackageIDs(r.Context(), actor)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	items, err := h.Favorites.ListPackages(r.Context(), actor)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"packageIds": ids, "items": items})
}

func (h Handlers) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor *identity.Actor, packageID string) (State, error)) {
	id, err := api.ParseID(r, "id")
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	st, err := op(r.Context(), api.ActorFromContext(r.Context()), id)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, st)
}
