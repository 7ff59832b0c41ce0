package audit

import (
	"context"
	"net/http"
	"strconv"

	"tourbooking/internal/api"
	"tourbooking/internal/apperr"
	"tourbooking/internal/identity"
)

type Lister interface {
	List(ctx context.Context, limit int) ([]Entry, error)
}

type Handlers struct {
	Entries Lister
}

// List serves the admin audit trail.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	if err := identity.RequireAdmin(api.ActorFromContext(r.Context())); err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.Entries.List(r.Context(), limit)
	if err != nil {
		api.WriteAppError(w, r, apperr.FromStore(err, "audit log"))
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}
