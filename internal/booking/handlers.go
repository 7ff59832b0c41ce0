package booking

import (
	"net/http"

	"tourbooking/internal/api"
	"tourbooking/internal/identity"
)

type Handlers struct {
	Bookings *Service
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if err := identity.RequireUser(actor); err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	packageID, err := api.ParseID(r, "id")
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	var d Details
	if err := api.DecodeJSON(w, r, &d); err != nil {
		api.WriteAppError(w, r, err)
		return
	}

	b, err := h.Bookings.Create(r.Context(), actor, packageID, d)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"booking": b})
}

type PatchStatusRequest struct {
	Status string `json:"status"`
}

func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
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
	var req PatchStatusRequest
	if err := api.DecodeJSON(w, r, &req); err != nil {
		api.WriteAppError(w, r, err)
		return
	}

	b, err := h.Bookings.SetStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"booking": b})
}

func (h Handlers) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.Bookings.ListAll(r.Context(), api.ActorFromContext(r.Context()))
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, list)
}

func (h Handlers) ListMine(w http.ResponseWriter, r *http.Request) {
	items, err := h.Bookings.ListMine(r.Context(), api.ActorFromContext(r.Context()))
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := api.ParseID(r, "id")
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	b, err := h.Bookings.Get(r.Context(), api.ActorFromContext(r.Context()), id)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"booking": b})
}

func (h Handlers) Events(w http.ResponseWriter, r *http.Request) {
	id, err := api.ParseID(r, "id")
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	items, err := h.Bookings.Events(r.Context(), api.ActorFromContext(r.Context()), id)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}
