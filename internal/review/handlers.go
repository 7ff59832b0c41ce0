package review

import (
	"net/http"

	"tourbooking/internal/api"
	"tourbooking/internal/identity"
)

type Handlers struct {
	Reviews *Service
}

func (h Handlers) ListByPackage(w http.ResponseWriter, r *http.Request) {
	id, err := api.ParseID(r, "id")
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	items, err := h.Reviews.ListByPackage(r.Context(), id)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items, "summary": Summarize(ratingsOf(items))})
}

func (h Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if err := identity.RequireUser(actor); err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	id, err := api.ParseID(r, "id")
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	var in Input
	if err := api.DecodeJSON(w, r, &in); err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	rv, err := h.Reviews.Submit(r.Context(), actor, id, in)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"review": rv})
}

func (h Handlers) ListMine(w http.ResponseWriter, r *http.Request) {
	items, err := h.Reviews.ListMine(r.Context(), api.ActorFromContext(r.Context()))
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func ratingsOf(items []Review) []int {
	out := make([]int, len(items))
	for i, rv := range items {
		out[i] = rv.Rating
	}
	return out
}
