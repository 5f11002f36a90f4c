package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/peerhub/peerhub/internal/utils"
	"github.com/peerhub/peerhub/models"
)

// watch subscribes the authenticated account to a username's review
// activity. Watching an already watched username is idempotent and returns
// the existing entry.
func (h *Handler) watch(w http.ResponseWriter, r *http.Request) {
	accountUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.WatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errInvalidRequestBody(err), "error decoding watch request")
		return
	}

	watch, err := h.services.WatchlistService.Watch(r.Context(), accountUUID, req.Username)
	if err != nil {
		respondError(w, r, err, "error adding watch")
		return
	}

	utils.WriteJSON(w, models.NewWatchResponse(models.WatchWithUser{Watch: watch}), http.StatusCreated)
}

// getWatchlist lists the authenticated account's watches newest-first,
// joined with the cached profiles of the watched users.
func (h *Handler) getWatchlist(w http.ResponseWriter, r *http.Request) {
	accountUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	limit := queryInt(r, "limit", defaultPageLimit)
	offset := queryInt(r, "offset", 0)

	items, err := h.services.FeedService.GetWatchlist(r.Context(), accountUUID, limit, offset)
	if err != nil {
		respondError(w, r, err, "error getting watchlist")
		return
	}

	resp := make([]models.WatchResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, models.NewWatchResponse(item))
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// checkWatch reports whether the authenticated account watches the
// username.
func (h *Handler) checkWatch(w http.ResponseWriter, r *http.Request) {
	accountUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")

	watching, err := h.services.WatchlistService.IsWatching(r.Context(), accountUUID, username)
	if err != nil {
		respondError(w, r, err, "error checking watch status")
		return
	}

	utils.WriteJSON(w, models.WatchStatusResponse{IsWatching: watching}, http.StatusOK)
}

// unwatch removes the watch entry; removing an absent one succeeds.
func (h *Handler) unwatch(w http.ResponseWriter, r *http.Request) {
	accountUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")

	if err := h.services.WatchlistService.Unwatch(r.Context(), accountUUID, username); err != nil {
		respondError(w, r, err, "error removing watch")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
