package http

import (
	"net/http"
	"time"

	"github.com/peerhub/peerhub/internal/utils"
	"github.com/peerhub/peerhub/models"
)

const (
	defaultPageLimit = 20
	suggestionLimit  = 4
)

// getAccount returns the authenticated account.
func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	accountUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	account, err := h.services.AccountService.GetActiveByUUID(r.Context(), accountUUID)
	if err != nil {
		respondError(w, r, err, "error getting account")
		return
	}

	utils.WriteJSON(w, models.NewAccountResponse(account), http.StatusOK)
}

// deleteAccount removes the account and everything attached to it: written
// reviews, watchlist entries and the cached profile snapshot. The session
// cookie is expired so the browser drops it immediately.
func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	accountUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.FeedService.DeleteAccount(r.Context(), accountUUID); err != nil {
		respondError(w, r, err, "error deleting account")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})

	utils.WriteJSON(w, models.MessageResponse{Message: "account deleted"}, http.StatusOK)
}

// getMyReviews lists the reviews the authenticated account has written,
// newest-first, with full identity regardless of anonymity.
func (h *Handler) getMyReviews(w http.ResponseWriter, r *http.Request) {
	accountUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	limit := queryInt(r, "limit", defaultPageLimit)
	offset := queryInt(r, "offset", 0)

	items, hasMore, err := h.services.FeedService.GetMyReviews(r.Context(), accountUUID, limit, offset)
	if err != nil {
		respondError(w, r, err, "error getting own reviews")
		return
	}

	resp := models.PaginatedReviewsResponse{
		Items:   make([]models.ReviewResponse, 0, len(items)),
		HasMore: hasMore,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, models.NewOwnReviewResponse(item))
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// getActivityFeed returns the merged activity feed of the authenticated
// account. The `filter` query parameter selects the scope: "all" (default),
// "mine" or "watching".
func (h *Handler) getActivityFeed(w http.ResponseWriter, r *http.Request) {
	accountUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	filter := r.URL.Query().Get("filter")
	limit := queryInt(r, "limit", defaultPageLimit)
	offset := queryInt(r, "offset", 0)

	items, hasMore, err := h.services.FeedService.GetActivityFeed(r.Context(), accountUUID, filter, limit, offset)
	if err != nil {
		respondError(w, r, err, "error getting activity feed")
		return
	}

	resp := models.PaginatedActivityFeedResponse{
		Items:   make([]models.ActivityFeedItemResponse, 0, len(items)),
		HasMore: hasMore,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, models.NewActivityFeedItemResponse(item))
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}
