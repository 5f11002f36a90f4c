package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/peerhub/peerhub/internal/service"
	"github.com/peerhub/peerhub/internal/utils"
	"github.com/peerhub/peerhub/models"
)

// submitReview creates the authenticated account's review of a username or
// updates the existing one. A newly created review answers 201, an update
// answers 200; the body is the review with full reviewer identity either
// way.
func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	accountUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.CreateOrUpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errInvalidRequestBody(err), "error decoding review request")
		return
	}

	// normalize the comment at the boundary; the review service sanitizes
	// again before persisting
	if req.Comment != nil {
		sanitized := service.SanitizeComment(*req.Comment)
		if sanitized == "" {
			req.Comment = nil
		} else {
			req.Comment = &sanitized
		}
	}

	item, created, err := h.services.FeedService.SubmitReview(r.Context(), accountUUID, req)
	if err != nil {
		respondError(w, r, err, "error submitting review")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	utils.WriteJSON(w, models.NewOwnReviewResponse(item), status)
}

// getSuggestions returns ranked review suggestions drawn from the accounts
// the authenticated user follows on GitHub.
func (h *Handler) getSuggestions(w http.ResponseWriter, r *http.Request) {
	accountUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	limit := queryInt(r, "limit", suggestionLimit)

	suggestions, err := h.services.FeedService.GetSuggestions(r.Context(), accountUUID, limit)
	if err != nil {
		respondError(w, r, err, "error getting review suggestions")
		return
	}

	resp := make([]models.SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		resp = append(resp, models.NewSuggestionResponse(s))
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// getReviewsForUser lists the reviews a username has received. The viewer
// is optional: page owners see hidden comments, and on draft pages only the
// viewer's own review is visible.
func (h *Handler) getReviewsForUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewerUUID, _ := utils.GetAccountUUIDFromContext(r.Context())

	limit := queryInt(r, "limit", defaultPageLimit)
	offset := queryInt(r, "offset", 0)
	status := models.ReviewStatus(r.URL.Query().Get("status"))

	page, err := h.services.FeedService.GetReviewsForUser(r.Context(), username, viewerUUID, limit, offset, status)
	if err != nil {
		respondError(w, r, err, "error getting reviews for user")
		return
	}

	resp := models.PaginatedReviewsResponse{
		Items:   make([]models.ReviewResponse, 0, len(page.Items)),
		HasMore: page.HasMore,
	}
	for _, item := range page.Items {
		resp.Items = append(resp.Items, models.NewReviewResponse(item, page.IsPageOwner))
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// getReviewers lists everyone who reviewed the username, anonymous entries
// included but stripped of identity.
func (h *Handler) getReviewers(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewerUUID, _ := utils.GetAccountUUIDFromContext(r.Context())

	items, err := h.services.FeedService.GetReviewers(r.Context(), username, viewerUUID)
	if err != nil {
		respondError(w, r, err, "error getting reviewers")
		return
	}

	resp := make([]models.ReviewerSummaryResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, models.NewReviewerSummaryResponse(item))
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// deleteReview removes the authenticated account's review of a username.
func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	accountUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")

	if err := h.services.ReviewService.Delete(r.Context(), accountUUID, username); err != nil {
		respondError(w, r, err, "error deleting review")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toggleCommentHidden lets the owner of the reviewed page hide or unhide
// the comment of a review left on it.
func (h *Handler) toggleCommentHidden(w http.ResponseWriter, r *http.Request) {
	accountUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	reviewID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, r, errInvalidRequestBody(err), "invalid review id")
		return
	}

	var req models.ToggleCommentHiddenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errInvalidRequestBody(err), "error decoding visibility request")
		return
	}

	item, err := h.services.FeedService.ToggleCommentHidden(r.Context(), reviewID, accountUUID, req.Hidden)
	if err != nil {
		respondError(w, r, err, "error toggling comment visibility")
		return
	}

	utils.WriteJSON(w, models.NewReviewResponse(item, true), http.StatusOK)
}
