package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/peerhub/peerhub/internal/utils"
	"github.com/peerhub/peerhub/models"
)

// oauthURL returns the GitHub authorize URL the frontend should redirect
// to. The OAuth state is taken from the `state` query parameter when the
// frontend supplies its own, otherwise a random one is generated.
func (h *Handler) oauthURL(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		state = uuid.NewString()
	}

	url := h.services.GithubAuthService.AuthorizeURL(state)

	utils.WriteJSON(w, models.OAuthURLResponse{URL: url}, http.StatusOK)
}

// exchangeToken completes the OAuth flow: it exchanges the authorization
// code for a GitHub access token, signs the account in (creating or
// reactivating it) and issues the session JWT both as an HttpOnly cookie
// and in the response body.
func (h *Handler) exchangeToken(w http.ResponseWriter, r *http.Request) {
	var req models.ExchangeCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errInvalidRequestBody(err), "error decoding exchange-token request")
		return
	}

	ctx := r.Context()

	account, err := h.services.GithubAuthService.AuthenticateWithCode(ctx, req.Code)
	if err != nil {
		respondError(w, r, err, "error authenticating with github code")
		return
	}

	token, err := h.services.GithubAuthService.CreateToken(ctx, account)
	if err != nil {
		respondError(w, r, err, "error issuing session token")
		return
	}

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    token.SignedString,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if token.Token != nil {
		if expiresAt, err := token.Claims.GetExpirationTime(); err == nil && expiresAt != nil {
			cookie.Expires = expiresAt.Time
		}
	}
	http.SetCookie(w, cookie)

	utils.WriteJSON(w, models.TokenResponse{Token: token.SignedString}, http.StatusOK)
}

// getUser returns the profile of a GitHub username. An authenticated
// viewer is optional: with one, a stale cached snapshot is refreshed from
// GitHub using the viewer's token.
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewerUUID, _ := utils.GetAccountUUIDFromContext(r.Context())

	user, err := h.services.GithubAuthService.GetUser(r.Context(), username, viewerUUID, false)
	if err != nil {
		respondError(w, r, err, "error getting user profile")
		return
	}

	utils.WriteJSON(w, models.NewUserResponse(user), http.StatusOK)
}

// refreshUser force-refreshes the profile snapshot. Only the owner of the
// profile may refresh it.
func (h *Handler) refreshUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewerUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	user, err := h.services.GithubAuthService.RefreshUser(r.Context(), username, viewerUUID)
	if err != nil {
		respondError(w, r, err, "error refreshing user profile")
		return
	}

	utils.WriteJSON(w, models.NewUserResponse(user), http.StatusOK)
}

// searchUsers proxies a GitHub user search using the viewer's stored
// access token. A blank query returns an empty result set.
func (h *Handler) searchUsers(w http.ResponseWriter, r *http.Request) {
	viewerUUID, ok := utils.GetAccountUUIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	query := r.URL.Query().Get("q")

	users, err := h.services.GithubAuthService.SearchUsers(r.Context(), query, viewerUUID)
	if err != nil {
		respondError(w, r, err, "error searching github users")
		return
	}
	if users == nil {
		users = []models.UserSearchItem{}
	}

	utils.WriteJSON(w, models.UserSearchResponse{Users: users}, http.StatusOK)
}

// health reports service liveness.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, struct {
		Status string    `json:"status"`
		Time   time.Time `json:"time"`
	}{Status: "ok", Time: time.Now().UTC()}, http.StatusOK)
}
