package models

import (
	"time"

	"github.com/google/uuid"
)

// OAuthURLResponse carries the GitHub authorize URL the frontend should
// redirect to.
type OAuthURLResponse struct {
	URL string `json:"url"`
}

// TokenResponse carries a freshly issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse is a minimal acknowledgment body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the uniform error body returned by the API.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// AccountResponse is the public shape of an [Account].
type AccountResponse struct {
	UUID      uuid.UUID  `json:"uuid"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// NewAccountResponse shapes an account for the API.
func NewAccountResponse(account Account) AccountResponse {
	return AccountResponse{
		UUID:      account.UUID,
		Username:  account.Username,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
		DeletedAt: account.DeletedAt,
	}
}

// ReviewResponse is the public shape of a review. Reviewer identity fields
// are pointers: null means the reviewer is anonymous (or unresolvable).
type ReviewResponse struct {
	ID                int64        `json:"id"`
	ReviewerUUID      *uuid.UUID   `json:"reviewer_uuid"`
	ReviewerUsername  *string      `json:"reviewer_username"`
	ReviewerAvatarURL *string      `json:"reviewer_avatar_url"`
	ReviewedUsername  string       `json:"reviewed_username"`
	Status            ReviewStatus `json:"status"`
	Comment           *string      `json:"comment"`
	Anonymous         bool         `json:"anonymous"`
	CommentHidden     bool         `json:"comment_hidden"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// NewReviewResponse shapes an enriched review for general read views:
// anonymous reviews lose all reviewer identity, and hidden comments are
// masked unless the viewer owns the reviewed page.
func NewReviewResponse(item ReviewWithIdentity, isPageOwner bool) ReviewResponse {
	review := item.Review

	var comment *string
	if review.Comment != "" && (!review.CommentHidden || isPageOwner) {
		comment = &review.Comment
	}

	resp := ReviewResponse{
		ID:               review.ID,
		ReviewedUsername: review.ReviewedUsername,
		Status:           review.Status,
		Comment:          comment,
		Anonymous:        review.Anonymous,
		CommentHidden:    review.CommentHidden,
		CreatedAt:        review.CreatedAt,
		UpdatedAt:        review.UpdatedAt,
	}

	if review.Anonymous {
		return resp
	}

	reviewerUUID := review.ReviewerUUID
	resp.ReviewerUUID = &reviewerUUID
	if item.ReviewerUsername != "" {
		username := item.ReviewerUsername
		resp.ReviewerUsername = &username
	}
	if item.ReviewerAvatarURL != "" {
		avatar := item.ReviewerAvatarURL
		resp.ReviewerAvatarURL = &avatar
	}

	return resp
}

// NewOwnReviewResponse shapes a review for the reviewer's own list, where
// full identity and comment are always visible regardless of anonymity.
func NewOwnReviewResponse(item ReviewWithIdentity) ReviewResponse {
	review := item.Review

	var comment *string
	if review.Comment != "" {
		comment = &review.Comment
	}

	reviewerUUID := review.ReviewerUUID
	resp := ReviewResponse{
		ID:               review.ID,
		ReviewerUUID:     &reviewerUUID,
		ReviewedUsername: review.ReviewedUsername,
		Status:           review.Status,
		Comment:          comment,
		Anonymous:        review.Anonymous,
		CommentHidden:    review.CommentHidden,
		CreatedAt:        review.CreatedAt,
		UpdatedAt:        review.UpdatedAt,
	}
	if item.ReviewerUsername != "" {
		username := item.ReviewerUsername
		resp.ReviewerUsername = &username
	}
	if item.ReviewerAvatarURL != "" {
		avatar := item.ReviewerAvatarURL
		resp.ReviewerAvatarURL = &avatar
	}

	return resp
}

// PaginatedReviewsResponse is a page of reviews plus the has-more marker.
type PaginatedReviewsResponse struct {
	Items   []ReviewResponse `json:"items"`
	HasMore bool             `json:"has_more"`
}

// ReviewerSummaryResponse is one entry in the reviewers sidebar.
type ReviewerSummaryResponse struct {
	ReviewerUsername  *string      `json:"reviewer_username"`
	ReviewerAvatarURL *string      `json:"reviewer_avatar_url"`
	Status            ReviewStatus `json:"status"`
	Anonymous         bool         `json:"anonymous"`
}

// NewReviewerSummaryResponse shapes an enriched review into a sidebar
// entry, hiding identity for anonymous reviews.
func NewReviewerSummaryResponse(item ReviewWithIdentity) ReviewerSummaryResponse {
	resp := ReviewerSummaryResponse{
		Status:    item.Review.Status,
		Anonymous: item.Review.Anonymous,
	}
	if item.Review.Anonymous {
		return resp
	}
	if item.ReviewerUsername != "" {
		username := item.ReviewerUsername
		resp.ReviewerUsername = &username
	}
	if item.ReviewerAvatarURL != "" {
		avatar := item.ReviewerAvatarURL
		resp.ReviewerAvatarURL = &avatar
	}
	return resp
}

// ActivityFeedItemResponse is one feed entry. Reviewer identity is null for
// anonymous reviews; the reviewed user's avatar is always present when
// cached.
type ActivityFeedItemResponse struct {
	ID                    int64        `json:"id"`
	ReviewerUsername      *string      `json:"reviewer_username"`
	ReviewerAvatarURL     *string      `json:"reviewer_avatar_url"`
	ReviewedUsername      string       `json:"reviewed_username"`
	ReviewedUserAvatarURL *string      `json:"reviewed_user_avatar_url"`
	Status                ReviewStatus `json:"status"`
	Comment               *string      `json:"comment"`
	Anonymous             bool         `json:"anonymous"`
	CommentHidden         bool         `json:"comment_hidden"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// NewActivityFeedItemResponse shapes a feed item. The engine has already
// stripped reviewer identity for anonymous reviews; hidden comments are
// masked here because the feed viewer is never the page owner check target.
func NewActivityFeedItemResponse(item ActivityFeedItem) ActivityFeedItemResponse {
	review := item.Review

	resp := ActivityFeedItemResponse{
		ID:               review.ID,
		ReviewedUsername: review.ReviewedUsername,
		Status:           review.Status,
		Anonymous:        review.Anonymous,
		CommentHidden:    review.CommentHidden,
		CreatedAt:        review.CreatedAt,
		UpdatedAt:        review.UpdatedAt,
	}
	if review.Comment != "" && !review.CommentHidden {
		comment := review.Comment
		resp.Comment = &comment
	}
	if item.ReviewerUsername != "" {
		username := item.ReviewerUsername
		resp.ReviewerUsername = &username
	}
	if item.ReviewerAvatarURL != "" {
		avatar := item.ReviewerAvatarURL
		resp.ReviewerAvatarURL = &avatar
	}
	if item.ReviewedUserAvatarURL != "" {
		avatar := item.ReviewedUserAvatarURL
		resp.ReviewedUserAvatarURL = &avatar
	}
	return resp
}

// PaginatedActivityFeedResponse is a page of feed entries.
type PaginatedActivityFeedResponse struct {
	Items   []ActivityFeedItemResponse `json:"items"`
	HasMore bool                       `json:"has_more"`
}

// WatchResponse is one entry of the watchlist, joined with the cached
// profile of the watched user.
type WatchResponse struct {
	ID               int64     `json:"id"`
	WatchedUsername  string    `json:"watched_username"`
	WatchedAvatarURL *string   `json:"watched_avatar_url"`
	WatchedName      *string   `json:"watched_name"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewWatchResponse shapes a watch with its cached profile.
func NewWatchResponse(item WatchWithUser) WatchResponse {
	resp := WatchResponse{
		ID:              item.Watch.ID,
		WatchedUsername: item.Watch.WatchedUsername,
		CreatedAt:       item.Watch.CreatedAt,
	}
	if item.User != nil {
		if item.User.AvatarURL != "" {
			avatar := item.User.AvatarURL
			resp.WatchedAvatarURL = &avatar
		}
		if item.User.Name != "" {
			name := item.User.Name
			resp.WatchedName = &name
		}
	}
	return resp
}

// WatchStatusResponse answers "am I watching this username?".
type WatchStatusResponse struct {
	IsWatching bool `json:"is_watching"`
}

// UserResponse is the public shape of a cached GitHub profile.
type UserResponse struct {
	Username    string     `json:"username"`
	Name        string     `json:"name,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Type        string     `json:"type,omitempty"`
	RefreshedAt time.Time  `json:"refreshed_at,omitzero"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// NewUserResponse shapes a cached profile for the API.
func NewUserResponse(user User) UserResponse {
	return UserResponse{
		Username:    user.Username,
		Name:        user.Name,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		Type:        user.Type,
		RefreshedAt: user.RefreshedAt,
		CreatedAt:   user.CreatedAt,
		DeletedAt:   user.DeletedAt,
	}
}

// UserSearchItem is one GitHub search hit.
type UserSearchItem struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Type      string `json:"type,omitempty"`
}

// UserSearchResponse is the result of a GitHub user search.
type UserSearchResponse struct {
	Users []UserSearchItem `json:"users"`
}

// SuggestionResponse is one review suggestion.
type SuggestionResponse struct {
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

// NewSuggestionResponse shapes a suggestion for the API.
func NewSuggestionResponse(s Suggestion) SuggestionResponse {
	resp := SuggestionResponse{Username: s.Username}
	if s.AvatarURL != "" {
		avatar := s.AvatarURL
		resp.AvatarURL = &avatar
	}
	return resp
}
