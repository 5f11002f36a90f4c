package models

// ExchangeCodeRequest carries the GitHub OAuth authorization code sent by
// the frontend after the user approves the OAuth prompt.
type ExchangeCodeRequest struct {
	Code string `json:"code"`
}

// CreateOrUpdateReviewRequest is the body of POST /api/v1/reviews.
// Comment is a pointer so that "absent" and "empty" can be told apart
// before sanitizing.
type CreateOrUpdateReviewRequest struct {
	ReviewedUsername string       `json:"reviewed_username"`
	Status           ReviewStatus `json:"status"`
	Comment          *string      `json:"comment,omitempty"`
	Anonymous        bool         `json:"anonymous"`
}

// ToggleCommentHiddenRequest is the body of PATCH /api/v1/reviews/{id}/visibility.
type ToggleCommentHiddenRequest struct {
	Hidden bool `json:"hidden"`
}

// WatchRequest is the body of POST /api/v1/watchlist.
type WatchRequest struct {
	Username string `json:"username"`
}
