package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrInvalidReviewStatus = errors.New("unknown review status")
	ErrCommentRequired     = errors.New("a comment is required for comment reviews")
	ErrCommentTooLong      = errors.New("comment exceeds the maximum allowed length")
	ErrSelfReview          = errors.New("you cannot review yourself")
	ErrSelfWatch           = errors.New("you cannot watch yourself")
	ErrNotUserType         = errors.New("target is not a regular user")
	ErrAnonymousImmutable  = errors.New("the anonymous flag cannot be changed after creation")

	ErrAccessTokenMissing = errors.New("no github access token is stored for this account")
	ErrAccessRestricted   = errors.New("this username is not allowed to sign in")
	ErrForbidden          = errors.New("operation is not allowed for this account")

	ErrUserNotFound = errors.New("github user was not found")
	ErrGitHubAPI    = errors.New("github api call failed")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)
