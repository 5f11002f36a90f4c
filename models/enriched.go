package models

// ReviewWithIdentity is a review joined with its reviewer's resolved
// identity. Enrichment only produces entries for reviews whose reviewer
// account still exists and is not soft-deleted; anonymity masking happens
// later, at response shaping, so that the owner's own list can show full
// identity.
type ReviewWithIdentity struct {
	Review Review

	// ReviewerUsername is the reviewer account's current username.
	ReviewerUsername string

	// ReviewerAvatarURL is taken from the cached profile, empty on a
	// cache miss.
	ReviewerAvatarURL string
}

// PaginatedReviews is a page of enriched reviews for a profile page.
type PaginatedReviews struct {
	Items []ReviewWithIdentity

	// HasMore reports whether rows exist beyond this page.
	HasMore bool

	// IsPageOwner reports whether the viewer is the reviewed user, which
	// unlocks hidden comments in the response shaping.
	IsPageOwner bool
}

// ActivityFeedItem is one feed entry: a review with the reviewer identity
// already anonymity-masked and the reviewed user's avatar attached. The
// reviewed party's avatar is always shown regardless of reviewer anonymity.
type ActivityFeedItem struct {
	Review Review

	// ReviewerUsername and ReviewerAvatarURL are empty when the review is
	// anonymous.
	ReviewerUsername  string
	ReviewerAvatarURL string

	ReviewedUserAvatarURL string
}

// WatchWithUser is a watch joined with the cached profile of the watched
// user, nil when the profile has never been cached.
type WatchWithUser struct {
	Watch Watch
	User  *User
}

// Suggestion is a review-suggestion candidate derived from the account's
// GitHub following list.
type Suggestion struct {
	// Username keeps the display casing from GitHub.
	Username  string
	AvatarURL string

	// HasOpenAccount reports whether a non-deleted local account exists
	// for this username.
	HasOpenAccount bool

	// ReviewCount is how many reviews this username has received locally.
	ReviewCount int
}
