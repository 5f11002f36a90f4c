package models

import "time"

// GitHub account type tags as returned by the GitHub API.
const (
	UserTypeUser         = "User"
	UserTypeOrganization = "Organization"
	UserTypeBot          = "Bot"
)

// ProfileCacheMaxAge is how long a cached GitHub profile snapshot stays
// fresh before a read triggers a refetch from GitHub.
const ProfileCacheMaxAge = 7 * 24 * time.Hour

// User is a cached snapshot of a GitHub profile. A User may exist without a
// corresponding [Account]: any GitHub username can be reviewed or watched
// before its owner ever logs in.
type User struct {
	// Username is the unique cache key, matched case-insensitively.
	Username string `json:"username"`

	Name      string `json:"name,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`

	// Type is the GitHub account type tag (User, Organization, Bot, ...).
	// Only regular users can be reviewed or watched.
	Type string `json:"type,omitempty"`

	// RefreshedAt is when this snapshot was last fetched from GitHub.
	// Zero means never, which counts as stale.
	RefreshedAt time.Time `json:"refreshed_at,omitzero"`

	// CreatedAt and DeletedAt are inherited from the matching Account when
	// the profile is served joined with account lifecycle state. They are
	// presentation fields and are not stored in the cache.
	CreatedAt *time.Time `json:"created_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsUserType reports whether the profile belongs to a regular user rather
// than an organization or a bot.
func (u User) IsUserType() bool {
	return u.Type == UserTypeUser
}
