package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the assessment attached to a review. It is a flat enum:
// any status may change to any other status on update.
type ReviewStatus string

const (
	StatusApprove       ReviewStatus = "approve"
	StatusRequestChange ReviewStatus = "request_change"
	StatusComment       ReviewStatus = "comment"
)

// Valid reports whether s is one of the known review statuses.
func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusApprove, StatusRequestChange, StatusComment:
		return true
	}
	return false
}

// MaxCommentLength is the upper bound on a sanitized review comment.
const MaxCommentLength = 1024

// Review is a reviewer's assessment of a reviewed GitHub username.
//
// At most one review exists per (reviewer, reviewed username) pair, matched
// case-insensitively on the username. The reviewed side is referenced by
// username rather than account id: the target need not have an account yet.
type Review struct {
	ID int64 `json:"id"`

	// ReviewerUUID is the owning account's UUID.
	ReviewerUUID uuid.UUID `json:"reviewer_uuid"`

	// ReviewedUsername is the case-insensitive target key.
	ReviewedUsername string `json:"reviewed_username"`

	Status ReviewStatus `json:"status"`

	// Comment is the sanitized review text, empty when absent. Required
	// and non-blank when Status is StatusComment.
	Comment string `json:"comment,omitempty"`

	// Anonymous hides the reviewer's identity in every read view except
	// the reviewer's own list. Immutable after creation.
	Anonymous bool `json:"anonymous"`

	// CommentHidden masks the comment for everyone but the page owner.
	// Only the reviewed page's owner may toggle it.
	CommentHidden bool `json:"comment_hidden"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateStatus applies a status/comment change and bumps UpdatedAt.
// The anonymous flag is deliberately not touched here: it is immutable.
func (r *Review) UpdateStatus(status ReviewStatus, comment string) {
	r.Status = status
	r.Comment = comment
	r.UpdatedAt = time.Now().UTC()
}

// SetCommentHidden sets the comment visibility flag and bumps UpdatedAt.
func (r *Review) SetCommentHidden(hidden bool) {
	r.CommentHidden = hidden
	r.UpdatedAt = time.Now().UTC()
}

// TableName returns the name of the database table
// associated with the Review model.
func (r Review) TableName() string {
	return "reviews"
}
