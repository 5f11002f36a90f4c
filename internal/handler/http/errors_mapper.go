package http

import (
	"errors"
	"net/http"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/internal/service"
	"github.com/peerhub/peerhub/internal/store"
	"github.com/peerhub/peerhub/internal/utils"
	"github.com/peerhub/peerhub/models"
)

// errorStatusMap translates service and store sentinel errors into HTTP
// status codes. Store infrastructure errors are deliberately absent: they
// fall through to 500 without leaking internal detail.
var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrInvalidReviewStatus: http.StatusBadRequest,
	service.ErrCommentRequired:     http.StatusBadRequest,
	service.ErrCommentTooLong:      http.StatusBadRequest,
	service.ErrSelfReview:          http.StatusBadRequest,
	service.ErrSelfWatch:           http.StatusBadRequest,
	service.ErrNotUserType:         http.StatusBadRequest,
	service.ErrAnonymousImmutable:  http.StatusBadRequest,

	service.ErrAccessTokenMissing:      http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	service.ErrAccessRestricted: http.StatusForbidden,
	service.ErrForbidden:        http.StatusForbidden,

	service.ErrUserNotFound: http.StatusNotFound,
	service.ErrGitHubAPI:    http.StatusBadGateway,

	store.ErrAccountNotFound: http.StatusNotFound,
	store.ErrReviewNotFound:  http.StatusNotFound,
	store.ErrWatchNotFound:   http.StatusNotFound,
	store.ErrUserNotCached:   http.StatusNotFound,

	store.ErrUsernameAlreadyExists: http.StatusConflict,
	store.ErrDuplicateWatch:        http.StatusConflict,
}

// statusAndDetail resolves the HTTP status and client-facing detail for an
// error. Unmapped errors produce 500 with a generic detail.
func statusAndDetail(err error) (int, string) {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status, target.Error()
		}
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// respondError logs the full error and writes the uniform JSON error body
// with the mapped status code.
func respondError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logger.FromRequest(r)

	status, detail := statusAndDetail(err)
	log.Err(err).Int("status", status).Msg(msg)

	utils.WriteJSON(w, models.ErrorResponse{Detail: detail}, status)
}
