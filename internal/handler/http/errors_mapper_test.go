// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/peerhub/peerhub/internal/service"
	"github.com/peerhub/peerhub/internal/store"
)

func TestStatusAndDetail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "validation error",
			err:        service.ErrInvalidDataProvided,
			wantStatus: http.StatusBadRequest,
			wantDetail: service.ErrInvalidDataProvided.Error(),
		},
		{
			name:       "wrapped self review",
			err:        fmt.Errorf("submit: %w", service.ErrSelfReview),
			wantStatus: http.StatusBadRequest,
			wantDetail: service.ErrSelfReview.Error(),
		},
		{
			name:       "anonymous flag immutable",
			err:        service.ErrAnonymousImmutable,
			wantStatus: http.StatusBadRequest,
			wantDetail: service.ErrAnonymousImmutable.Error(),
		},
		{
			name:       "missing access token",
			err:        service.ErrAccessTokenMissing,
			wantStatus: http.StatusUnauthorized,
			wantDetail: service.ErrAccessTokenMissing.Error(),
		},
		{
			name:       "allowlist rejection",
			err:        service.ErrAccessRestricted,
			wantStatus: http.StatusForbidden,
			wantDetail: service.ErrAccessRestricted.Error(),
		},
		{
			name:       "foreign resource",
			err:        service.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantDetail: service.ErrForbidden.Error(),
		},
		{
			name:       "github user not found",
			err:        service.ErrUserNotFound,
			wantStatus: http.StatusNotFound,
			wantDetail: service.ErrUserNotFound.Error(),
		},
		{
			name:       "account not found",
			err:        fmt.Errorf("get account: %w", store.ErrAccountNotFound),
			wantStatus: http.StatusNotFound,
			wantDetail: store.ErrAccountNotFound.Error(),
		},
		{
			name:       "review not found",
			err:        store.ErrReviewNotFound,
			wantStatus: http.StatusNotFound,
			wantDetail: store.ErrReviewNotFound.Error(),
		},
		{
			name:       "github upstream failure",
			err:        fmt.Errorf("%w: status 500", service.ErrGitHubAPI),
			wantStatus: http.StatusBadGateway,
			wantDetail: service.ErrGitHubAPI.Error(),
		},
		{
			name:       "store infrastructure error stays generic",
			err:        store.ErrExecutingQuery,
			wantStatus: http.StatusInternalServerError,
			wantDetail: http.StatusText(http.StatusInternalServerError),
		},
		{
			name:       "unknown error stays generic",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := statusAndDetail(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantDetail, detail)
		})
	}
}
