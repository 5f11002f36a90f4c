package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/internal/service"
)

type Handler struct {
	services *service.Services

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}

// errInvalidRequestBody wraps a JSON decoding failure so it maps to
// HTTP 400 with the generic invalid-data detail.
func errInvalidRequestBody(err error) error {
	return fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err)
}

// queryInt reads an integer query parameter, returning the fallback when
// the parameter is absent or malformed.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}
