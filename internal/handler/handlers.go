package handler

import (
	"github.com/peerhub/peerhub/internal/config"
	"github.com/peerhub/peerhub/internal/handler/http"
	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, logger),
	}, nil
}
