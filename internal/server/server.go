package server

import (
	"errors"
	"fmt"
	"net"

	"github.com/MKhiriev/life-sync/internal/config"
	diagnostics "github.com/MKhiriev/life-sync/internal/handler/http"
	"github.com/MKhiriev/life-sync/internal/logger"
)

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

// NewServer binds the diagnostics endpoint to cfg.Address. It returns
// errNoServersAreCreated when no address is configured.
func NewServer(handler *diagnostics.Handler, cfg config.Metrics, logger *logger.Logger) (Server, error) {
	if cfg.Address == "" {
		return nil, errNoServersAreCreated
	}

	logger.Info().Str("address", cfg.Address).Msg("creating diagnostics server...")
	httpSrv, err := newHTTPServer(handler.Init(), cfg.Address, logger)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Address, err)
	}

	return &server{httpServer: httpSrv, logger: logger}, nil
}

// IsDisabled reports whether err from NewServer only means that no address
// was configured.
func IsDisabled(err error) bool {
	return errors.Is(err, errNoServersAreCreated)
}

func (s *server) RunServer() {
	s.logger.Info().Str("address", s.Addr().String()).Msg("launching diagnostics server")
	s.httpServer.RunServer()
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()
	s.logger.Info().Msg("diagnostics server shut down")
}

func (s *server) Addr() net.Addr {
	return s.httpServer.Addr()
}
