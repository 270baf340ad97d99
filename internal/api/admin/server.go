package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dtroode/backup-auth-server/internal/model"
)

var _ model.Server = (*Server)(nil)

// Server runs an http.Handler on a listener from a SecurityLayer.
type Server struct {
	server *http.Server
}

func NewServer(handler http.Handler, addr string) *Server {
	return &Server{server: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Start serves until Stop is called.
func (s *Server) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop waits for active requests until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) Address() string {
	return s.server.Addr
}
