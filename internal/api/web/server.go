// Package web serves the player dashboard and its JSON API.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/logging"
)

// Server wraps the dashboard's http.Server.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewRouter registers every dashboard route. ws serves /ws/snapshots and
// may be nil.
func NewRouter(h *Handler, ws http.Handler, logger *zap.Logger) *mux.Router {
	logger = logging.OrNop(logger).Named("http")

	router := mux.NewRouter()
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))

	router.HandleFunc("/", h.Index).Methods("GET")
	router.HandleFunc("/player/{code}", h.Player).Methods("GET")
	router.HandleFunc("/health", h.Health).Methods("GET")
	if ws != nil {
		router.Handle("/ws/snapshots", ws).Methods("GET")
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(CORSMiddleware())
	api.HandleFunc("/players", h.APIPlayers).Methods("GET", "OPTIONS")
	api.HandleFunc("/players/{code}", h.APIPlayer).Methods("GET", "OPTIONS")

	return router
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, h *Handler, ws http.Handler, logger *zap.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(h, ws, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logging.OrNop(logger).Named("web"),
	}
}

// Start serves until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("dashboard listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
