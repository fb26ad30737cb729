package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"moves/config"
	"moves/store"
)

type Server struct {
	router   *mux.Router
	handlers *Handlers
	metrics  *Metrics
	log      *slog.Logger
}

func NewServer(st store.Store, cfg *config.Config, log *slog.Logger) *Server {
	metrics := NewMetrics()

	server := &Server{
		router:   mux.NewRouter(),
		handlers: NewHandlers(st, cfg.SiteTitle, log, metrics),
		metrics:  metrics,
		log:      log,
	}

	server.setupRoutes(cfg)
	return server
}

func (s *Server) setupRoutes(cfg *config.Config) {
	s.router.Use(LoggingMiddleware(s.log, s.metrics))
	s.router.Use(SecurityHeadersMiddleware)
	if cfg.CSRFKey != "" {
		s.router.Use(CSRFMiddleware([]byte(cfg.CSRFKey), cfg.CSRFSecure))
	}

	s.router.HandleFunc("/", s.handlers.Moves).Methods(http.MethodGet, http.MethodHead, http.MethodPost)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) GetHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// GetMetricsServer serves /metrics on its own listener, apart from the
// application routes.
func (s *Server) GetMetricsServer(addr string) *http.Server {
	routes := http.NewServeMux()
	routes.Handle("/metrics", s.metrics.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           routes,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
