// Package server exposes the catalog over a local JSON API for the UI shell.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"estate-go/internal/catalog"
	"estate-go/internal/config"
	"estate-go/internal/form"
	"estate-go/internal/pricefmt"
)

// APIPrefix is the path prefix of every catalog route.
const APIPrefix = "/api/v1"

// Catalog is the application surface the handlers drive.
// *app.EstateApp implements it.
type Catalog interface {
	AddProperty(values form.Values) (catalog.Property, error)
	UpdateProperty(id string, values form.Values) (catalog.Property, error)
	DeleteProperty(id string) error
	ToggleFavorite(id string) (bool, error)
	GetProperty(id string) (catalog.Property, error)
	IsFavorite(id string) bool
	Search(text, typeFilter, sortKey string) ([]catalog.Property, error)
	Favorites() []catalog.Property
	Stats() catalog.Stats

	// Save persists pending changes. Handlers call it after every mutation;
	// changes stay pending when it fails.
	Save() error
}

// NewRouter builds the HTTP handler for the catalog API.
func NewRouter(c Catalog, formatter *pricefmt.Formatter, logger *slog.Logger, allowedOrigins []string) http.Handler {
	h := &handlers{catalog: c, formatter: formatter}

	r := chi.NewRouter()
	r.Use(middleware.RealIP, requestLogger(logger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", traceHeader},
		ExposedHeaders: []string{traceHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.health)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Get("/properties", h.listProperties)
		r.Post("/properties", h.createProperty)
		r.Route("/properties/{id}", func(r chi.Router) {
			r.Get("/", h.getProperty)
			r.Patch("/", h.updateProperty)
			r.Delete("/", h.deleteProperty)
			r.Post("/favorite", h.toggleFavorite)
		})
		r.Get("/favorites", h.listFavorites)
		r.Get("/stats", h.stats)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Server is the catalog HTTP server.
type Server struct {
	httpServer  *http.Server
	logger      *slog.Logger
	gracePeriod time.Duration
}

// NewServer creates a server for handler listening on cfg.Addr.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) (*Server, error) {
	grace, err := cfg.GracePeriod()
	if err != nil {
		return nil, err
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:      logger,
		gracePeriod: grace,
	}, nil
}

// Run serves on ln until ctx is cancelled, then shuts down gracefully.
// A nil ln listens on the configured address.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", s.httpServer.Addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("stopping API server", "grace_period", s.gracePeriod)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.gracePeriod)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
