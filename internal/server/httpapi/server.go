// Package httpapi exposes the ArtVault REST endpoints. Protected routes pass
// through the auth gate before any handler runs.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/artvault/internal/logging"
	"github.com/dmitrijs2005/artvault/internal/server/auth"
	"github.com/dmitrijs2005/artvault/internal/server/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address  string
	users    *services.UserService
	artworks *services.ArtworkService
	gate     *auth.Gate
	logger   logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, as *services.ArtworkService, gate *auth.Gate) *HTTPServer {
	return &HTTPServer{
		address:  a,
		users:    us,
		artworks: as,
		gate:     gate,
		logger:   l.With("module", "http_server"),
	}
}

// Handler returns the routed and instrumented handler tree.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.register)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.Handle("GET /api/auth/me", s.requireAuth(s.me))

	mux.HandleFunc("GET /api/artworks", s.listArtworks)
	mux.HandleFunc("GET /api/artworks/{id}", s.getArtwork)
	mux.HandleFunc("GET /api/artworks/{id}/image", s.artworkImage)
	mux.Handle("POST /api/artworks", s.requireAuth(s.createArtwork))
	mux.Handle("PUT /api/artworks/{id}", s.requireAuth(s.updateArtwork))
	mux.Handle("DELETE /api/artworks/{id}", s.requireAuth(s.deleteArtwork))
	mux.Handle("POST /api/artworks/{id}/image", s.requireAuth(s.uploadArtworkImage))
	mux.Handle("PUT /api/artworks/{id}/image", s.requireAuth(s.confirmArtworkImage))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.instrument(mux)
}

func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
