// Copyright (c) 2026 camp-sub001 contributors.

/*
Package ayano is the local, read-mostly HTTP surface over the watchlist
state: list endpoints for every entity store plus the ledger watermark
table, and a POST /run that triggers one download pass through the shared
[*orchestrator.Orchestrator] — the same entry point internal/aoi's
remote-control listener uses, so there is exactly one orchestration path
(see SPEC_FULL.md §6).

Architecture mirrors the teacher's internal/api: this package is the
composition root for the chi router and middleware chain; only it and
cmd/camp import net/http server primitives.
*/
package ayano

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/367718/camp-sub001/internal/orchestrator"
	"github.com/367718/camp-sub001/internal/platform/constants"
	"github.com/367718/camp-sub001/internal/platform/middleware"
)

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// NewServer builds the chi router with the full middleware chain and
// mounts every route against orch.
func NewServer(ctx context.Context, addr string, orch *orchestrator.Orchestrator, log *slog.Logger) *Server {
	h := &Handler{orch: orch}

	rte := chi.NewRouter()

	rte.Use(middleware.RequestID())
	rte.Use(middleware.StructuredLogger(log))
	rte.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	rte.Use(middleware.RateLimit(ctx))
	rte.Use(middleware.PanicRecovery(log))
	rte.Use(chimw.CleanPath)

	rte.Get("/health", h.health)

	rte.Get("/kinds", h.listKinds)
	rte.Get("/formats", h.listFormats)
	rte.Get("/feeds", h.listFeeds)
	rte.Get("/series", h.listSeries)
	rte.Get("/candidates", h.listCandidates)
	rte.Get("/ledger", h.listLedger)

	rte.Post("/run", h.run)

	return &Server{
		router: rte,
		log:    log,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           rte,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// ListenAndServe starts the HTTP server. It blocks until the server is
// closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("ayano listening", slog.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
