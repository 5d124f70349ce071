// Package httpapi exposes the snippet staging, commit reconciliation and
// GitHub ingestion operations over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/logit-team/logit/internal/logging"
	"github.com/logit-team/logit/internal/server/services"
)

type Server struct {
	addr      string
	secretKey []byte
	logger    logging.Logger

	codes      *services.CodeService
	categories *services.CategoryService
	github     *services.GithubService
}

func NewServer(addr string, secretKey []byte, logger logging.Logger,
	codes *services.CodeService, categories *services.CategoryService, github *services.GithubService) *Server {
	return &Server{
		addr:       addr,
		secretKey:  secretKey,
		logger:     logger,
		codes:      codes,
		categories: categories,
		github:     github,
	}
}

// Router builds the route tree. Every /api route requires a bearer token.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/snippets", func(r chi.Router) {
			r.Post("/", s.stageSnippet)
			r.Get("/", s.listStaged)
			r.Patch("/{id}", s.updateCodeBlock)
			r.Patch("/{id}/status", s.updateStatus)
		})

		r.Route("/commits/{commitID}/codes", func(r chi.Router) {
			r.Post("/", s.commitSnippets)
			r.Get("/", s.listCodes)
		})

		r.Get("/categories", s.listCategories)

		r.Route("/github", func(r chi.Router) {
			r.Get("/repos", s.listRepos)
			r.Get("/{owner}/{repo}/branches", s.listBranches)
			r.Get("/{owner}/{repo}/commits", s.syncCommits)
			r.Get("/{owner}/{repo}/commits/{sha}", s.commitDetails)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
