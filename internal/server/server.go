// Package server exposes the question-answering core over HTTP. It is
// a thin layer: request decoding, session-id defaulting, and mapping
// hard pipeline failures to transport errors.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"course-rag/internal/config"
	"course-rag/internal/models"
	"course-rag/internal/rag"
)

// QueryService is what the handlers need from the RAG core.
type QueryService interface {
	AnswerQuery(ctx context.Context, question, sessionID string) (models.Answer, error)
	ClearSession(sessionID string)
}

type Server struct {
	rag    QueryService
	index  rag.VectorIndex
	config *config.ServerConfig
	server *http.Server
}

func NewServer(ragService QueryService, index rag.VectorIndex, cfg *config.ServerConfig) *Server {
	return &Server{
		rag:    ragService,
		index:  index,
		config: cfg,
	}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/query", s.handleQuery)
	r.Get("/query", s.handleQueryGet)
	r.Get("/health", s.handleHealth)
	r.Delete("/sessions/{id}", s.handleClearSession)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}
	log.Info().Str("addr", addr).Msg("Starting server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
