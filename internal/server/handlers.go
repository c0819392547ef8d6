package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"course-rag/internal/helper"
)

type queryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

type queryResponse struct {
	Answer    string `json:"answer"`
	SourceURL string `json:"source_url,omitempty"`
}

type healthResponse struct {
	Status              string `json:"status"`
	Message             string `json:"message"`
	KnowledgeBaseChunks int    `json:"knowledge_base_chunks"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.answer(w, r, req)
}

// handleQueryGet answers ?question= requests, a convenience endpoint
// without session continuity.
func (s *Server) handleQueryGet(w http.ResponseWriter, r *http.Request) {
	s.answer(w, r, queryRequest{Question: r.URL.Query().Get("question")})
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request, req queryRequest) {
	if req.Question == "" {
		s.respondError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.SessionID == "" {
		id, err := helper.GenerateUUID()
		if err != nil {
			id = "default"
		}
		req.SessionID = id
	}

	log.Debug().Str("session", req.SessionID).Str("question", req.Question).Msg("Query request")

	result, err := s.rag.AnswerQuery(r.Context(), req.Question, req.SessionID)
	if err != nil {
		log.Error().Err(err).Msg("Query failed")
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, queryResponse{
		Answer:    result.Answer,
		SourceURL: result.SourceURL,
	})
}

// handleHealth never fails: an unreachable index degrades the status
// instead of erroring, so liveness probes keep working.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy", Message: "course FAQ API is running"}

	info, err := s.index.Info(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("Could not get collection info")
		resp.Status = "degraded"
		resp.Message = err.Error()
	} else {
		resp.KnowledgeBaseChunks = info.Chunks
	}

	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.rag.ClearSession(id)
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared", "session_id": id})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
