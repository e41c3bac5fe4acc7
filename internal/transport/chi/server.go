// Package chi holds the HTTP layer of the chat UI: the embedded page and the
// JSON search API behind it.
package chi

import (
	"context"
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/styva/vecsearch/internal/logger"
	"github.com/styva/vecsearch/internal/usecase/chat"
)

//go:embed index.html
var indexHTML string

// healthTimeout bounds the backing store ping on /healthz.
const healthTimeout = 5 * time.Second

// Pinger verifies the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves the chat page and its API.
type Server struct {
	chat   *chat.Service
	store  Pinger
	logger *zap.Logger
	page   *template.Template
}

// NewServer creates the chat UI server.
func NewServer(chatSvc *chat.Service, store Pinger, log *zap.Logger) *Server {
	return &Server{
		chat:   chatSvc,
		store:  store,
		logger: log,
		page:   template.Must(template.New("index").Parse(indexHTML)),
	}
}

type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type searchResponse struct {
	Reply string `json:"reply"`
}

// HandleIndex renders the chat page.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Welcome  string
		Examples []string
		MinK     int
		MaxK     int
		DefaultK int
	}{
		Welcome: chat.WelcomeMessage,
		Examples: []string{
			"Stealing from the bank is a crime",
			"Will it be hot tomorrow?",
		},
		MinK:     chat.MinResults,
		MaxK:     chat.MaxResults,
		DefaultK: chat.DefaultResults,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		logger.FromContext(r.Context()).Error("render page", zap.Error(err))
	}
}

// HandleSearch answers one chat submission. The response is always 200 with a
// reply message; search failures are already converted to chat messages by the
// chat service, so the conversation survives every backend error.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "bad_request",
			"message": "invalid request body",
		})
		return
	}

	reply := s.chat.Respond(r.Context(), req.Query, req.K)
	writeJSON(w, http.StatusOK, searchResponse{Reply: reply})
}

// HandleHealthz reports liveness of the server and its backing store.
func (s *Server) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		logger.FromContext(r.Context()).Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
