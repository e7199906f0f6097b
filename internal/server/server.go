// Package server exposes the dream bot over a small HTTP JSON API.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/sonnik/internal/config"
	"github.com/at-ishikawa/sonnik/internal/conversation"
)

//go:generate mockgen -source=server.go -destination=../mocks/server/mock_server.go -package=mock_server

const maxRequestBytes = 64 << 10

type MessageHandler interface {
	Handle(ctx context.Context, msg conversation.Message) (string, error)
}

type MessageRequest struct {
	RequesterID    int64  `json:"requester_id"`
	ConversationID string `json:"conversation_id,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	Text           string `json:"text"`
}

type MessageResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	httpServer *http.Server
}

func New(cfg config.ServerConfig, handler MessageHandler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewHandler(handler, cfg),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("net.Listen(%s) > %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	slog.Default().Info("Starting server", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.Serve() > %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("httpServer.Shutdown() > %w", err)
	}
	return nil
}

// NewHandler routes the API and accepts HTTP/2 without TLS.
func NewHandler(handler MessageHandler, cfg config.ServerConfig) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("POST /v1/messages", authMiddleware(cfg.AccessToken, &messageHandler{handler: handler}))
	return corsMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.CORS.AllowedOrigins)
}

type messageHandler struct {
	handler MessageHandler
}

func (h *messageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	reply, err := h.handler.Handle(r.Context(), conversation.Message{
		ConversationID: req.ConversationID,
		RequesterID:    req.RequesterID,
		FirstName:      req.FirstName,
		Text:           req.Text,
	})
	if err != nil {
		slog.Default().Warn("Failed to handle message",
			"conversation_id", req.ConversationID,
			"error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "conversation is busy"})
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		ConversationID: req.ConversationID,
		Reply:          reply,
	})
}

func authMiddleware(accessToken string, next http.Handler) http.Handler {
	if accessToken == "" {
		return next
	}
	want := []byte("Bearer " + accessToken)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := []byte(r.Header.Get("Authorization"))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("Failed to write response", "error", err)
	}
}
