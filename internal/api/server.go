// Package api implements the HTTP boundary: a thin gorilla/mux adapter
// translating JSON requests into engine.Submit / engine.Cancel / query
// calls and engine results back into JSON.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"fenrir/internal/engine"
	"fenrir/internal/stream"
)

// Server owns the HTTP routes and holds the engine they delegate to; a
// push hub passed to New is only mounted at /v1/stream. It implements http.Handler so callers can wrap it in
// their own http.Server (timeouts, TLS) without this package making
// that decision.
type Server struct {
	engine *engine.MatchingEngine
	router *mux.Router
}

func New(eng *engine.MatchingEngine, hub *stream.Hub) *Server {
	s := &Server{
		engine: eng,
		router: mux.NewRouter(),
	}

	s.router.HandleFunc("/v1/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/orders", s.handleSubmit).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/symbols/{symbol}/orders/{id}", s.handleCancel).Methods(http.MethodDelete)
	s.router.HandleFunc("/v1/symbols/{symbol}/book", s.handleDepth).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/symbols/{symbol}/bbo", s.handleBBO).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/trades", s.handleTrades).Methods(http.MethodGet)
	if hub != nil {
		s.router.HandleFunc("/v1/stream", hub.ServeWS).Methods(http.MethodGet)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
