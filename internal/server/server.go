// Package server is the HTTP glue around the code service: two JSON
// endpoints mirroring the service operations, a small index page, and a
// health check. It adds no semantics of its own -- no storage, no rate
// limiting, no transport security.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/reiserwang/vericode/pkg/api"
)

// Config holds the server dependencies.
type Config struct {
	// Port to listen on.
	Port int
	// Service performs the actual generate/verify operations (required).
	Service *api.Service
}

// New builds an http.Server serving the verification code API.
func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           NewHandler(cfg.Service),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// NewHandler builds the route table. Split from New so tests can drive it
// through httptest.
func NewHandler(svc *api.Service) http.Handler {
	h := newHandlers(svc)

	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/", h.index)
	router.HandlerFunc(http.MethodGet, "/health", h.health)
	router.HandlerFunc(http.MethodPost, "/generate", withLogging(h.generate))
	router.HandlerFunc(http.MethodPost, "/validate", withLogging(h.validateCode))

	return cors.Default().Handler(router)
}
