package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct{ mux *chi.Mux }

type Options struct {
	Limiter *RateLimiter
	Auth    Authenticator
	Admins  []string
}

// New builds the router with the full middleware chain. Order matters:
// CORS answers preflights before the limiter spends budget on them, and
// authentication runs after rate limiting so rejected credentials still
// count against the caller's window.
func New(o Options) *Server {
	m := chi.NewRouter()

	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(Recover)
	m.Use(Timeout(15 * time.Second))
	m.Use(CORS)
	if o.Limiter != nil {
		m.Use(o.Limiter.Handler)
	}
	m.Use(Metrics)
	m.Use(Logger(log.Logger))
	m.Use(Auth(o.Auth, o.Admins))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
