package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Origins []string
	Timeout time.Duration
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only set it when a reverse proxy overwrites those headers.
	TrustProxy bool
}

type Server struct{ mux *chi.Mux }

func New(opts Options) *Server {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	m := chi.NewRouter()

	// all middlewares go here (before any routes are added)
	if opts.TrustProxy {
		m.Use(chimw.RealIP)
	}
	m.Use(chimw.RequestID)
	m.Use(Recoverer)
	m.Use(Timeout(opts.Timeout))
	m.Use(SecurityHeaders)
	m.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.Origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept-Language"},
		ExposedHeaders:   []string{"ETag", "Retry-After", "RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           600,
	}))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
