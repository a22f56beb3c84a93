package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"bookshelf/internal/middleware"
	"bookshelf/internal/render"
	"bookshelf/internal/search"
	"bookshelf/internal/session"
	"bookshelf/internal/theme"
)

const (
	// SessionCookie carries the browsing session id.
	SessionCookie = "bookshelf_session"
	// ColorSchemeHint is the client hint consulted for a new session's theme.
	ColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"
)

// Options tune the middleware stack.
type Options struct {
	RateRPS        float64
	RateBurst      int
	AllowedOrigins []string
}

// Server wires HTTP requests to session commands and the stateless API.
type Server struct {
	Log      *logrus.Logger
	Sessions *session.Store
	Search   *search.Service
	Render   *render.Renderer

	opts   Options
	schema *validator
}

func New(log *logrus.Logger, store *session.Store, svc *search.Service, opts Options) (*Server, error) {
	r, err := render.New(svc)
	if err != nil {
		return nil, err
	}
	v, err := newValidator(searchSchema)
	if err != nil {
		return nil, err
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{
		Log:      log,
		Sessions: store,
		Search:   svc,
		Render:   r,
		opts:     opts,
		schema:   v,
	}, nil
}

// Routes builds the router with the full middleware stack.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(s.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "HX-Request", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
	}))
	r.Use(middleware.Metrics)
	r.Use(middleware.RateLimit(s.opts.RateRPS, s.opts.RateBurst))

	r.Get("/", s.Index)
	r.Post("/search", s.SubmitSearch)
	r.Post("/more", s.More)
	r.Get("/books/{id}", s.Preview)
	r.Post("/settings", s.Settings)

	r.Route("/api", func(r chi.Router) {
		r.Get("/books", s.APIBooks)
		r.Post("/search", s.APISearch)
		r.Get("/books/{id}", s.APIBook)
		r.Get("/options", s.APIOptions)
	})

	r.Get("/healthz", s.Health)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"books":    s.Search.Catalog().Len(),
		"sessions": s.Sessions.Len(),
	})
}

// session resolves the caller's session from its cookie, starting a new one
// when the cookie is missing or the session expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.Sessions.Get(c.Value); ok {
			return sess
		}
	}
	sess := s.Sessions.Create(theme.Preferred(r.Header.Get(ColorSchemeHint)))
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	return sess
}
