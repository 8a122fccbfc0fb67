package server

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hongminglow/confession-be/internal/auth"
	"github.com/hongminglow/confession-be/internal/config"
	"github.com/hongminglow/confession-be/internal/http/handlers"
	"github.com/hongminglow/confession-be/internal/http/respond"
	"github.com/hongminglow/confession-be/internal/logging"
	"github.com/hongminglow/confession-be/internal/middleware"
	"github.com/hongminglow/confession-be/internal/pagination"
	"github.com/hongminglow/confession-be/internal/photos"
	"github.com/hongminglow/confession-be/internal/storage"
)

// Deps are the collaborators the HTTP layer is composed from.
type Deps struct {
	Users  storage.UserStore
	Notes  storage.NoteStore
	Photos photos.Store
	// DB, when set, is pinged by the health endpoint.
	DB handlers.Pinger
	// Tokens defaults to an HS256 manager built from the config.
	Tokens *auth.TokenManager
	Log    logging.Logger
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) (*Server, error) {
	handler, err := NewHandler(cfg, deps)
	if err != nil {
		return nil, err
	}
	var errorLog *log.Logger
	if sl, ok := deps.Log.(interface{ Slog() *slog.Logger }); ok {
		errorLog = slog.NewLogLogger(sl.Slog().Handler(), slog.LevelError)
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          errorLog,
	}
	return &Server{inner: httpServer}, nil
}

// NewHandler builds the routed handler. The phase gate sits in front of
// routing and authentication.
func NewHandler(cfg config.Config, deps Deps) (http.Handler, error) {
	log := deps.Log
	if log == nil {
		log = logging.Nop()
	}
	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	}
	limits := pagination.Limits{Default: cfg.PageLimitDefault, Max: cfg.PageLimitMax}

	docs, err := handlers.NewDocsHandler()
	if err != nil {
		return nil, fmt.Errorf("docs handler: %w", err)
	}
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Photos, tokens, cfg.MaxUploadSize, log)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Photos, limits, cfg.MaxUploadSize, log)
	noteHandler := handlers.NewNoteHandler(deps.Notes, deps.Users, limits, cfg.NoteMaxLength, log)
	systemHandler := handlers.NewSystemHandler(cfg.Phase, time.Now(), deps.DB, log)
	authn := middleware.NewAuthenticator(tokens, deps.Users, log)

	r := chi.NewRouter()
	r.Use(
		func(next http.Handler) http.Handler { return middleware.Recover(log, next) },
		chimw.RequestID,
		chimw.RealIP,
		func(next http.Handler) http.Handler { return middleware.Logging(log, next) },
		func(next http.Handler) http.Handler { return middleware.CORS(cfg.CORSOrigins, next) },
		func(next http.Handler) http.Handler { return middleware.PhaseGate(cfg.Phase, next) },
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/docs", docs.Page)
	r.Get("/openapi.json", docs.OpenAPI)
	if local, ok := deps.Photos.(*photos.LocalStore); ok {
		prefix := cfg.UploadURLPrefix + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(filesOnly{http.Dir(local.Dir())})))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", systemHandler.Health)
		r.Get("/system/phase", systemHandler.Phase)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/{id}", userHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(authn.Require)
				r.Put("/photo", userHandler.UpdatePhoto)
				r.Get("/gallery", userHandler.Gallery)
				r.Get("/profile", userHandler.Profile)
			})
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(authn.Require)
			r.Post("/", noteHandler.Create)
			r.Get("/sent", noteHandler.Sent)
			r.Get("/received", noteHandler.Received)
			r.Get("/unread/count", noteHandler.UnreadCount)
			r.Put("/{id}/read", noteHandler.MarkRead)
		})
	})

	return r, nil
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}

// filesOnly hides directories so the upload tree cannot be listed.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
